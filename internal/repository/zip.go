package repository

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/simonhull/ember/internal/logging"
)

// InvalidZipError reports an archive that could not be fetched or read.
type InvalidZipError struct {
	URI string
	Err error
}

func (e *InvalidZipError) Error() string {
	return fmt.Sprintf("invalid zip template %s: %v", e.URI, e.Err)
}

func (e *InvalidZipError) Unwrap() error { return e.Err }

// fetchZip resolves a zip template source (local path or URL) into an
// extracted directory under CloneDir. When the archive wraps everything in
// a single top-level directory, that directory's contents become the
// repository root.
func fetchZip(ctx context.Context, uri string, opts Options) (string, error) {
	log := logging.GetLogger("repository")

	archivePath := uri
	if strings.Contains(uri, "://") {
		downloaded, err := downloadZip(ctx, uri)
		if err != nil {
			return "", err
		}
		defer os.Remove(downloaded)
		archivePath = downloaded
	}

	destination := filepath.Join(opts.CloneDir, zipStem(uri))
	if _, err := os.Stat(destination); err == nil {
		if !opts.NoInput {
			log.Debug().Str("destination", destination).Msg("Reusing extracted archive")
			return destination, nil
		}
		if err := os.RemoveAll(destination); err != nil {
			return "", &InvalidZipError{URI: uri, Err: err}
		}
	}

	if err := extractZip(archivePath, destination); err != nil {
		os.RemoveAll(destination)
		return "", &InvalidZipError{URI: uri, Err: err}
	}
	return destination, nil
}

// downloadZip fetches a remote archive to a temp file, retrying transient
// failures.
func downloadZip(ctx context.Context, url string) (string, error) {
	tmp, err := os.CreateTemp("", "ember-zip-*.zip")
	if err != nil {
		return "", &InvalidZipError{URI: url, Err: err}
	}
	tmpPath := tmp.Name()
	tmp.Close()

	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %s", resp.Status)
			}

			out, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, resp.Body); err != nil {
				out.Close()
				return err
			}
			return out.Close()
		},
		retry.Attempts(3),
		retry.Context(ctx),
	)
	if err != nil {
		os.Remove(tmpPath)
		return "", &InvalidZipError{URI: url, Err: err}
	}
	return tmpPath, nil
}

// extractZip unpacks the archive into destination, collapsing a single
// wrapping top-level directory.
func extractZip(archivePath, destination string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer reader.Close()

	prefix := commonTopDir(reader.File)

	for _, file := range reader.File {
		name := file.Name
		if prefix != "" {
			name = strings.TrimPrefix(name, prefix)
		}
		if name == "" {
			continue
		}

		target := filepath.Join(destination, filepath.FromSlash(name))
		if !strings.HasPrefix(target, filepath.Clean(destination)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes the destination", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}

		in, err := file.Open()
		if err != nil {
			return err
		}
		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode().Perm())
		if err != nil {
			in.Close()
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			in.Close()
			out.Close()
			return err
		}
		in.Close()
		if err := out.Close(); err != nil {
			return err
		}
	}
	return nil
}

// commonTopDir returns the single top-level directory shared by every
// entry, or "" when the archive has none.
func commonTopDir(files []*zip.File) string {
	var top string
	for _, file := range files {
		first, _, found := strings.Cut(file.Name, "/")
		if !found {
			return ""
		}
		if top == "" {
			top = first
		} else if first != top {
			return ""
		}
	}
	if top == "" {
		return ""
	}
	return top + "/"
}

// zipStem derives the extraction directory name from the archive URI.
func zipStem(uri string) string {
	base := uri
	if idx := strings.LastIndex(base, "/"); idx != -1 {
		base = base[idx+1:]
	}
	return strings.TrimSuffix(base, ".zip")
}
