// Package repository acquires template repositories: local directories
// pass through, git URLs are cloned, zip archives are downloaded and
// extracted. Its error types are distinct from the generation errors so
// callers can tell a fetch failure from a rendering one.
package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/simonhull/ember/internal/logging"
)

// DefaultAbbreviations expand shorthand template sources; "{0}" is
// replaced with the remainder of the source after the colon.
var DefaultAbbreviations = map[string]string{
	"gh": "https://github.com/{0}.git",
	"gl": "https://gitlab.com/{0}.git",
	"bb": "https://bitbucket.org/{0}",
}

// Options configures template resolution.
type Options struct {
	Checkout      string            // branch, tag, or commit to check out after cloning
	CloneDir      string            // where clones and extracted archives land
	NoInput       bool              // refresh cached clones without asking
	Abbreviations map[string]string // merged over DefaultAbbreviations
}

// CloneError reports a failed clone or checkout.
type CloneError struct {
	URL string
	Err error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("cloning %s: %v", e.URL, e.Err)
}

func (e *CloneError) Unwrap() error { return e.Err }

// UnknownSourceError reports a template source that is neither a local
// directory, a repository URL, nor a zip archive.
type UnknownSourceError struct {
	Source string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unable to determine the type of template source %q", e.Source)
}

// Resolve turns a template source into a local repository directory.
// Clones and archive extractions are cached under CloneDir and reused on
// later runs.
func Resolve(ctx context.Context, source string, opts Options) (string, error) {
	source = ExpandAbbreviation(source, opts.Abbreviations)

	if info, err := os.Stat(source); err == nil && info.IsDir() {
		return source, nil
	}

	if strings.HasSuffix(source, ".zip") {
		return fetchZip(ctx, source, opts)
	}

	if isRepoURL(source) {
		return clone(ctx, source, opts)
	}

	return "", &UnknownSourceError{Source: source}
}

// ExpandAbbreviation rewrites sources like "gh:user/template" using the
// configured abbreviations.
func ExpandAbbreviation(source string, abbreviations map[string]string) string {
	prefix, rest, ok := strings.Cut(source, ":")
	if !ok {
		return source
	}

	expansion, found := abbreviations[prefix]
	if !found {
		expansion, found = DefaultAbbreviations[prefix]
	}
	if !found {
		return source
	}
	return strings.ReplaceAll(expansion, "{0}", rest)
}

// isRepoURL reports whether the source looks like a version-control
// remote.
func isRepoURL(source string) bool {
	return strings.HasPrefix(source, "git+") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasSuffix(source, ".git") ||
		strings.Contains(source, "://")
}

// clone fetches a git repository into CloneDir. An existing clone is
// reused unless NoInput forces a refresh.
func clone(ctx context.Context, url string, opts Options) (string, error) {
	log := logging.GetLogger("repository")

	url = strings.TrimPrefix(url, "git+")

	if err := os.MkdirAll(opts.CloneDir, 0o755); err != nil {
		return "", &CloneError{URL: url, Err: err}
	}

	repoDir := filepath.Join(opts.CloneDir, repoName(url))
	if _, err := os.Stat(repoDir); err == nil {
		if !opts.NoInput {
			log.Debug().Str("repoDir", repoDir).Msg("Reusing cached clone")
			return repoDir, nil
		}
		if err := os.RemoveAll(repoDir); err != nil {
			return "", &CloneError{URL: url, Err: err}
		}
	}

	log.Debug().Str("url", url).Str("repoDir", repoDir).Msg("Cloning template repository")
	repo, err := git.PlainCloneContext(ctx, repoDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		os.RemoveAll(repoDir)
		return "", &CloneError{URL: url, Err: err}
	}

	if opts.Checkout != "" {
		if err := checkout(repo, opts.Checkout); err != nil {
			os.RemoveAll(repoDir)
			return "", &CloneError{URL: url, Err: err}
		}
	}

	return repoDir, nil
}

func checkout(repo *git.Repository, ref string) error {
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return fmt.Errorf("unknown revision %q: %w", ref, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}
	return worktree.Checkout(&git.CheckoutOptions{Hash: *hash})
}

// repoName derives the local directory name from a repository URL.
func repoName(url string) string {
	name := strings.TrimSuffix(url, "/")
	if idx := strings.LastIndexAny(name, "/:"); idx != -1 {
		name = name[idx+1:]
	}
	return strings.TrimSuffix(name, ".git")
}
