package generate

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/simonhull/ember/internal/render"
	"github.com/simonhull/ember/internal/vars"
)

// MaterializeFile renders relPath (slash-separated, relative to
// templateRoot) as a path template, then writes the corresponding output
// file under projectDir:
//
//   - destination already exists and skipIfExists is set: no-op
//   - source is binary: bytes copied verbatim, contents never rendered
//   - otherwise: contents rendered against the context and written as text
//
// Rendered files keep 0644 permissions plus any execute bits carried over
// from the source.
func MaterializeFile(templateRoot, projectDir, relPath string, ctx *vars.Context, r *render.Renderer, skipIfExists bool) error {
	outPath, err := renderOutPath(projectDir, relPath, ctx, r)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	if skipIfExists {
		if _, statErr := os.Stat(outPath); statErr == nil {
			return nil
		}
	}

	srcPath := filepath.Join(templateRoot, filepath.FromSlash(relPath))

	binary, err := IsBinary(srcPath)
	if err != nil {
		return err
	}
	if binary {
		return copyFile(srcPath, outPath)
	}

	content, err := r.RenderFile(srcPath, ctx.Data())
	if err != nil {
		return &UndefinedVariableError{Path: relPath, Err: err, Context: ctx}
	}

	return os.WriteFile(outPath, content, outputMode(srcPath))
}

// CopyOnlyFile copies a copy-without-render file: the path is still
// rendered (directory names can embed variables), the contents are not.
func CopyOnlyFile(templateRoot, projectDir, relPath string, ctx *vars.Context, r *render.Renderer) error {
	outPath, err := renderOutPath(projectDir, relPath, ctx, r)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return copyFile(filepath.Join(templateRoot, filepath.FromSlash(relPath)), outPath)
}

func renderOutPath(projectDir, relPath string, ctx *vars.Context, r *render.Renderer) (string, error) {
	rendered, err := r.RenderPath(relPath, ctx.Data())
	if err != nil {
		return "", &UndefinedVariableError{Path: relPath, Err: err, Context: ctx}
	}
	return filepath.Join(projectDir, filepath.FromSlash(rendered)), nil
}

// copyFile copies src to dst byte-for-byte, preserving the source mode.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// outputMode returns 0644 with execute bits carried over from the source,
// so rendered hook-style scripts stay executable.
func outputMode(srcPath string) fs.FileMode {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(srcPath); err == nil {
		mode |= info.Mode().Perm() & 0o111
	}
	return mode
}
