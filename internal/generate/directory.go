package generate

import (
	"os"
	"path/filepath"

	"github.com/simonhull/ember/internal/render"
	"github.com/simonhull/ember/internal/vars"
)

// MaterializeDir renders a directory name against the context and creates
// it (with any missing parents) under outputRoot, returning its absolute
// path. An already-existing directory is an OutputDirExistsError unless
// overwrite is set; creating missing parents is idempotent either way.
func MaterializeDir(dirName string, ctx *vars.Context, r *render.Renderer, outputRoot string, overwrite bool) (string, error) {
	rendered, err := r.RenderPath(dirName, ctx.Data())
	if err != nil {
		return "", &UndefinedVariableError{Path: dirName, Err: err, Context: ctx}
	}

	dirToCreate := filepath.Clean(filepath.Join(outputRoot, filepath.FromSlash(rendered)))

	if _, statErr := os.Stat(dirToCreate); statErr == nil && !overwrite {
		return "", &OutputDirExistsError{Path: dirToCreate}
	}

	if err := os.MkdirAll(dirToCreate, 0o755); err != nil {
		return "", err
	}

	return filepath.Abs(dirToCreate)
}
