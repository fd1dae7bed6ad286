package generate

import (
	"fmt"

	"github.com/simonhull/ember/internal/vars"
)

// OutputDirExistsError reports that the target project directory already
// exists and overwriting was not permitted.
type OutputDirExistsError struct {
	Path string
}

func (e *OutputDirExistsError) Error() string {
	return fmt.Sprintf("output directory %s already exists", e.Path)
}

// UndefinedVariableError reports a path or content template that referenced
// an unresolved variable, or contained a template syntax error. It carries
// the offending path, the underlying template error, and a snapshot of the
// context for diagnostics.
type UndefinedVariableError struct {
	Path    string
	Err     error
	Context *vars.Context
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("unable to render %s: %v", e.Path, e.Err)
}

func (e *UndefinedVariableError) Unwrap() error { return e.Err }
