// Package hooks discovers and executes template lifecycle scripts.
//
// Hooks live in a hooks/ directory next to the template root and are named
// after the lifecycle point they attach to (pre_prompt, pre_gen_project,
// post_gen_project), with an optional extension. All hooks except
// pre_prompt are rendered against the variable context before running.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"

	"github.com/simonhull/ember/internal/exec"
	"github.com/simonhull/ember/internal/render"
	"github.com/simonhull/ember/internal/vars"
)

// Lifecycle points.
const (
	PrePrompt      = "pre_prompt"
	PreGenProject  = "pre_gen_project"
	PostGenProject = "post_gen_project"
)

// Dir is the hooks directory name inside a template repository.
const Dir = "hooks"

// HookError reports a hook script that failed to render or exited non-zero.
type HookError struct {
	Hook       string
	ExitStatus int
	Err        error
}

func (e *HookError) Error() string {
	if e.ExitStatus != 0 {
		return fmt.Sprintf("hook %s failed (exit status: %d)", e.Hook, e.ExitStatus)
	}
	return fmt.Sprintf("hook %s failed: %v", e.Hook, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

// Find returns the absolute path of the script for the named hook, or ""
// when the template provides none. A script matches when its name is the
// hook name, optionally followed by an extension; editor backups are
// ignored.
func Find(repoDir, name string) string {
	hooksDir := filepath.Join(repoDir, Dir)
	entries, err := os.ReadDir(hooksDir)
	if err != nil {
		return ""
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fileName := entry.Name()
		if strings.HasSuffix(fileName, "~") {
			continue
		}
		if fileName == name || strings.HasPrefix(fileName, name+".") {
			abs, err := filepath.Abs(filepath.Join(hooksDir, fileName))
			if err != nil {
				continue
			}
			return abs
		}
	}
	return ""
}

// Run executes the named hook, if present, with workDir as its working
// directory. Hooks other than pre_prompt are rendered against the context
// first, so scripts can reference {{ .ember.* }} variables.
func Run(ctx context.Context, name, repoDir, workDir string, vctx *vars.Context, r *render.Renderer) error {
	script := Find(repoDir, name)
	if script == "" {
		return nil
	}

	if name == PrePrompt {
		return runScript(ctx, name, script, workDir)
	}

	raw, err := os.ReadFile(script)
	if err != nil {
		return &HookError{Hook: name, Err: err}
	}

	rendered, err := r.RenderString(script, string(raw), vctx.Data())
	if err != nil {
		return &HookError{Hook: name, Err: err}
	}

	tmp, err := os.CreateTemp("", "ember-hook-*"+filepath.Ext(script))
	if err != nil {
		return &HookError{Hook: name, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(rendered); err != nil {
		tmp.Close()
		return &HookError{Hook: name, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &HookError{Hook: name, Err: err}
	}
	if err := os.Chmod(tmpPath, 0o755); err != nil {
		return &HookError{Hook: name, Err: err}
	}

	return runScript(ctx, name, tmpPath, workDir)
}

// RunPrePrompt runs the pre_prompt hook from a scratch copy of the
// repository, so the hook can rewrite template files without touching the
// original. Returns the directory subsequent steps should read the
// template from. When the hook fails, the scratch copy is removed.
func RunPrePrompt(ctx context.Context, repoDir string) (string, error) {
	if Find(repoDir, PrePrompt) == "" {
		return repoDir, nil
	}

	tmpDir, err := os.MkdirTemp("", "ember-repo-")
	if err != nil {
		return "", err
	}
	if err := copyTree(repoDir, tmpDir); err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}

	if err := Run(ctx, PrePrompt, tmpDir, tmpDir, vars.New(), render.New()); err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}
	return tmpDir, nil
}

func runScript(ctx context.Context, name, script, workDir string) error {
	if err := os.Chmod(script, 0o755); err != nil {
		return &HookError{Hook: name, Err: err}
	}

	executor := exec.New(&exec.Options{Dir: workDir})
	if err := executor.Run(ctx, script); err != nil {
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			return &HookError{Hook: name, ExitStatus: exitErr.ExitCode(), Err: err}
		}
		return &HookError{Hook: name, Err: err}
	}
	return nil
}

// copyTree copies src into dst recursively, preserving file modes.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	})
}
