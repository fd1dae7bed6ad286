// Package generate materializes a project directory from a template tree:
// directory and file names render against the variable context, file
// contents render unless the file is binary or matched by a
// copy-without-render pattern, and any failure rolls the partial project
// back unless the caller opts out.
package generate

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/simonhull/ember/internal/hooks"
	"github.com/simonhull/ember/internal/logging"
	"github.com/simonhull/ember/internal/render"
	"github.com/simonhull/ember/internal/template"
	"github.com/simonhull/ember/internal/vars"
)

// Options configures a generation run.
type Options struct {
	RepoDir      string        // template repository (hook scripts live here)
	TemplateRoot string        // manifest-bearing directory to walk
	Context      *vars.Context // fully resolved variable context
	OutputDir    string        // where the project directory is created

	OverwriteIfExists    bool
	SkipIfFileExists     bool
	AcceptHooks          bool
	KeepProjectOnFailure bool

	Renderer *render.Renderer // defaults to render.New()
}

// Generate renders the template tree into a fresh project directory and
// returns its absolute path.
//
// Directories are always materialized before the files inside them: the
// walk is top-down, so no file write can target a not-yet-created parent.
// The context is read-only for the whole run. On failure the partially
// generated project is deleted, unless KeepProjectOnFailure is set; the
// originating error is returned either way.
func Generate(ctx context.Context, opts Options) (string, error) {
	log := logging.GetLogger("generate")

	r := opts.Renderer
	if r == nil {
		r = render.New()
	}

	vctx := opts.Context
	if vctx == nil {
		vctx = vars.New()
	}

	nameTmpl, ok := vctx.Get(vars.KeyTemplate)
	if !ok {
		return "", fmt.Errorf("context is missing the %q key", vars.KeyTemplate)
	}

	projectDir, err := MaterializeDir(fmt.Sprintf("%v", nameTmpl), vctx, r, opts.OutputDir, opts.OverwriteIfExists)
	if err != nil {
		return "", err
	}
	log.Debug().Str("projectDir", projectDir).Msg("Created project directory")

	fail := func(err error) (string, error) {
		if !opts.KeepProjectOnFailure {
			log.Debug().Str("projectDir", projectDir).Msg("Generation failed, deleting project directory")
			os.RemoveAll(projectDir)
		}
		return "", err
	}

	if opts.AcceptHooks {
		if err := hooks.Run(ctx, hooks.PreGenProject, opts.RepoDir, projectDir, vctx, r); err != nil {
			return fail(err)
		}
	}

	if err := walkTemplate(opts, vctx, r, projectDir); err != nil {
		return fail(err)
	}

	if opts.AcceptHooks {
		if err := hooks.Run(ctx, hooks.PostGenProject, opts.RepoDir, projectDir, vctx, r); err != nil {
			return fail(err)
		}
	}

	return projectDir, nil
}

// walkTemplate traverses the template tree top-down and materializes every
// entry. The manifest file and the hooks directory are part of the
// template's machinery, not its content, and are skipped.
func walkTemplate(opts Options, vctx *vars.Context, r *render.Renderer, projectDir string) error {
	log := logging.GetLogger("generate")
	root := opts.TemplateRoot

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == hooks.Dir {
				return filepath.SkipDir
			}
			log.Debug().Str("dir", rel).Msg("Materializing directory")
			if _, err := MaterializeDir(rel, vctx, r, projectDir, opts.OverwriteIfExists); err != nil {
				return err
			}
			return nil
		}

		if isManifest(rel) {
			return nil
		}

		if IsCopyOnly(rel, vctx) {
			log.Debug().Str("file", rel).Msg("Copying without rendering")
			return CopyOnlyFile(root, projectDir, rel, vctx, r)
		}

		log.Debug().Str("file", rel).Msg("Materializing file")
		return MaterializeFile(root, projectDir, rel, vctx, r, opts.SkipIfFileExists)
	})
}

func isManifest(rel string) bool {
	for _, name := range template.ManifestNames {
		if rel == name {
			return true
		}
	}
	return false
}
