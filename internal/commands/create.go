package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/ember/internal/config"
	"github.com/simonhull/ember/internal/generate"
	"github.com/simonhull/ember/internal/hooks"
	"github.com/simonhull/ember/internal/logging"
	"github.com/simonhull/ember/internal/output"
	"github.com/simonhull/ember/internal/prompt"
	"github.com/simonhull/ember/internal/render"
	"github.com/simonhull/ember/internal/replay"
	"github.com/simonhull/ember/internal/repository"
	"github.com/simonhull/ember/internal/template"
	"github.com/simonhull/ember/internal/vars"
	"github.com/spf13/cobra"
)

type createOptions struct {
	source     string
	extra      map[string]any
	configFile string
	checkout   string
	outputDir  string

	noInput              bool
	overwriteIfExists    bool
	skipIfFileExists     bool
	keepProjectOnFailure bool
	noHooks              bool
	useReplay            bool
}

// CreateCmd creates and returns the 'create' command for generating projects
func CreateCmd() *cobra.Command {
	opts := createOptions{}

	cmd := &cobra.Command{
		Use:   "create <template> [key=value ...]",
		Short: "Create a project from a template",
		Long: `Creates a project from a template directory, git URL, or zip archive.

Variable values come from the template manifest, your config file's
default_context, key=value arguments, and interactive prompts (unless
--no-input). Answers are saved and can be reused with --replay.

Examples:
  ember create ./my-template
  ember create gh:simonhull/go-service-template --checkout v2
  ember create https://example.com/template.zip name=myapp --no-input`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			opts.source = args[0]

			extra, err := parseExtra(args[1:])
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}
			opts.extra = extra

			projectDir, err := runCreate(cmd.Context(), opts)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			output.Success(fmt.Sprintf("Created project: %s", projectDir))
			output.Info("Next steps:")
			output.Step(fmt.Sprintf("cd %s", filepath.Base(projectDir)))
		},
	}

	cmd.Flags().BoolVar(&opts.noInput, "no-input", false, "Resolve every variable from its default instead of prompting")
	cmd.Flags().StringVarP(&opts.checkout, "checkout", "c", "", "Branch, tag, or commit to check out after cloning")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", ".", "Directory to create the project in")
	cmd.Flags().BoolVarP(&opts.overwriteIfExists, "overwrite-if-exists", "f", false, "Proceed when the project directory already exists")
	cmd.Flags().BoolVarP(&opts.skipIfFileExists, "skip-if-file-exists", "s", false, "Keep already-existing destination files untouched")
	cmd.Flags().BoolVar(&opts.keepProjectOnFailure, "keep-project-on-failure", false, "Keep partial output when generation fails")
	cmd.Flags().BoolVar(&opts.noHooks, "no-hooks", false, "Skip the template's hook scripts")
	cmd.Flags().BoolVar(&opts.useReplay, "replay", false, "Reuse the answers from the previous run of this template")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "Path to the Ember config file")

	return cmd
}

func runCreate(ctx context.Context, opts createOptions) (string, error) {
	log := logging.GetLogger("create")

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return "", err
	}

	templateName := sourceName(repository.ExpandAbbreviation(opts.source, cfg.Abbreviations))
	log.Debug().Str("source", opts.source).Str("template", templateName).Msg("Resolving template")

	repoDir, err := resolveRepo(ctx, opts, cfg)
	if err != nil {
		return "", err
	}

	if !opts.noHooks {
		hookedDir, err := hooks.RunPrePrompt(ctx, repoDir)
		if err != nil {
			return "", err
		}
		if hookedDir != repoDir {
			defer os.RemoveAll(hookedDir)
			repoDir = hookedDir
		}
	}

	templateRoot, err := template.FindRoot(repoDir)
	if err != nil {
		return "", err
	}

	r := render.New()

	var vctx *vars.Context
	if opts.useReplay {
		vctx, err = replay.Load(cfg.ReplayDir, templateName)
		if err != nil {
			return "", err
		}
	} else {
		vctx, err = vars.Build(template.ManifestPath(templateRoot), cfg.DefaultContext, opts.extra)
		if err != nil {
			return "", err
		}
		if err := prompt.New(r, opts.noInput).Resolve(vctx); err != nil {
			return "", err
		}
		if err := replay.Dump(cfg.ReplayDir, templateName, vctx); err != nil {
			log.Warn().Err(err).Msg("Failed to save replay answers")
		}
	}

	if !vctx.Has(vars.KeyTemplate) {
		vctx.Set(vars.KeyTemplate, filepath.Base(templateRoot))
	}

	return generate.Generate(ctx, generate.Options{
		RepoDir:              repoDir,
		TemplateRoot:         templateRoot,
		Context:              vctx,
		OutputDir:            opts.outputDir,
		OverwriteIfExists:    opts.overwriteIfExists,
		SkipIfFileExists:     opts.skipIfFileExists,
		AcceptHooks:          !opts.noHooks,
		KeepProjectOnFailure: opts.keepProjectOnFailure,
		Renderer:             r,
	})
}

// resolveRepo fetches the template repository, with a spinner for remote
// sources.
func resolveRepo(ctx context.Context, opts createOptions, cfg *config.Config) (string, error) {
	resolveOpts := repository.Options{
		Checkout:      opts.checkout,
		CloneDir:      cfg.TemplatesDir,
		NoInput:       opts.noInput,
		Abbreviations: cfg.Abbreviations,
	}

	expanded := repository.ExpandAbbreviation(opts.source, cfg.Abbreviations)
	if info, err := os.Stat(expanded); err == nil && info.IsDir() {
		return repository.Resolve(ctx, opts.source, resolveOpts)
	}

	var repoDir string
	err := output.Spin("Fetching template", func() error {
		var resolveErr error
		repoDir, resolveErr = repository.Resolve(ctx, opts.source, resolveOpts)
		return resolveErr
	})
	return repoDir, err
}

// parseExtra turns trailing key=value arguments into context overrides.
func parseExtra(args []string) (map[string]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	extra := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		extra[key] = value
	}
	return extra, nil
}

// sourceName derives the replay/clone name from a template source.
func sourceName(source string) string {
	name := strings.TrimSuffix(source, "/")
	if idx := strings.LastIndexAny(name, "/:"); idx != -1 {
		name = name[idx+1:]
	}
	name = strings.TrimSuffix(name, ".git")
	name = strings.TrimSuffix(name, ".zip")
	if name == "" || name == "." {
		if abs, err := filepath.Abs(source); err == nil {
			return filepath.Base(abs)
		}
	}
	return name
}
