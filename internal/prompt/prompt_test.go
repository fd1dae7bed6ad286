package prompt_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/simonhull/ember/internal/generate"
	"github.com/simonhull/ember/internal/prompt"
	"github.com/simonhull/ember/internal/render"
	"github.com/simonhull/ember/internal/vars"
)

func TestResolve_NoInputUsesDefaults(t *testing.T) {
	ctx := vars.New()
	ctx.Set("project_name", "My Project")
	ctx.Set("project_slug", "{{ snakeCase .ember.project_name }}")
	ctx.Set("license", []any{"MIT", "BSD-3-Clause"})
	ctx.Set("use_docker", true)
	ctx.Set("_copy_without_render", []any{"LICENSE"})

	p := prompt.New(render.New(), true)
	if err := p.Resolve(ctx); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	got := ctx.Map()
	if got["project_name"] != "My Project" {
		t.Errorf("literal default should survive: %v", got["project_name"])
	}

	// Defaults render against the answers that came before them.
	if got["project_slug"] != "my_project" {
		t.Errorf("derived default not rendered: %v", got["project_slug"])
	}

	// The first choice option is the default.
	if got["license"] != "MIT" {
		t.Errorf("first choice should win: %v", got["license"])
	}

	if got["use_docker"] != true {
		t.Errorf("bool default should survive: %v", got["use_docker"])
	}

	// Private keys are configuration, not questions.
	if _, ok := got["_copy_without_render"].([]any); !ok {
		t.Errorf("private key should be untouched: %v", got["_copy_without_render"])
	}
}

func TestResolve_InteractiveAnswers(t *testing.T) {
	ctx := vars.New()
	ctx.Set("project_name", "Default Name")
	ctx.Set("use_docker", false)
	ctx.Set("author", "anon")

	p := prompt.New(render.New(), false)
	p.In = strings.NewReader("Typed Name\ny\n\n")

	if err := p.Resolve(ctx); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	got := ctx.Map()
	if got["project_name"] != "Typed Name" {
		t.Errorf("typed answer should win: %v", got["project_name"])
	}
	if got["use_docker"] != true {
		t.Errorf("y should flip the bool: %v", got["use_docker"])
	}

	// Empty input keeps the default.
	if got["author"] != "anon" {
		t.Errorf("blank answer should keep the default: %v", got["author"])
	}
}

func TestResolve_UndefinedVariableInDefault(t *testing.T) {
	ctx := vars.New()
	ctx.Set("project_slug", "{{ snakeCase .ember.project_name }}")

	p := prompt.New(render.New(), true)
	err := p.Resolve(ctx)

	var undefErr *generate.UndefinedVariableError
	if !errors.As(err, &undefErr) {
		t.Fatalf("expected UndefinedVariableError, got %v", err)
	}
	if undefErr.Path != "project_slug" {
		t.Errorf("error should name the variable: %s", undefErr.Path)
	}
}

func TestResolve_EmptyChoice(t *testing.T) {
	ctx := vars.New()
	ctx.Set("license", []any{})

	p := prompt.New(render.New(), true)
	if err := p.Resolve(ctx); err == nil {
		t.Fatal("expected error for a choice with no options")
	}
}

func TestResolve_RenderedChoiceOptions(t *testing.T) {
	ctx := vars.New()
	ctx.Set("project_name", "demo")
	ctx.Set("binary_name", []any{"{{ .ember.project_name }}-cli", "{{ .ember.project_name }}d"})

	p := prompt.New(render.New(), true)
	if err := p.Resolve(ctx); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if got, _ := ctx.Get("binary_name"); got != "demo-cli" {
		t.Errorf("choice options should be rendered: %v", got)
	}
}
