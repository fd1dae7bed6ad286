package vars_test

import (
	"reflect"
	"testing"

	"github.com/simonhull/ember/internal/vars"
)

func TestBuild_Precedence(t *testing.T) {
	path := writeManifest(t, "ember.json", `{
		"author": "manifest",
		"email": "manifest@example.com",
		"project": "manifest"
	}`)

	defaults := map[string]any{"author": "defaults", "email": "defaults@example.com"}
	extra := map[string]any{"author": "extra"}

	ctx, err := vars.Build(path, defaults, extra)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	got := ctx.Map()
	if got["author"] != "extra" {
		t.Errorf("extra should win over defaults: got %v", got["author"])
	}
	if got["email"] != "defaults@example.com" {
		t.Errorf("defaults should win over manifest: got %v", got["email"])
	}
	if got["project"] != "manifest" {
		t.Errorf("manifest literal should survive: got %v", got["project"])
	}
}

func TestApplyOverrides_TopLevelScalarsStringify(t *testing.T) {
	ctx := vars.New()
	ctx.Set("port", "8000")
	ctx.Set("debug", "false")

	vars.ApplyOverrides(ctx, map[string]any{"port": 9000, "debug": true})

	got := ctx.Map()
	if got["port"] != "9000" {
		t.Errorf("top-level scalar should be stringified: got %v (%T)", got["port"], got["port"])
	}
	if got["debug"] != "true" {
		t.Errorf("top-level bool should be stringified: got %v (%T)", got["debug"], got["debug"])
	}
}

func TestApplyOverrides_NestedScalarsKeepType(t *testing.T) {
	ctx := vars.New()
	ctx.Set("settings", map[string]any{"workers": 1})

	vars.ApplyOverrides(ctx, map[string]any{
		"settings": map[string]any{"workers": 4, "cache": true},
	})

	settings, _ := ctx.Get("settings")
	got := settings.(map[string]any)
	if got["workers"] != 4 {
		t.Errorf("nested int should stay an int: got %v (%T)", got["workers"], got["workers"])
	}
	if got["cache"] != true {
		t.Errorf("nested bool should stay a bool: got %v (%T)", got["cache"], got["cache"])
	}
}

func TestApplyOverrides_ListsAppend(t *testing.T) {
	ctx := vars.New()
	ctx.Set("license", []any{"MIT"})

	vars.ApplyOverrides(ctx, map[string]any{"license": []any{"BSD-3-Clause"}})

	license, _ := ctx.Get("license")
	want := []any{"MIT", "BSD-3-Clause"}
	if !reflect.DeepEqual(license, want) {
		t.Errorf("list override should append: got %v, want %v", license, want)
	}
}

func TestApplyOverrides_ListCreatedWhenMissing(t *testing.T) {
	ctx := vars.New()

	vars.ApplyOverrides(ctx, map[string]any{"tags": []any{"cli"}})

	tags, _ := ctx.Get("tags")
	if !reflect.DeepEqual(tags, []any{"cli"}) {
		t.Errorf("missing list should be created: got %v", tags)
	}
}

func TestApplyOverrides_MapsMergeRecursively(t *testing.T) {
	ctx := vars.New()
	ctx.Set("ci", map[string]any{
		"provider": "github",
		"matrix":   map[string]any{"go": []any{"1.24"}},
	})

	vars.ApplyOverrides(ctx, map[string]any{
		"ci": map[string]any{
			"matrix": map[string]any{"go": []any{"1.25"}, "os": []any{"linux"}},
		},
	})

	ci, _ := ctx.Get("ci")
	got := ci.(map[string]any)
	if got["provider"] != "github" {
		t.Errorf("untouched nested key should survive: got %v", got["provider"])
	}

	matrix := got["matrix"].(map[string]any)
	if !reflect.DeepEqual(matrix["go"], []any{"1.24", "1.25"}) {
		t.Errorf("nested list should append: got %v", matrix["go"])
	}
	if !reflect.DeepEqual(matrix["os"], []any{"linux"}) {
		t.Errorf("new nested list should be created: got %v", matrix["os"])
	}
}

func TestApplyOverrides_ScalarPromotesChoice(t *testing.T) {
	ctx := vars.New()
	ctx.Set("license", []any{"MIT", "BSD-3-Clause", "GPL-3.0"})

	vars.ApplyOverrides(ctx, map[string]any{"license": "GPL-3.0"})

	license, _ := ctx.Get("license")
	want := []any{"GPL-3.0", "MIT", "BSD-3-Clause"}
	if !reflect.DeepEqual(license, want) {
		t.Errorf("chosen option should move to the front: got %v", license)
	}
}

func TestApplyOverrides_ScalarPrependsUnknownChoice(t *testing.T) {
	ctx := vars.New()
	ctx.Set("license", []any{"MIT"})

	vars.ApplyOverrides(ctx, map[string]any{"license": "Apache-2.0"})

	license, _ := ctx.Get("license")
	want := []any{"Apache-2.0", "MIT"}
	if !reflect.DeepEqual(license, want) {
		t.Errorf("unknown option should be prepended: got %v", license)
	}
}

func TestApplyOverrides_MapReplacesScalar(t *testing.T) {
	ctx := vars.New()
	ctx.Set("db", "sqlite")

	vars.ApplyOverrides(ctx, map[string]any{"db": map[string]any{"driver": "postgres"}})

	db, _ := ctx.Get("db")
	got, ok := db.(map[string]any)
	if !ok || got["driver"] != "postgres" {
		t.Errorf("map override should replace a scalar: got %v", db)
	}
}
