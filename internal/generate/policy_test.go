package generate_test

import (
	"testing"

	"github.com/simonhull/ember/internal/generate"
	"github.com/simonhull/ember/internal/vars"
)

func contextWithPatterns(patterns ...any) *vars.Context {
	ctx := vars.New()
	if patterns != nil {
		ctx.Set(vars.KeyCopyWithoutRender, patterns)
	}
	return ctx
}

func TestIsCopyOnly(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		patterns []any
		want     bool
	}{
		{"exact match", "LICENSE", []any{"LICENSE"}, true},
		{"wildcard suffix", "LICENSE.txt", []any{"LICENSE*"}, true},
		{"basename match in subdir", "legal/LICENSE", []any{"LICENSE*"}, true},
		{"extension match in subdir", "assets/app.min.js", []any{"*.min.js"}, true},
		{"doublestar dir", "docs/guide/index.html", []any{"docs/**"}, true},
		{"anchored pattern scoped to its dir", "src/index.html", []any{"docs/**"}, false},
		{"no match", "README.md", []any{"LICENSE*"}, false},
		{"empty pattern list", "LICENSE", []any{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := contextWithPatterns(tc.patterns...)
			if got := generate.IsCopyOnly(tc.path, ctx); got != tc.want {
				t.Errorf("IsCopyOnly(%q, %v) = %v, want %v", tc.path, tc.patterns, got, tc.want)
			}
		})
	}
}

func TestIsCopyOnly_NoPatternsConfigured(t *testing.T) {
	if generate.IsCopyOnly("LICENSE", vars.New()) {
		t.Error("expected false when _copy_without_render is absent")
	}
}
