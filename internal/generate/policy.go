package generate

import (
	"path"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/simonhull/ember/internal/vars"
)

// IsCopyOnly reports whether relPath should be copied verbatim instead of
// rendered, based on the context's _copy_without_render glob patterns.
//
// Patterns match the full slash-separated relative path and also its base
// name: doublestar wildcards never cross "/", so without the base-name
// match a bare "LICENSE*" or "*.min.js" would apply only at the template
// root and silently render copies in subdirectories. Path-anchored
// patterns like "docs/**" still scope to their directory.
// The decision applies to file contents only; names are always rendered.
func IsCopyOnly(relPath string, ctx *vars.Context) bool {
	for _, pattern := range ctx.CopyPatterns() {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, path.Base(relPath)); err == nil && ok {
			return true
		}
	}
	return false
}
