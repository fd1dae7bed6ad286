package vars

import (
	"fmt"
	"sort"
)

// Build loads a manifest and layers override maps onto it. Defaults come
// from the user config file, extras from the command line; extras win.
func Build(manifestPath string, defaults, extra map[string]any) (*Context, error) {
	ctx, err := Load(manifestPath)
	if err != nil {
		return nil, err
	}
	if len(defaults) > 0 {
		ApplyOverrides(ctx, defaults)
	}
	if len(extra) > 0 {
		ApplyOverrides(ctx, extra)
	}
	return ctx, nil
}

// ApplyOverrides merges an override map into the context in place.
//
// Merge rules, per override value type:
//   - map: recurse into the existing value (created if missing or not a map)
//   - list: append items to the existing list (created if missing)
//   - scalar onto a choice list: move the matching option to the front,
//     making it the default
//   - scalar: replace; coerced to a string at the top level, preserved
//     verbatim inside nested maps
//
// The coercion asymmetry matches how templates historically received
// values, so existing templates keep rendering identically.
func ApplyOverrides(ctx *Context, overrides map[string]any) {
	for _, key := range sortedKeys(overrides) {
		value := overrides[key]
		switch v := value.(type) {
		case map[string]any:
			existing, ok := ctx.values[key].(map[string]any)
			if !ok {
				existing = make(map[string]any)
				ctx.Set(key, existing)
			}
			mergeNested(existing, v)
		case []any:
			existing, _ := ctx.values[key].([]any)
			ctx.Set(key, append(existing, v...))
		default:
			if options, ok := ctx.values[key].([]any); ok {
				ctx.Set(key, promoteChoice(options, fmt.Sprintf("%v", v)))
				continue
			}
			ctx.Set(key, fmt.Sprintf("%v", v))
		}
	}
}

// promoteChoice moves the chosen option to the front of a choice list. An
// option not in the list is prepended, so the override still wins.
func promoteChoice(options []any, chosen string) []any {
	out := make([]any, 0, len(options)+1)
	out = append(out, chosen)
	for _, opt := range options {
		if fmt.Sprintf("%v", opt) != chosen {
			out = append(out, opt)
		}
	}
	return out
}

// mergeNested merges overrides into a nested map. Inside nested maps scalar
// overrides keep their original type.
func mergeNested(dst, overrides map[string]any) {
	for key, value := range overrides {
		switch v := value.(type) {
		case map[string]any:
			existing, ok := dst[key].(map[string]any)
			if !ok {
				existing = make(map[string]any)
				dst[key] = existing
			}
			mergeNested(existing, v)
		case []any:
			existing, _ := dst[key].([]any)
			dst[key] = append(existing, v...)
		default:
			dst[key] = v
		}
	}
}

// sortedKeys keeps override application deterministic; Go map iteration
// order would otherwise vary between runs.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
