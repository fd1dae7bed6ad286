// Package render wraps text/template as the templating capability used for
// path and content rendering. Unresolved variables are errors, never silent
// blanks: every template executes with missingkey=error.
package render

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/template"
	"unicode"
)

// Renderer handles template parsing and rendering with caching.
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// New creates a renderer with the built-in helper functions.
func New() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// Funcs registers extra template functions. Must be called before the first
// render; registered names override built-ins.
func (r *Renderer) Funcs(funcs template.FuncMap) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, fn := range funcs {
		r.funcMap[name] = fn
	}
}

// RenderString renders a template from a string. The name is used for
// caching and error messages.
func (r *Renderer) RenderString(name, templateStr string, data any) ([]byte, error) {
	cacheKey := "string:" + name

	r.mu.RLock()
	if tmpl, ok := r.cache[cacheKey]; ok {
		r.mu.RUnlock()
		return executeTemplate(tmpl, data)
	}
	r.mu.RUnlock()

	tmpl, err := template.New(name).Funcs(r.funcMap).Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}

	r.mu.Lock()
	r.cache[cacheKey] = tmpl
	r.mu.Unlock()

	return executeTemplate(tmpl, data)
}

// RenderPath renders a file or directory name. Paths without template
// markers short-circuit; most names in a template tree are literal.
func (r *Renderer) RenderPath(path string, data any) (string, error) {
	if !strings.Contains(path, "{{") {
		return path, nil
	}
	out, err := r.RenderString(path, path, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// RenderFile renders a template read from disk.
func (r *Renderer) RenderFile(path string, data any) ([]byte, error) {
	templateBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file '%s': %w", path, err)
	}
	return r.RenderString(path, string(templateBytes), data)
}

// ClearCache clears the template cache (useful for testing).
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*template.Template)
}

func executeTemplate(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		// Case conversion
		"pascalCase": PascalCase, // my_project → MyProject
		"camelCase":  CamelCase,  // my_project → myProject
		"snakeCase":  SnakeCase,  // MyProject → my_project
		"kebabCase":  KebabCase,  // my_project → my-project

		// String manipulation
		"quote":     Quote,
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"title":     Title,
		"trim":      strings.TrimSpace,
		"join":      strings.Join,
		"split":     strings.Split,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"replace":   strings.ReplaceAll,

		// Utilities
		"default": Default,
	}
}

// PascalCase converts snake_case, kebab-case, or space-separated words to
// PascalCase.
func PascalCase(s string) string {
	if s == "" {
		return ""
	}

	parts := splitWords(s)
	for i, part := range parts {
		parts[i] = capitalizeWord(part)
	}
	return strings.Join(parts, "")
}

// CamelCase converts snake_case or PascalCase to camelCase.
func CamelCase(s string) string {
	pascal := PascalCase(s)
	if pascal == "" {
		return ""
	}
	return strings.ToLower(string(pascal[0])) + pascal[1:]
}

// SnakeCase converts PascalCase, camelCase, or separated words to snake_case.
func SnakeCase(s string) string {
	return strings.Join(lowerWords(s), "_")
}

// KebabCase converts any supported naming style to kebab-case.
func KebabCase(s string) string {
	return strings.Join(lowerWords(s), "-")
}

// Quote wraps a string in double quotes.
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Title capitalizes the first letter of each word.
func Title(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(string(word[0])) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}

// Default returns defaultVal when val is nil, an empty string, or an empty
// collection.
func Default(defaultVal, val any) any {
	if val == nil {
		return defaultVal
	}
	switch v := val.(type) {
	case string:
		if v == "" {
			return defaultVal
		}
	case []any:
		if len(v) == 0 {
			return defaultVal
		}
	case map[string]any:
		if len(v) == 0 {
			return defaultVal
		}
	}
	return val
}

// splitWords breaks an identifier into its component words, splitting on
// underscores, hyphens, spaces, and lower-to-upper case boundaries.
func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				flush()
			}
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}

func lowerWords(s string) []string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return words
}

func capitalizeWord(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[0])) + strings.ToLower(s[1:])
}
