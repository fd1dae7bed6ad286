// Package vars builds and manipulates the variable context that drives
// template rendering. The context preserves manifest declaration order,
// because prompting walks variables in the order template authors wrote them.
package vars

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Namespace is the key templates use to reference variables,
// e.g. {{ .ember.project_name }}.
const Namespace = "ember"

// Reserved manifest keys. Keys starting with "_" configure generation
// behavior and are never prompted for.
const (
	KeyTemplate          = "_template"
	KeyCopyWithoutRender = "_copy_without_render"
)

// DecodeError reports a manifest that is not valid JSON/YAML or has the
// wrong top-level shape.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding manifest %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Context is an insertion-ordered mapping of variable names to values.
// Values are strings, bools, numbers, lists (choice variables), or nested
// map[string]any. Only top-level order is tracked; nested maps are free-form.
type Context struct {
	keys   []string
	values map[string]any
}

// New returns an empty context.
func New() *Context {
	return &Context{values: make(map[string]any)}
}

// Len returns the number of top-level variables.
func (c *Context) Len() int { return len(c.keys) }

// Keys returns variable names in declaration order.
func (c *Context) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Get returns the value for name.
func (c *Context) Get(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Set stores a value, appending the key if it is new.
func (c *Context) Set(name string, value any) {
	if _, ok := c.values[name]; !ok {
		c.keys = append(c.keys, name)
	}
	c.values[name] = value
}

// Has reports whether name is present.
func (c *Context) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Clone returns a deep copy of the context.
func (c *Context) Clone() *Context {
	out := New()
	for _, k := range c.keys {
		out.Set(k, deepCopy(c.values[k]))
	}
	return out
}

// Map returns the variables as a plain map.
func (c *Context) Map() map[string]any {
	out := make(map[string]any, len(c.keys))
	for _, k := range c.keys {
		out[k] = c.values[k]
	}
	return out
}

// Data returns the render payload: variables nested under the "ember"
// namespace, so templates read {{ .ember.name }}.
func (c *Context) Data() map[string]any {
	return map[string]any{Namespace: c.Map()}
}

// CopyPatterns returns the _copy_without_render glob list, or nil.
func (c *Context) CopyPatterns() []string {
	raw, ok := c.values[KeyCopyWithoutRender]
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	patterns := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			patterns = append(patterns, s)
		}
	}
	return patterns
}

// MarshalJSON writes the context as a JSON object in declaration order.
func (c *Context) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(c.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, preserving top-level key order.
func (c *Context) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	c.keys = nil
	c.values = make(map[string]any)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		c.Set(key, normalize(value))
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// Load reads a manifest file into a context. The top-level document must be
// an object, or a one-element array wrapping an object. Files ending in
// .yaml/.yml decode as YAML; everything else as JSON.
func Load(path string) (*Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(path, data)
	default:
		return loadJSON(path, data)
	}
}

func loadJSON(path string, data []byte) (*Context, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var wrapper []json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		if len(wrapper) != 1 {
			return nil, &DecodeError{Path: path, Err: fmt.Errorf("top-level array must contain exactly one object, got %d elements", len(wrapper))}
		}
		data = wrapper[0]
	}

	ctx := New()
	if err := ctx.UnmarshalJSON(data); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return ctx, nil
}

func loadYAML(path string, data []byte) (*Context, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if len(doc.Content) == 0 {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("empty document")}
	}

	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("top-level document must be a mapping")}
	}

	ctx := New()
	for i := 0; i+1 < len(root.Content); i += 2 {
		var value any
		if err := root.Content[i+1].Decode(&value); err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		ctx.Set(root.Content[i].Value, normalize(value))
	}
	return ctx, nil
}

// normalize converts decoder-specific types into the canonical value set:
// json.Number becomes a plain string (variables render as text), and
// map[any]any from YAML becomes map[string]any.
func normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		return val.String()
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	default:
		return v
	}
}

func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}
