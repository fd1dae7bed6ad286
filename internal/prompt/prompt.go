// Package prompt collects variable values from the user.
//
// Variables resolve in manifest declaration order, and string defaults are
// rendered against the partially-built context before display, so a
// project_slug default can derive from the project_name answered just
// before it.
package prompt

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/simonhull/ember/internal/generate"
	"github.com/simonhull/ember/internal/render"
	"github.com/simonhull/ember/internal/vars"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Prompter resolves a variable context interactively, or from defaults
// when noInput is set.
type Prompter struct {
	In      io.Reader // defaults to os.Stdin
	in      *bufio.Reader
	r       *render.Renderer
	noInput bool
}

// New creates a prompter.
func New(r *render.Renderer, noInput bool) *Prompter {
	return &Prompter{In: os.Stdin, r: r, noInput: noInput}
}

// reader returns the buffered input, shared across prompts so buffered
// bytes are not lost between questions.
func (p *Prompter) reader() *bufio.Reader {
	if p.in == nil {
		p.in = bufio.NewReader(p.In)
	}
	return p.in
}

// Resolve walks the context's public variables in declaration order and
// replaces each with its final value: the prompted answer, or the
// (rendered) default when noInput is set. Private "_"-prefixed keys are
// configuration and never prompted for.
func (p *Prompter) Resolve(vctx *vars.Context) error {
	for _, name := range vctx.Keys() {
		if strings.HasPrefix(name, "_") {
			continue
		}

		raw, _ := vctx.Get(name)
		switch value := raw.(type) {
		case []any:
			chosen, err := p.choice(name, value, vctx)
			if err != nil {
				return err
			}
			vctx.Set(name, chosen)
		case bool:
			if p.noInput {
				continue
			}
			vctx.Set(name, p.yesNo(name, value))
		case map[string]any:
			if p.noInput {
				continue
			}
			answered, err := p.dict(name, value)
			if err != nil {
				return err
			}
			vctx.Set(name, answered)
		case string:
			rendered, err := p.renderDefault(name, value, vctx)
			if err != nil {
				return err
			}
			if p.noInput {
				vctx.Set(name, rendered)
				continue
			}
			vctx.Set(name, p.variable(name, rendered))
		default:
			// Numbers arrive stringified from the manifest loader;
			// anything else passes through untouched.
		}
	}
	return nil
}

// renderDefault renders a string default against the context built so far.
func (p *Prompter) renderDefault(name, raw string, vctx *vars.Context) (string, error) {
	rendered, err := p.r.RenderPath(raw, vctx.Data())
	if err != nil {
		return "", &generate.UndefinedVariableError{Path: name, Err: err, Context: vctx}
	}
	return rendered, nil
}

// variable asks for a free-form value with a default hint.
func (p *Prompter) variable(name, defaultValue string) string {
	reader := p.reader()

	if defaultValue != "" {
		fmt.Print(promptStyle.Render(name) + " " +
			hintStyle.Render(fmt.Sprintf("(%s)", defaultValue)) + ": ")
	} else {
		fmt.Print(promptStyle.Render(name) + ": ")
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		return defaultValue
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue
	}
	return input
}

// yesNo asks a yes/no question; Enter keeps the default.
func (p *Prompter) yesNo(name string, defaultYes bool) bool {
	reader := p.reader()

	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Print(promptStyle.Render(name) + " " + hintStyle.Render(hint) + ": ")

	input, err := reader.ReadString('\n')
	if err != nil {
		return defaultYes
	}
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return defaultYes
	}

	switch input {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return defaultYes
	}
}

// choice resolves a choice variable. The options are rendered against the
// current context; the first option is the default.
func (p *Prompter) choice(name string, options []any, vctx *vars.Context) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("choice variable %q has no options", name)
	}

	rendered := make([]string, len(options))
	for i, opt := range options {
		s := fmt.Sprintf("%v", opt)
		out, err := p.renderDefault(name, s, vctx)
		if err != nil {
			return "", err
		}
		rendered[i] = out
	}

	if p.noInput {
		return rendered[0], nil
	}
	return selectChoice(name, rendered)
}

// dict asks for a JSON object literal; Enter keeps the default.
func (p *Prompter) dict(name string, defaultValue map[string]any) (map[string]any, error) {
	defaultJSON, err := json.Marshal(defaultValue)
	if err != nil {
		return nil, err
	}

	reader := p.reader()
	fmt.Print(promptStyle.Render(name) + " " +
		hintStyle.Render(fmt.Sprintf("(%s)", defaultJSON)) + ": ")

	input, readErr := reader.ReadString('\n')
	if readErr != nil {
		return defaultValue, nil
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue, nil
	}

	var answered map[string]any
	if err := json.Unmarshal([]byte(input), &answered); err != nil {
		return nil, fmt.Errorf("%q is not a valid JSON object: %w", name, err)
	}
	return answered, nil
}
