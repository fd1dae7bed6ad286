package output

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// headlessProgram fails to render, as bubbletea does without a TTY. Sends
// are swallowed.
type headlessProgram struct{}

func (headlessProgram) Run() (tea.Model, error) { return nil, errors.New("no tty") }
func (headlessProgram) Send(tea.Msg)            {}

func withHeadlessProgram(t *testing.T) {
	t.Helper()
	orig := newProgram
	newProgram = func(tea.Model) spinnerProgram { return headlessProgram{} }
	t.Cleanup(func() { newProgram = orig })
}

func TestSpin_ResultSurvivesRenderFailure(t *testing.T) {
	withHeadlessProgram(t)

	wantErr := errors.New("fetch failed")
	if got := Spin("Fetching template", func() error { return wantErr }); got != wantErr {
		t.Errorf("fn's error lost: got %v", got)
	}
}

func TestSpin_NilResultSurvivesRenderFailure(t *testing.T) {
	withHeadlessProgram(t)

	if err := Spin("Fetching template", func() error { return nil }); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestSpin_RunsFnExactlyOnce(t *testing.T) {
	withHeadlessProgram(t)

	calls := 0
	if err := Spin("Working", func() error { calls++; return nil }); err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("fn ran %d times", calls)
	}
}
