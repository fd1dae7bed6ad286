package output

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// spinnerProgram is the subset of tea.Program that Spin drives; swappable
// for testing.
type spinnerProgram interface {
	Run() (tea.Model, error)
	Send(tea.Msg)
}

var newProgram = func(m tea.Model) spinnerProgram {
	return tea.NewProgram(m, tea.WithOutput(os.Stderr))
}

// Spin runs fn while showing a progress spinner with the given message.
// The spinner renders a final ✅/❌ line when fn returns. fn's result is
// returned even when the spinner itself cannot render (no TTY).
func Spin(message string, fn func() error) error {
	// Two channels so the spinner notification and Spin's return value
	// each get their own copy of fn's result; a single channel would let
	// one consumer starve the other.
	notify := make(chan error, 1)
	result := make(chan error, 1)
	go func() {
		err := fn()
		notify <- err
		result <- err
	}()

	p := newProgram(newSpinnerModel(message))

	go func() {
		p.Send(spinnerDoneMsg{err: <-notify})
	}()

	p.Run()
	return <-result
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &spinnerModel{
		spinner: s,
		message: message,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("❌ %s\n", m.message)
		}
		return fmt.Sprintf("✅ %s\n", m.message)
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}
