package prompt

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// selectChoice shows a keyboard-navigable menu and returns the chosen
// option. Cancelling keeps the default (the first option).
func selectChoice(name string, options []string) (string, error) {
	model := newChoiceMenuModel(name, options)
	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("failed to show menu: %w", err)
	}

	result := finalModel.(choiceMenuModel)
	if result.selected == nil {
		return options[0], nil
	}
	return *result.selected, nil
}

// choiceMenuModel is the BubbleTea model for the choice menu
type choiceMenuModel struct {
	name     string
	choices  []string
	cursor   int
	selected *string
}

func newChoiceMenuModel(name string, choices []string) choiceMenuModel {
	return choiceMenuModel{
		name:    name,
		choices: choices,
	}
}

// Init initializes the menu model
func (m choiceMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles keyboard input
func (m choiceMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}

		case "enter":
			choice := m.choices[m.cursor]
			m.selected = &choice
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the menu
func (m choiceMenuModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Select "+m.name) + "\n")
	b.WriteString(mutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [q] Keep default") + "\n\n")

	for i, choice := range m.choices {
		if m.cursor == i {
			b.WriteString("    " + selectedStyle.Render("> "+choice) + "\n")
		} else {
			b.WriteString("      " + choice + "\n")
		}
	}

	return b.String()
}
