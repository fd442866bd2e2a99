package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	draftflow "github.com/ArmandoTL8/draftflow"
)

var (
	promptTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	promptHintStyle  = lipgloss.NewStyle().Faint(true)
)

// promptGateway asks the yes/no question in the terminal through a minimal
// bubbletea program.
type promptGateway struct{}

func (g *promptGateway) Confirm(ctx context.Context, req draftflow.ConfirmationRequest) (bool, error) {
	model := confirmModel{request: req}
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return false, err
	}
	result, ok := final.(confirmModel)
	if !ok {
		return false, nil
	}
	return result.confirmed, nil
}

type confirmModel struct {
	request   draftflow.ConfirmationRequest
	confirmed bool
	done      bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		m.confirmed = true
		m.done = true
		return m, tea.Quit
	case "n", "N", "esc", "q", "ctrl+c":
		m.confirmed = false
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	return promptTitleStyle.Render(m.request.Title) + "\n" +
		m.request.Message + "\n" +
		promptHintStyle.Render("continue? [y/N]") + "\n"
}
