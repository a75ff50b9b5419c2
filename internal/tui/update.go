package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		m.help.Width = x.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(x)

	case tea.MouseMsg:
		return m.handleMouse(x), nil

	case snapshotMsg:
		m.applySnapshot(x)
		return m, m.listenForSnapshots()

	case bridgeClosedMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(x)
		return m, cmd
	}

	return m, nil
}
