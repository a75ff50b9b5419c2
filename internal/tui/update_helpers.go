package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/bio-id/internal/scanner"
)

// handleKey processes key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		m.help.ShowAll = m.helpVisible
		return m, nil

	case key.Matches(msg, m.keys.Secret):
		m.ctrl.TriggerSecret()
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Reset()
		m.syncSnapshot()
		return m, nil

	case key.Matches(msg, m.keys.Scan):
		// Terminals report no key release, so space toggles the hold.
		switch m.snap.Phase {
		case scanner.PhaseIdle:
			m.ctrl.Start()
		case scanner.PhaseScanning:
			m.ctrl.Stop()
		case scanner.PhaseRevealing, scanner.PhaseDone:
			// The result is already decided.
		}
		m.syncSnapshot()
		return m, nil
	}

	return m, nil
}

// handleMouse maps pointer gestures onto controller operations.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if !m.mouse {
		return m
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		switch {
		case m.secretZone.Contains(msg.X, msg.Y):
			m.ctrl.TriggerSecret()
		case m.snap.Phase == scanner.PhaseDone:
			m.ctrl.Reset()
		case m.padRect().contains(msg.X, msg.Y):
			m.pressed = true
			m.ctrl.Start()
		}

	case tea.MouseActionRelease:
		// Releases are honoured anywhere so dragging off the pad still aborts.
		if m.pressed {
			m.pressed = false
			m.ctrl.Stop()
		}

	case tea.MouseActionMotion:
		return m
	}

	m.syncSnapshot()
	return m
}

// applySnapshot stores s unless a newer one was already rendered.
func (m *Model) applySnapshot(s snapshotMsg) {
	snap := scannerSnapshot(s)
	if snap.Seq <= m.snap.Seq {
		return
	}
	m.snap = snap
}

// syncSnapshot pulls the controller state after a gesture so the next frame
// does not wait for the bridge.
func (m *Model) syncSnapshot() {
	m.applySnapshot(snapshotMsg(m.ctrl.Snapshot()))
}

func scannerSnapshot(s snapshotMsg) scanner.Snapshot { return scanner.Snapshot(s) }
