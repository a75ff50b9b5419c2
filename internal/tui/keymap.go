package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"golang.org/x/text/message"
)

// keyMap defines global key bindings used across the TUI.
type keyMap struct {
	Scan   key.Binding
	Reset  key.Binding
	Help   key.Binding
	Quit   key.Binding
	Secret key.Binding
}

func newKeyMap(p *message.Printer) keyMap {
	return keyMap{
		Scan: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", p.Sprintf("key.scan")),
		),
		Reset: key.NewBinding(
			key.WithKeys("enter", "r"),
			key.WithHelp("enter/r", p.Sprintf("key.reset")),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", p.Sprintf("key.help")),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", p.Sprintf("key.quit")),
		),
		// Keyboard twin of the hidden corner zone; never listed in help.
		Secret: key.NewBinding(
			key.WithKeys("`"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scan, k.Reset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Scan, k.Reset}, {k.Help, k.Quit}}
}
