package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the padsim keyboard bindings.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Reset key.Binding
	Demo  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll log up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll log down"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset pad"),
		),
		Demo: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle demo"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
