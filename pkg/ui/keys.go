package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the task list.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Add    key.Binding
	Edit   key.Binding
	Done   key.Binding
	Delete key.Binding
	Move   key.Binding // enter/confirm move mode
	Order  key.Binding // toggle position/date ordering
	Sync   key.Binding
	Quit   key.Binding
	Escape key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Done: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "backspace"),
			key.WithHelp("del", "remove"),
		),
		Move: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "move"),
		),
		Order: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "order by"),
		),
		Sync: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "sync"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
