package review

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the review prompt.
type KeyMap struct {
	Approve key.Binding
	Edit    key.Binding
	Skip    key.Binding
	// Editing
	Save   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

// DefaultKeyMap mirrors the [Y]/[E]/[N] prompt.
var DefaultKeyMap = KeyMap{
	Approve: key.NewBinding(
		key.WithKeys("y", "Y", "enter"),
		key.WithHelp("Y", "commit"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e", "E"),
		key.WithHelp("E", "edit message"),
	),
	Skip: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("N", "skip"),
	),
	Save: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}
