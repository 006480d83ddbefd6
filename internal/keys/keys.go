// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the preview.
type KeyMap struct {
	// Term navigation
	NextTerm key.Binding
	PrevTerm key.Binding

	// Actions
	Pin     key.Binding
	Reload  key.Binding
	Palette key.Binding

	// Toggles
	Diagnostics key.Binding
	Source      key.Binding

	// General
	Help   key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTerm: key.NewBinding(
			key.WithKeys("tab", "l", "right"),
			key.WithHelp("tab/l", "next term"),
		),
		PrevTerm: key.NewBinding(
			key.WithKeys("shift+tab", "h", "left"),
			key.WithHelp("S-tab/h", "previous term"),
		),
		Pin: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "pin/unpin term"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload document"),
		),
		Palette: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "cycle palette"),
		),
		Diagnostics: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle diagnostics"),
		),
		Source: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle source view"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear selection"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
