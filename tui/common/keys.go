package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit       key.Binding
	Refresh    key.Binding
	Up         key.Binding
	Down       key.Binding
	Enter      key.Binding
	Back       key.Binding
	Events     key.Binding // h — back to the event list
	Register   key.Binding // R — sign up for the selected event
	Unregister key.Binding // U — withdraw from the selected event
	Like       key.Binding // l — like/unlike the selected post
	Comment    key.Binding // c — comment on the selected post
	NewEditor  key.Binding // p — compose a post via $EDITOR
	NewInline  key.Binding // P — compose a post via inline textarea
	Delete     key.Binding // d — delete own post or comment
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Events: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "events"),
		),
		Register: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "register"),
		),
		Unregister: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "unregister"),
		),
		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "like"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		NewEditor: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "post ($EDITOR)"),
		),
		NewInline: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "post (inline)"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}
