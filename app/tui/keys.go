package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the terminal front end.
type KeyMap struct {
	NextPage     key.Binding
	PreviousPage key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding

	// Focus cycling between the list, the search box and the form fields.
	FocusNext key.Binding
	FocusPrev key.Binding
	Search    key.Binding
	Blur      key.Binding

	Submit key.Binding
	Quit   key.Binding
	Abort  key.Binding
}

// DefaultKeyMap pages with the arrow keys or p/n and scrolls with j/k.
var DefaultKeyMap = KeyMap{
	NextPage: key.NewBinding(
		key.WithKeys("right", "n"),
		key.WithHelp("→/n", "next page"),
	),
	PreviousPage: key.NewBinding(
		key.WithKeys("left", "p"),
		key.WithHelp("←/p", "previous page"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	FocusNext: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	FocusPrev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-tab", "previous field"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Blur: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back to posts"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "submit post"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	Abort: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}
