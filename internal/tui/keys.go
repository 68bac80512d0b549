package tui

import "github.com/charmbracelet/bubbles/key"

// BrowseKeyMap holds the bindings for the table view.
type BrowseKeyMap struct {
	Prev key.Binding
	Next key.Binding
	Up   key.Binding
	Down key.Binding
	Add  key.Binding
	Help key.Binding
	Quit key.Binding
}

func (k BrowseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Add, k.Help, k.Quit}
}

func (k BrowseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next},
		{k.Up, k.Down},
		{k.Add, k.Help, k.Quit},
	}
}

func DefaultBrowseKeyMap() BrowseKeyMap {
	return BrowseKeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous page"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
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
			key.WithHelp("a", "add consent"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// FormKeyMap holds the bindings for the submission form.
type FormKeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Toggle    key.Binding
	Submit    key.Binding
	Cancel    key.Binding
}

func (k FormKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Toggle, k.Submit, k.Cancel}
}

func (k FormKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField},
		{k.Toggle, k.Submit, k.Cancel},
	}
}

func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "x"),
			key.WithHelp("space", "toggle consent"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
