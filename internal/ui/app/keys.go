package app

import (
	"github.com/charmbracelet/bubbles/key"
)

type KeyMap struct {
	// global
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding

	// list
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Search key.Binding

	// prompts and forms
	Submit    key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Back      key.Binding
	FocusNext key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new note"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),

		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch field"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Open,
		k.New,
		k.Delete,
		k.Search,
		k.Help,
		k.Quit,
	}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.New, k.Delete},
		{k.Search, k.Help},
		{k.Quit},
	}
}

type viewKeyMap struct{ KeyMap }

func (k viewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Edit,
		k.Back,
		k.Quit,
	}
}

type formKeyMap struct{ KeyMap }

func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Submit,
		k.FocusNext,
		k.Cancel,
	}
}

type promptKeyMap struct{ KeyMap }

func (k promptKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Confirm,
		k.Cancel,
	}
}

type resultsKeyMap struct{ KeyMap }

func (k resultsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Open,
		k.Delete,
		k.Search,
		k.Back,
		k.Quit,
	}
}
