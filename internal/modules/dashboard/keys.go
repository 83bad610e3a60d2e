package dashboard

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Week  key.Binding
	Retry key.Binding
	Help  key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Next:  key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next chart")),
	Prev:  key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev chart")),
	Week:  key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "select week")),
	Retry: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Week, k.Retry, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Week, k.Retry},
		{k.Help, k.Quit},
	}
}
