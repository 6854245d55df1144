package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings shown in the help line.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	Delete     key.Binding
	ClearDone  key.Binding
	ClearAll   key.Binding
	Focus      key.Binding
	Add        key.Binding
	Help       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	LeaveEntry key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space/x", "toggle")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		ClearDone:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		ClearAll:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
		Focus:      key.NewBinding(key.WithKeys("tab", "i", "a"), key.WithHelp("tab", "new task")),
		Add:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:       key.NewBinding(key.WithKeys("q", keyEsc), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
		Confirm:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Cancel:     key.NewBinding(key.WithKeys("n", "N", keyEsc, "q"), key.WithHelp("n", "no")),
		LeaveEntry: key.NewBinding(key.WithKeys("tab", keyEsc, "down"), key.WithHelp("tab", "list")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Delete, k.ClearDone, k.ClearAll, k.Focus, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Delete},
		{k.ClearDone, k.ClearAll},
		{k.Focus, k.Add, k.LeaveEntry},
		{k.Help, k.Quit},
	}
}

// entryHelp is the help shown while the entry field has focus.
type entryHelp struct{ k keyMap }

func (e entryHelp) ShortHelp() []key.Binding {
	return []key.Binding{e.k.Add, e.k.LeaveEntry}
}

func (e entryHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{e.ShortHelp()}
}
