package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the list browser.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	more    key.Binding
	nextTab key.Binding
	reset   key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		more:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load more")),
		nextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next list")),
		reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.more, k.nextTab, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.more},
		{k.nextTab, k.reset, k.quit},
	}
}
