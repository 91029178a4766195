package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the dashboard.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	toggle  key.Binding
	louder  key.Binding
	quieter key.Binding
	devices key.Binding
	back    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		toggle:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "toggle")),
		louder:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "louder")),
		quieter: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "quieter")),
		devices: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "devices")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.toggle},
		{k.louder, k.quieter, k.devices},
		{k.back, k.quit},
	}
}
