// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package editor

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Edit     key.Binding
	Null     key.Binding
	Add      key.Binding
	Filter   key.Binding
	Save     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "right")),
		PrevPage: key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup/b", "prev page")),
		NextPage: key.NewBinding(key.WithKeys("pgdown", "f", " "), key.WithHelp("pgdn/f", "next page")),
		Edit:     key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
		Null:     key.NewBinding(key.WithKeys("delete", "x"), key.WithHelp("x", "clear")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add row")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s", "w"), key.WithHelp("w", "save")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Add, k.Filter, k.Save, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.PrevPage, k.NextPage},
		{k.Edit, k.Null, k.Add, k.Filter},
		{k.Save, k.Quit},
	}
}
