// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Tab     key.Binding
	Command key.Binding
	Help    key.Binding
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Apply   key.Binding
	Left    key.Binding
	Right   key.Binding
	Format  key.Binding
	Signed  key.Binding
	Esc     key.Binding
	Back    key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
	Command: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand/mark")),
	Apply:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "apply probes")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h/left", "earlier")),
	Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l/right", "later")),
	Format:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "format")),
	Signed:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "two's complement")),
	Esc:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Back:    key.NewBinding(key.WithKeys("backspace")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Command, k.Tab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Command, k.Tab, k.Help, k.Quit},
		{k.Up, k.Down, k.Enter, k.Apply},
		{k.Left, k.Right, k.Format, k.Signed},
	}
}
