// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

type frameMsg string

// program is the bubbletea model. Its Update loop is the input actor; frames
// are produced by the Renderer and only displayed here.
type program struct {
	root  *Root
	frame string
}

func (m program) Init() tea.Cmd { return nil }

func (m program) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.root.HandleKey(msg)
	case tea.WindowSizeMsg:
		m.root.Resize(msg.Width, msg.Height)
	case frameMsg:
		m.frame = string(msg)
	}
	return m, nil
}

func (m program) View() string { return m.frame }

// Terminal owns the terminal: it reads input events and displays frames.
// It implements Screen.
//
type Terminal struct {
	p *tea.Program
}

// NewTerminal returns a Terminal routing input to root. By default it uses
// the alternate screen.
//
func NewTerminal(root *Root, opts ...tea.ProgramOption) *Terminal {
	if opts == nil {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	return &Terminal{p: tea.NewProgram(program{root: root}, opts...)}
}

// Draw implements Screen.
//
func (t *Terminal) Draw(frame string) { t.p.Send(frameMsg(frame)) }

// Run acquires the terminal and processes input until Quit is called. The
// terminal is restored before Run returns.
//
func (t *Terminal) Run() error {
	_, err := t.p.Run()
	return errors.Wrap(err, "terminal")
}

// Quit makes Run return.
//
func (t *Terminal) Quit() { t.p.Quit() }
