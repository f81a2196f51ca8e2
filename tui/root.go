// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Pane identifies the focusable panes.
//
type Pane int

// Panes.
//
const (
	HierPane Pane = iota
	WavePane
	CommandPane
)

// Root is the top of the component tree. It owns the focus path: keys go to
// the command line while it is open, otherwise to the focused pane, after the
// global bindings.
//
type Root struct {
	n     *Notifier
	cmd   *CommandLine
	hier  *HierViewer
	waves *WaveViewer

	mu     sync.RWMutex
	focus  Pane
	pane   Pane // focused pane when the command line closes
	help   help.Model
	width  int
	height int
}

// NewRoot returns a new root component.
//
func NewRoot(n *Notifier, cmd *CommandLine, hier *HierViewer, waves *WaveViewer) *Root {
	return &Root{
		n:      n,
		cmd:    cmd,
		hier:   hier,
		waves:  waves,
		help:   help.New(),
		width:  80,
		height: 24,
	}
}

// Focus returns the focused pane.
//
func (r *Root) Focus() Pane {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.focus
}

// Resize sets the screen size.
//
func (r *Root) Resize(width, height int) {
	r.mu.Lock()
	r.width, r.height = width, height
	r.help.Width = width
	r.mu.Unlock()
	r.n.Render()
}

// Size returns the screen size.
//
func (r *Root) Size() (width, height int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.width, r.height
}

func (r *Root) paneFor(p Pane) Component {
	switch p {
	case WavePane:
		return r.waves
	case CommandPane:
		return r.cmd
	}
	return r.hier
}

// HandleKey implements Component.
//
func (r *Root) HandleKey(k tea.KeyMsg) Result {
	r.mu.RLock()
	focus := r.focus
	r.mu.RUnlock()

	if focus == CommandPane {
		if r.cmd.HandleKey(k) == ReleaseFocus {
			r.mu.Lock()
			r.focus = r.pane
			r.mu.Unlock()
			r.n.Render()
		}
		return Handled
	}

	switch {
	case key.Matches(k, keys.Quit):
		r.n.Quit()
		return Handled
	case key.Matches(k, keys.Command):
		r.cmd.HandleKey(k)
		r.mu.Lock()
		r.pane, r.focus = r.focus, CommandPane
		r.mu.Unlock()
	case key.Matches(k, keys.Tab):
		r.mu.Lock()
		if r.focus == HierPane {
			r.focus = WavePane
		} else {
			r.focus = HierPane
		}
		r.mu.Unlock()
	case key.Matches(k, keys.Help):
		r.mu.Lock()
		r.help.ShowAll = !r.help.ShowAll
		r.mu.Unlock()
	default:
		return r.paneFor(focus).HandleKey(k)
	}
	r.n.Render()
	return Handled
}

func paneTitle(title string, focused bool, width int) string {
	if focused {
		return focusTitleStyle.Render(fit(" "+title, width, 1))
	}
	return titleStyle.Render(fit(" "+title, width, 1))
}

// View implements Component.
//
func (r *Root) View(width, height int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	helpView := r.help.View(keys)
	bodyHeight := height - 1 - lipgloss.Height(helpView)
	if bodyHeight < 2 {
		bodyHeight = 2
	}
	leftWidth := width / 3
	rightWidth := width - leftWidth - 1
	if rightWidth < 0 {
		rightWidth = 0
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		paneTitle("hierarchy", r.focus == HierPane, leftWidth),
		r.hier.View(leftWidth, bodyHeight-1))
	right := lipgloss.JoinVertical(lipgloss.Left,
		paneTitle("waves", r.focus == WavePane, rightWidth),
		r.waves.View(rightWidth, bodyHeight-1))
	sep := dimStyle.Render(strings.TrimSuffix(strings.Repeat("│\n", bodyHeight), "\n"))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, sep, right),
		r.cmd.View(width, 1),
		helpView)
}

// Frame renders the whole screen at its current size.
//
func (r *Root) Frame() string {
	w, h := r.Size()
	return r.View(w, h)
}
