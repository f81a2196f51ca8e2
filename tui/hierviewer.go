// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/db47h/hwdbg"
	"github.com/db47h/hwdbg/hier"
)

// HierViewer browses the instance hierarchy and edits the probe set.
//
type HierViewer struct {
	n     *Notifier
	sim   Simulator
	model *hier.Model

	mu     sync.RWMutex
	cursor int
	err    error // last failed submission, shown under the rows
}

// NewHierViewer returns a new, empty HierViewer.
//
func NewHierViewer(n *Notifier, sim Simulator) *HierViewer {
	return &HierViewer{n: n, sim: sim, model: new(hier.Model)}
}

// Model returns the underlying view model.
//
func (h *HierViewer) Model() *hier.Model { return h.model }

// Err returns the error of the last probe submission that could not be
// queued, if any.
//
func (h *HierViewer) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}

// Selected returns the row under the cursor.
//
func (h *HierViewer) Selected() (hier.Row, bool) {
	rows := h.model.Rows()
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(rows) == 0 {
		return hier.Row{}, false
	}
	return rows[clamp(h.cursor, 0, len(rows)-1)], true
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

func rowText(r hier.Row) string {
	indent := strings.Repeat("  ", r.Depth)
	if r.Kind == hier.Node {
		sign := "+"
		if r.Expanded {
			sign = "-"
		}
		label := r.Name
		if r.Module != "" && r.Module != r.Name {
			label += " (" + r.Module + ")"
		}
		return indent + sign + " " + instanceStyle.Render(label)
	}
	probe := " "
	if r.Probed {
		probe = probedStyle.Render("*")
	}
	return fmt.Sprintf("%s%s%s %s[%d]", indent, r.Marker, probe, signalStyle.Render(r.Name), r.Width)
}

// View implements Component.
//
func (h *HierViewer) View(width, height int) string {
	rows := h.model.Rows()
	if len(rows) == 0 {
		msg := lipgloss.PlaceHorizontal(width, lipgloss.Center, dimStyle.Render("design not loaded"))
		return fit(strings.Repeat("\n", height/2)+msg, width, height)
	}
	h.mu.RLock()
	cursor := clamp(h.cursor, 0, len(rows)-1)
	status := h.err
	h.mu.RUnlock()
	lines := height
	if status != nil && lines > 1 {
		lines--
	}

	first := 0
	if lines > 0 && cursor >= lines {
		first = cursor - lines + 1
	}
	var b strings.Builder
	for i := first; i < len(rows) && (lines <= 0 || i < first+lines); i++ {
		line := rowText(rows[i])
		if i == cursor {
			line = selectedStyle.Render(line)
		}
		if i > first {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if status != nil {
		b.WriteString("\n" + errStyle.Render("probe: "+status.Error()))
	}
	return fit(b.String(), width, height)
}

// HandleKey implements Component.
//
func (h *HierViewer) HandleKey(k tea.KeyMsg) Result {
	if key.Matches(k, keys.Apply) {
		// submitted without holding the lock; the response arrives through
		// OnResponse.
		req, ok := h.model.Request()
		if !ok {
			return Handled
		}
		err := h.sim.Submit(req)
		h.mu.Lock()
		h.err = err
		h.mu.Unlock()
		if err != nil {
			h.n.Render()
		}
		return Handled
	}
	rows := h.model.Rows()
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(rows) > 0 {
		h.cursor = clamp(h.cursor, 0, len(rows)-1)
	}
	switch {
	case key.Matches(k, keys.Up):
		if h.cursor > 0 {
			h.cursor--
		}
	case key.Matches(k, keys.Down):
		if h.cursor < len(rows)-1 {
			h.cursor++
		}
	case key.Matches(k, keys.Enter):
		if len(rows) == 0 {
			return Handled
		}
		h.model.Activate(rows[h.cursor].ID)
	default:
		return NotHandled
	}
	h.n.Render()
	return Handled
}

// OnResponse implements hwdbg.Listener.
//
func (h *HierViewer) OnResponse(r hwdbg.Response) {
	switch r := r.(type) {
	case hwdbg.LoadResult:
		if r.Err != nil {
			return
		}
		h.mu.Lock()
		h.cursor, h.err = 0, nil
		h.mu.Unlock()
	case hwdbg.ModifyProbedPointsResult:
		if r.Err != nil {
			return
		}
	default:
		return
	}
	h.model.OnResponse(r)
	h.n.Render()
}
