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
	"github.com/db47h/hwdbg/bitvec"
)

// WaveViewer shows the probed waves around a sample cursor.
//
type WaveViewer struct {
	n *Notifier

	mu     sync.RWMutex
	waves  []hwdbg.Wave
	time   uint64
	cursor int
	follow bool // cursor tracks the latest sample
	opts   bitvec.Options
}

// NewWaveViewer returns a new WaveViewer. The Format and TwosComplement fields
// of opts set the initial display; Width is ignored.
//
func NewWaveViewer(n *Notifier, opts bitvec.Options) *WaveViewer {
	opts.Width = 0
	return &WaveViewer{n: n, follow: true, opts: opts}
}

// Options returns the current display options.
//
func (w *WaveViewer) Options() bitvec.Options {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.opts
}

// Cursor returns the sample index under the cursor.
//
func (w *WaveViewer) Cursor() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cursor
}

func (w *WaveViewer) samples() int {
	n := 0
	for _, wv := range w.waves {
		if wv.Len() > n {
			n = wv.Len()
		}
	}
	return n
}

// Values returns the formatted value of every wave at the cursor, in wave
// order.
//
func (w *WaveViewer) Values() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, len(w.waves))
	for i, wv := range w.waves {
		out[i] = wv.Format(w.cursor, w.opts)
	}
	return out
}

// View implements Component.
//
func (w *WaveViewer) View(width, height int) string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	signed := ""
	if w.opts.TwosComplement {
		signed = " signed"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "time %d  sample %d  %s%s", w.time, w.cursor, w.opts.Format, signed)
	if len(w.waves) == 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("no probe points"))
		return fit(b.String(), width, height)
	}

	nameWidth, cell := 0, 1
	for _, wv := range w.waves {
		if n := lipgloss.Width(wv.Signal); n > nameWidth {
			nameWidth = n
		}
		for i := 0; i < wv.Len(); i++ {
			if n := len(wv.Format(i, w.opts)); n > cell {
				cell = n
			}
		}
	}
	// visible sample window, cursor kept in view.
	cols := (width - nameWidth - 1) / (cell + 1)
	if cols < 1 {
		cols = 1
	}
	first := 0
	if w.cursor >= cols {
		first = w.cursor - cols + 1
	}

	for _, wv := range w.waves {
		b.WriteByte('\n')
		b.WriteString(fmt.Sprintf("%-*s", nameWidth, wv.Signal))
		for i := first; i < first+cols && i < wv.Len(); i++ {
			v := fmt.Sprintf("%*s", cell, wv.Format(i, w.opts))
			if i == w.cursor {
				v = cursorStyle.Render(v)
			}
			b.WriteByte(' ')
			b.WriteString(v)
		}
	}
	return fit(b.String(), width, height)
}

// HandleKey implements Component.
//
func (w *WaveViewer) HandleKey(k tea.KeyMsg) Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	last := w.samples() - 1
	switch {
	case key.Matches(k, keys.Left):
		if w.cursor > 0 {
			w.cursor--
		}
		w.follow = false
	case key.Matches(k, keys.Right):
		if w.cursor < last {
			w.cursor++
		}
		w.follow = w.cursor >= last
	case key.Matches(k, keys.Format):
		w.opts.Format = w.opts.Format.Next()
	case key.Matches(k, keys.Signed):
		w.opts.TwosComplement = !w.opts.TwosComplement
	default:
		return NotHandled
	}
	w.n.Render()
	return Handled
}

// OnResponse implements hwdbg.Listener.
//
func (w *WaveViewer) OnResponse(r hwdbg.Response) {
	if r.Error() != nil {
		return
	}
	w.mu.Lock()
	switch r := r.(type) {
	case hwdbg.LoadResult:
		w.waves = nil
		for _, p := range r.Dut.Probes() {
			sig, _ := r.Dut.Signal(p)
			w.waves = append(w.waves, hwdbg.Wave{Signal: p, Width: sig.Width})
		}
		w.time, w.cursor, w.follow = 0, 0, true
	case hwdbg.RunResult:
		w.waves, w.time = r.Waves, r.Time
	case hwdbg.ModifyProbedPointsResult:
		w.waves = r.Waves
	default:
		w.mu.Unlock()
		return
	}
	if last := w.samples() - 1; w.follow || w.cursor > last {
		w.cursor = last
		if w.cursor < 0 {
			w.cursor = 0
		}
	}
	w.mu.Unlock()
	w.n.Render()
}
