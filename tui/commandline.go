// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tui

import (
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/db47h/hwdbg"
	"github.com/db47h/hwdbg/interp"
)

// maxHistory bounds the result and input histories.
const maxHistory = 256

// Entry is a line of the command line's result history.
//
type Entry struct {
	Text string
	Err  bool
}

// CommandLine is the one line command prompt. It is inactive until a ':' is
// typed; Enter parses and submits the line, Esc cancels it. While inactive it
// shows the latest result. Up and Down recall previous lines.
//
// CommandLine is a hwdbg.Listener: it records a summary of every response.
//
type CommandLine struct {
	n   *Notifier
	sim Simulator

	mu      sync.RWMutex
	active  bool
	text    string
	results []Entry
	inputs  []string
	recall  int
}

// NewCommandLine returns a new CommandLine submitting requests to sim.
//
func NewCommandLine(n *Notifier, sim Simulator) *CommandLine {
	return &CommandLine{n: n, sim: sim}
}

// Active reports whether the prompt is open.
//
func (c *CommandLine) Active() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// History returns the result history, oldest first.
//
func (c *CommandLine) History() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Entry(nil), c.results...)
}

func appendBounded[T any](s []T, v T) []T {
	s = append(s, v)
	if len(s) > maxHistory {
		s = s[len(s)-maxHistory:]
	}
	return s
}

// View implements Component.
//
func (c *CommandLine) View(width, height int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var line string
	switch {
	case c.active:
		line = inputStyle.Render(":" + c.text + "_")
	case len(c.results) == 0:
		line = dimStyle.Render("type : for a command, ? for help")
	default:
		e := c.results[len(c.results)-1]
		if e.Err {
			line = errStyle.Render(e.Text)
		} else {
			line = okStyle.Render(e.Text)
		}
	}
	return fit(line, width, height)
}

// HandleKey implements Component.
//
func (c *CommandLine) HandleKey(k tea.KeyMsg) Result {
	c.mu.Lock()
	res, line, enter := c.handleKey(k)
	c.mu.Unlock()
	if enter {
		// submit without holding the lock: the simulator may be busy calling
		// OnResponse.
		c.execute(line)
	}
	if res != NotHandled {
		c.n.Render()
	}
	return res
}

func (c *CommandLine) handleKey(k tea.KeyMsg) (res Result, line string, enter bool) {
	if !c.active {
		if key.Matches(k, keys.Command) {
			c.active, c.text, c.recall = true, "", len(c.inputs)
			return Handled, "", false
		}
		return NotHandled, "", false
	}
	switch {
	case key.Matches(k, keys.Esc):
		c.active = false
		return ReleaseFocus, "", false
	case key.Matches(k, keys.Enter):
		c.active = false
		return ReleaseFocus, c.text, true
	case key.Matches(k, keys.Back):
		if n := len(c.text); n > 0 {
			c.text = c.text[:n-1]
		}
	case k.Type == tea.KeyUp:
		if c.recall > 0 {
			c.recall--
			c.text = c.inputs[c.recall]
		}
	case k.Type == tea.KeyDown:
		if c.recall < len(c.inputs) {
			c.recall++
		}
		if c.recall < len(c.inputs) {
			c.text = c.inputs[c.recall]
		} else {
			c.text = ""
		}
	case k.Type == tea.KeySpace:
		c.text += " "
	case k.Type == tea.KeyRunes:
		c.text += string(k.Runes)
	}
	return Handled, "", false
}

func (c *CommandLine) record(e Entry) {
	c.mu.Lock()
	c.results = appendBounded(c.results, e)
	c.mu.Unlock()
}

// execute parses line and submits the resulting request.
func (c *CommandLine) execute(line string) {
	cmd, err := interp.Parse(line)
	if err != nil {
		c.record(Entry{Text: err.Error(), Err: true})
		return
	}
	req := hwdbg.RequestFor(cmd)
	if req == nil {
		return
	}
	c.mu.Lock()
	c.inputs = appendBounded(c.inputs, line)
	c.mu.Unlock()
	// recorded before submission so that it precedes the response.
	c.record(Entry{Text: "executed: " + line})
	if err := c.sim.Submit(req); err != nil {
		c.record(Entry{Text: err.Error(), Err: true})
	}
}

// OnResponse implements hwdbg.Listener.
//
func (c *CommandLine) OnResponse(r hwdbg.Response) {
	c.record(Entry{Text: hwdbg.Describe(r), Err: r.Error() != nil})
	c.n.Render()
}
