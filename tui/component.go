// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/db47h/hwdbg"
)

// Result tells a parent component what happened to a key event.
//
type Result int

// Key handling results.
//
const (
	NotHandled Result = iota
	Handled
	// ReleaseFocus: handled, and focus goes back to the parent.
	ReleaseFocus
)

// A Component is a node in the component tree.
//
// View is called by the render actor and must only take read locks.
// HandleKey is called by the input actor.
//
type Component interface {
	View(width, height int) string
	HandleKey(k tea.KeyMsg) Result
}

// Simulator is the part of *hwdbg.Simulator used by the user interface.
//
type Simulator interface {
	Submit(r hwdbg.Request) error
	Register(l hwdbg.Listener)
	Done() <-chan struct{}
}
