// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tui

import "sync"

// Message is what a Notifier delivers to the render actor.
//
type Message int

// Messages.
//
const (
	Render Message = iota
	Quit
)

// A Notifier carries Render and Quit notifications to the render actor.
//
// Render is level triggered: any number of Render calls made while a redraw
// is pending collapse into a single redraw. Quit is permanent and takes
// priority over a pending Render.
//
type Notifier struct {
	render chan struct{}
	quit   chan struct{}
	once   sync.Once
}

// NewNotifier returns a new Notifier.
//
func NewNotifier() *Notifier {
	return &Notifier{
		render: make(chan struct{}, 1),
		quit:   make(chan struct{}),
	}
}

// Render requests a redraw. It never blocks.
//
func (n *Notifier) Render() {
	select {
	case n.render <- struct{}{}:
	default:
	}
}

// Quit tells the render actor to exit. It is safe to call more than once.
//
func (n *Notifier) Quit() {
	n.once.Do(func() { close(n.quit) })
}

// Done returns a channel closed by Quit.
//
func (n *Notifier) Done() <-chan struct{} { return n.quit }

// Wait blocks until a notification is available and returns it.
//
func (n *Notifier) Wait() Message {
	select {
	case <-n.quit:
		return Quit
	default:
	}
	select {
	case <-n.quit:
		return Quit
	case <-n.render:
		select {
		case <-n.quit:
			return Quit
		default:
			return Render
		}
	}
}
