// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tui

// A Screen displays frames.
//
type Screen interface {
	Draw(frame string)
}

// ScreenFunc adapts a function to the Screen interface.
//
type ScreenFunc func(frame string)

// Draw calls f(frame).
func (f ScreenFunc) Draw(frame string) { f(frame) }

// Renderer is the render actor: it draws a frame of the component tree on
// every Render notification until told to quit.
//
type Renderer struct {
	n      *Notifier
	root   *Root
	screen Screen
}

// NewRenderer returns a new Renderer.
//
func NewRenderer(n *Notifier, root *Root, screen Screen) *Renderer {
	return &Renderer{n: n, root: root, screen: screen}
}

// Run draws an initial frame, then a frame per Render notification. It
// returns on Quit.
//
func (r *Renderer) Run() {
	for {
		select {
		case <-r.n.Done():
			return
		default:
		}
		r.screen.Draw(r.root.Frame())
		if r.n.Wait() == Quit {
			return
		}
	}
}
