// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwdbg

import "sync"

// A Listener receives every Response, on the simulator's goroutine, in
// registration order. Listeners must guard their own state.
//
type Listener interface {
	OnResponse(r Response)
}

// ListenerFunc adapts a function to the Listener interface.
//
type ListenerFunc func(r Response)

// OnResponse calls f(r).
func (f ListenerFunc) OnResponse(r Response) { f(r) }

type listeners struct {
	mu sync.RWMutex
	ls []Listener
}

func (l *listeners) add(x Listener) {
	if x == nil {
		return
	}
	l.mu.Lock()
	l.ls = append(l.ls, x)
	l.mu.Unlock()
}

// snapshot returns the current listeners. Registering new listeners does not
// affect a snapshot being iterated.
func (l *listeners) snapshot() []Listener {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ls[:len(l.ls):len(l.ls)]
}
