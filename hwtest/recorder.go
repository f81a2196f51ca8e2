// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"sync"
	"time"

	"github.com/db47h/hwdbg"
	"github.com/pkg/errors"
)

// A Recorder is a hwdbg.Listener that records every response it receives.
// The zero value is ready to use.
//
type Recorder struct {
	mu      sync.Mutex
	rs      []hwdbg.Response
	changed chan struct{}
}

// OnResponse implements hwdbg.Listener.
//
func (r *Recorder) OnResponse(resp hwdbg.Response) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rs = append(r.rs, resp)
	if r.changed != nil {
		close(r.changed)
		r.changed = nil
	}
}

// Responses returns the responses recorded so far.
//
func (r *Recorder) Responses() []hwdbg.Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]hwdbg.Response(nil), r.rs...)
}

// Wait waits until at least n responses have been recorded and returns them.
// It fails if that takes longer than timeout.
//
func (r *Recorder) Wait(n int, timeout time.Duration) ([]hwdbg.Response, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		r.mu.Lock()
		if len(r.rs) >= n {
			rs := append([]hwdbg.Response(nil), r.rs...)
			r.mu.Unlock()
			return rs, nil
		}
		if r.changed == nil {
			r.changed = make(chan struct{})
		}
		ch := r.changed
		got := len(r.rs)
		r.mu.Unlock()

		select {
		case <-ch:
		case <-deadline.C:
			return nil, errors.Errorf("timeout waiting for %d responses, got %d", n, got)
		}
	}
}
