// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// A Component is a component in a circuit that can Get and Set states.
//
type Component func(c *Circuit)

// Circuit is a runnable circuit simulation.
//
type Circuit struct {
	s0    []bool // wire states frame #0
	s1    []bool // wire states frame #1
	cs    []Component
	count int // wire count
	steps uint64

	wc []chan struct{}
	wg sync.WaitGroup
}

// A BuildFn mounts the parts of a circuit into the root socket s and returns
// their components.
//
type BuildFn func(s *Socket) ([]Component, error)

// Parts returns a BuildFn that mounts the given parts into the root socket.
//
func Parts(parts ...Part) BuildFn {
	return func(s *Socket) ([]Component, error) {
		var cs []Component
		for _, p := range parts {
			ups, err := s.Mount(p)
			if err != nil {
				return nil, err
			}
			cs = append(cs, ups...)
		}
		return cs, nil
	}
}

// ErrUnstable is returned by Settle when the circuit keeps changing after the
// maximum number of steps, usually because of a combinational loop.
//
var ErrUnstable = errors.New("circuit did not settle")

// NewCircuit builds a new circuit.
//
// workers is the number of goroutines used to update the state of the Circuit
// each step of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used.
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
//
func NewCircuit(workers int, build BuildFn) (*Circuit, error) {
	// new circuit with room for constant value pins.
	cc := &Circuit{count: cstCount}
	ups, err := build(newSocket(cc))
	if err != nil {
		return nil, errors.Wrap(err, "build circuit")
	}
	if len(ups) == 0 {
		return nil, errors.New("empty circuit")
	}
	cc.cs = ups
	cc.s0 = make([]bool, cc.count)
	cc.s1 = make([]bool, cc.count)
	cc.s0[cstTrue] = true
	cc.s1[cstTrue] = true

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers <= 0 {
		workers = 1
	}
	for len(ups) > 0 {
		size := len(ups) / workers
		if size*workers < len(ups) {
			size++
		}
		wc := make(chan struct{}, 1)
		cc.wc = append(cc.wc, wc)
		go worker(cc, ups[:size], wc)
		ups = ups[size:]
	}

	return cc, nil
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
//
func (c *Circuit) Dispose() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
	c.wc = nil
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

// allocPin allocates a pin and returns its number.
//
func (c *Circuit) allocPin() int {
	cnt := c.count
	c.count++
	return cnt
}

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint64 {
	return c.steps
}

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) bool {
	return c.s0[n]
}

// Set sets the state s of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Set(n int, s bool) {
	c.s1[n] = s
}

// Toggle toggles the state of pin n.
//
func (c *Circuit) Toggle(n int) {
	c.s1[n] = !c.s0[n]
}

// GetBus returns the state of the given pins as a bool slice, pin 0 first.
//
func (c *Circuit) GetBus(pins []int) []bool {
	out := make([]bool, len(pins))
	for i, p := range pins {
		out[i] = c.s0[p]
	}
	return out
}

// Step advances the simulation by one step.
//
func (c *Circuit) Step() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		wc <- struct{}{}
	}

	c.wg.Wait()
	c.steps++
	c.s0, c.s1 = c.s1, c.s0
}

// Settle steps the circuit until the state of every pin is the same as in
// the previous step, and returns the number of steps taken. It gives up after
// max steps with ErrUnstable. If max <= 0, the component count plus two is
// used, which is enough for any loop-free circuit to propagate its inputs.
//
func (c *Circuit) Settle(max int) (int, error) {
	if max <= 0 {
		max = len(c.cs) + 2
	}
	for n := 1; n <= max; n++ {
		c.Step()
		if c.stable() {
			return n, nil
		}
	}
	return max, errors.Wrapf(ErrUnstable, "after %d steps", max)
}

func (c *Circuit) stable() bool {
	for i := range c.s0 {
		if c.s0[i] != c.s1[i] {
			return false
		}
	}
	return true
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }

// Pins returns the number of pins in the circuit, including constant pins.
//
func (c *Circuit) Pins() int { return c.count }
