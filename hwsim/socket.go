// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"github.com/pkg/errors"
)

// Constant input pin names.
//
var (
	True  = "true"
	False = "false"
	GND   = "false"
)

const (
	cstFalse = iota
	cstTrue
	cstCount
)

// A Socket maps a part's pin names to pin numbers in a circuit.
//
type Socket struct {
	m map[string]int
	c *Circuit
}

func newSocket(c *Circuit) *Socket {
	return &Socket{
		m: map[string]int{False: cstFalse, True: cstTrue},
		c: c,
	}
}

// Sub returns a new, empty socket for the same circuit. Sub sockets are used
// to give each nested scope its own pin namespace.
//
func (s *Socket) Sub() *Socket {
	return newSocket(s.c)
}

// Pin returns the pin number allocated to the given pin name.
// This function panics if the pin does not exist.
//
func (s *Socket) Pin(name string) int {
	n, ok := s.m[name]
	if !ok {
		panic("pin " + name + " does not exist")
	}
	return n
}

// Has returns true if the given pin name is mapped in s.
//
func (s *Socket) Has(name string) bool {
	_, ok := s.m[name]
	return ok
}

// PinOrNew returns the pin number allocated to the given pin name.
// If no such pin exists a new one is allocated.
//
func (s *Socket) PinOrNew(name string) int {
	n, ok := s.m[name]
	if !ok {
		n = s.c.allocPin()
		s.m[name] = n
	}
	return n
}

// Bind maps name to an existing pin number.
//
func (s *Socket) Bind(name string, pin int) {
	s.m[name] = pin
}

// BindBus maps the bus name to existing pin numbers.
//
func (s *Socket) BindBus(name string, pins []int) {
	if len(pins) == 1 {
		s.m[name] = pins[0]
		return
	}
	for i, p := range pins {
		s.m[BusPinName(name, i)] = p
	}
}

// NewBus returns the pin numbers of the named bus, allocating missing pins.
// A bus of width 1 is a single pin named after the bus.
//
func (s *Socket) NewBus(name string, bits int) []int {
	if bits == 1 {
		return []int{s.PinOrNew(name)}
	}
	out := make([]int, bits)
	for i := range out {
		out[i] = s.PinOrNew(BusPinName(name, i))
	}
	return out
}

// Bus returns the pin numbers allocated to the given bus name.
// This function panics if the bus does not exist or is narrower than bits.
//
func (s *Socket) Bus(name string, bits int) []int {
	out := make([]int, bits)
	for i := range out {
		n, ok := s.m[BusPinName(name, i)]
		if !ok {
			panic("bus pin " + BusPinName(name, i) + " does not exist")
		}
		out[i] = n
	}
	return out
}

// Lookup returns the pins of the named single pin or bus.
//
func (s *Socket) Lookup(name string) ([]int, bool) {
	if n, ok := s.m[name]; ok {
		return []int{n}, true
	}
	var out []int
	for i := 0; ; i++ {
		n, ok := s.m[BusPinName(name, i)]
		if !ok {
			break
		}
		out = append(out, n)
	}
	return out, len(out) > 0
}

// Mount mounts the given sub-part and allocates new internal pins as necessary
// (according to pin mappings in p.Wires).
//
// Wire keys name a pin or bus of the part, values a pin or bus in s. Buses
// are connected bit to bit and must have the same width. Unknown values are
// allocated as new pins or buses of the required width. A constant (True or
// False) may drive any input pin or bus. Unconnected inputs are wired to
// False, unconnected outputs to new anonymous pins.
//
func (s *Socket) Mount(p Part) ([]Component, error) {
	sub := s.Sub()
	for k, v := range p.Wires {
		ks, err := p.pins(k)
		if err != nil {
			return nil, err
		}
		vs, err := s.Resolve(v, len(ks))
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", p.Name, k)
		}
		for i, pk := range ks {
			if (vs[i] == cstFalse || vs[i] == cstTrue) && p.isOutput(pk) {
				return nil, errors.Errorf("%s.%s: output pin connected to constant %q", p.Name, pk, v)
			}
			if sub.Has(pk) {
				return nil, errors.Errorf("%s.%s: pin connected more than once", p.Name, pk)
			}
			sub.m[pk] = vs[i]
		}
	}
	for _, in := range p.Inputs {
		if !sub.Has(in) {
			sub.m[in] = cstFalse
		}
	}
	for _, out := range p.Outputs {
		if !sub.Has(out) {
			sub.m[out] = s.c.allocPin()
		}
	}
	return p.Mount(sub), nil
}

// Resolve returns bits pins for the pin, bus or bus range named v, allocating
// new pins as needed. A constant name (True or False) yields bits constant pins.
func (s *Socket) Resolve(v string, bits int) ([]int, error) {
	names, err := expandRange(v)
	if err != nil {
		return nil, err
	}
	if len(names) > 1 {
		if len(names) != bits {
			return nil, errors.Errorf("pin count mismatch: %s has %d pins, expected %d", v, len(names), bits)
		}
		out := make([]int, bits)
		for i, n := range names {
			out[i] = s.PinOrNew(n)
		}
		return out, nil
	}
	if v == True || v == False {
		out := make([]int, bits)
		for i := range out {
			out[i] = s.m[v]
		}
		return out, nil
	}
	if pins, ok := s.Lookup(v); ok {
		if len(pins) != bits {
			return nil, errors.Errorf("width mismatch: %s is %d bits wide, expected %d", v, len(pins), bits)
		}
		return pins, nil
	}
	return s.NewBus(v, bits), nil
}

func (p *PartSpec) isOutput(name string) bool {
	for _, n := range p.Outputs {
		if n == name {
			return true
		}
	}
	return false
}
