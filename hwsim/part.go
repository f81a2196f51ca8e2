// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned pin numbers and return closures around
// these pin numbers.
//
// For example, a Not gate can be defined like this:
//
//	not := &PartSpec{
//		Name: "Not",
//		Inputs: IO("in"),
//		Outputs: IO("out"),
//		Mount: func (s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{
//				func (c *Circuit) { c.Set(out, !c.Get(in)) },
//			}
//		}}
//
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Must be distinct pin names.
	// Use the IO() function to expand an input description like
	// "a, b, bus[2]" to []string{"a", "b", "bus[0]", "bus[1]"}
	Inputs []string
	// Output pin names. Must be distinct pin names.
	Outputs []string

	// Mount function (see MountFn).
	Mount MountFn
}

// Wire returns a Part for p with the given wires.
//
func (p *PartSpec) Wire(w W) Part {
	return Part{p, w}
}

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if the connection string cannot be parsed.
//
func (p *PartSpec) NewPart(connections string) Part {
	w, err := ParseConnections(connections)
	if err != nil {
		panic(err)
	}
	return Part{p, w}
}

// pins returns the pin names of p matching the public pin or bus name n:
// "a" returns {"a"} for a single pin, or {"a[0]", "a[1]", ...} for a bus.
// Ranges like "a[2..3]" and single bus pins like "a[1]" are accepted.
//
func (p *PartSpec) pins(n string) ([]string, error) {
	names, err := expandRange(n)
	if err != nil {
		return nil, err
	}
	if len(names) == 1 && !p.hasPin(n) {
		names = names[:0]
		for i := 0; p.hasPin(BusPinName(n, i)); i++ {
			names = append(names, BusPinName(n, i))
		}
	}
	for _, name := range names {
		if !p.hasPin(name) {
			return nil, errors.Errorf("invalid pin name %s for part %s", name, p.Name)
		}
	}
	if len(names) == 0 {
		return nil, errors.Errorf("invalid pin name %s for part %s", n, p.Name)
	}
	return names, nil
}

func (p *PartSpec) hasPin(name string) bool {
	for _, n := range p.Inputs {
		if n == name {
			return true
		}
	}
	for _, n := range p.Outputs {
		if n == name {
			return true
		}
	}
	return false
}

// A NewPartFn is a function that takes a connection configuration and returns a
// new Part. See ParseConnections for the syntax of the connection configuration
// string.
//
type NewPartFn func(c string) Part

// A Part wraps a part specification together with its connections within a host
// socket.
//
type Part struct {
	*PartSpec
	Wires W
}

// W is a set of wires, connecting a part's I/O pins or buses (the map key) to
// pins or buses in its container.
//
type W map[string]string

// ParseConnections parses a connection configuration string of the form
// "a=x, b=y[0..3], out=z" into a W.
//
func ParseConnections(s string) (W, error) {
	w := make(W)
	for _, conn := range strings.Split(s, ",") {
		conn = strings.TrimSpace(conn)
		if conn == "" {
			continue
		}
		i := strings.IndexRune(conn, '=')
		if i < 0 {
			return nil, errors.Errorf("invalid connection %q: missing '='", conn)
		}
		k, v := strings.TrimSpace(conn[:i]), strings.TrimSpace(conn[i+1:])
		if k == "" || v == "" {
			return nil, errors.Errorf("invalid connection %q", conn)
		}
		if _, ok := w[k]; ok {
			return nil, errors.Errorf("pin %s connected more than once", k)
		}
		w[k] = v
	}
	return w, nil
}

// BusPinName returns the pin name for the n-th bit of the named bus.
//
func BusPinName(bus string, bit int) string {
	return bus + "[" + strconv.Itoa(bit) + "]"
}

// IO expands a pin specification string like "a, b, bus[8]" into individual
// pin names. It panics on malformed input; see ParseIO.
//
func IO(spec string) []string {
	pins, err := ParseIO(spec)
	if err != nil {
		panic(err)
	}
	return pins
}

// ParseIO parses the pin specification string and returns individual pin
// names in a slice, also expanding bus declarations to individual pin names.
// For example:
//
//	ParseIO("in[2], sel") // returns []string{"in[0]", "in[1]", "sel"}
//
func ParseIO(spec string) ([]string, error) {
	var out []string
	for _, name := range strings.Split(spec, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		bus, n, err := ParseBus(name)
		if err != nil {
			return nil, errors.Wrapf(err, "in %q", spec)
		}
		if n == 1 && !strings.ContainsRune(name, '[') {
			out = append(out, bus)
			continue
		}
		for i := 0; i < n; i++ {
			out = append(out, BusPinName(bus, i))
		}
	}
	return out, nil
}

// ParseBus parses a single pin or bus declaration "name" or "name[size]" and
// returns the name and bit count.
//
func ParseBus(decl string) (name string, size int, err error) {
	i := strings.IndexRune(decl, '[')
	if i < 0 {
		if !isIdent(decl) {
			return "", 0, errors.Errorf("invalid pin name %q", decl)
		}
		return decl, 1, nil
	}
	name = decl[:i]
	if !isIdent(name) {
		return "", 0, errors.Errorf("invalid bus name %q", name)
	}
	if !strings.HasSuffix(decl, "]") {
		return "", 0, errors.Errorf("missing close bracket in %q", decl)
	}
	size, err = strconv.Atoi(decl[i+1 : len(decl)-1])
	if err != nil || size <= 0 {
		return "", 0, errors.Errorf("invalid bus size in %q", decl)
	}
	return name, size, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}

// expandRange expands "bus[start..end]" to individual pin names. Other names
// are returned as is.
//
func expandRange(name string) ([]string, error) {
	i := strings.IndexRune(name, '[')
	if i < 0 {
		return []string{name}, nil
	}
	bus := name[:i]
	if bus == "" {
		return nil, errors.New("empty bus name")
	}
	n := name[i+1:]
	i = strings.Index(n, "..")
	if i < 0 {
		return []string{name}, nil
	}
	start, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, err
	}
	n = n[i+2:]
	i = strings.IndexRune(n, ']')
	if i < 0 {
		return nil, errors.New("no terminating ] in bus range")
	}
	end, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, errors.Errorf("invalid bus range %s", name)
	}
	r := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		r = append(r, BusPinName(bus, i))
	}
	return r, nil
}
