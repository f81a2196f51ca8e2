// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable parts for hwsim.
//
// Multi-bit parts use buses: a part with an input bus "a" of 8 bits has input
// pins "a[0]" through "a[7]", a[0] being the least significant bit. When
// wiring a part, a whole bus can be connected at once: "a=x" connects a[i] to
// x[i] for every bit.
//
package hwlib

import (
	"strconv"

	"github.com/db47h/hwdbg/hwsim"
)

// common pin names
const (
	pA   = "a"
	pB   = "b"
	pIn  = "in"
	pSel = "sel"
	pOut = "out"
	pClk = "clk"
	pRst = "rst"
)

// bus expands each name into its bit pin names, in order.
func bus(bits int, names ...string) []string {
	var pins []string
	for _, n := range names {
		for j := 0; j < bits; j++ {
			pins = append(pins, hwsim.BusPinName(n, j))
		}
	}
	return pins
}

// pins names a bus, or its single pin when bits is 1.
func pins(bits int, names ...string) []string {
	if bits == 1 {
		return names
	}
	return bus(bits, names...)
}

// Logic is a two-input boolean function.
//
type Logic func(a, b bool) bool

// Truth tables of the binary gates.
//
var (
	LogicAnd  Logic = func(a, b bool) bool { return a && b }
	LogicNand Logic = func(a, b bool) bool { return !(a && b) }
	LogicOr   Logic = func(a, b bool) bool { return a || b }
	LogicNor  Logic = func(a, b bool) bool { return !(a || b) }
	LogicXor  Logic = func(a, b bool) bool { return a != b }
	LogicXnor Logic = func(a, b bool) bool { return a == b }
)

// bitwise builds a part applying fn to each bit pair of the a and b buses.
// Single bit parts use plain pin names.
func bitwise(name string, bits int, fn Logic) *hwsim.PartSpec {
	return &hwsim.PartSpec{
		Name:    name,
		Inputs:  pins(bits, pA, pB),
		Outputs: pins(bits, pOut),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			a, b, out := s.NewBus(pA, bits), s.NewBus(pB, bits), s.NewBus(pOut, bits)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				for i, o := range out {
					c.Set(o, fn(c.Get(a[i]), c.Get(b[i])))
				}
			}}
		},
	}
}

// inverter builds a part negating every bit of its input bus.
func inverter(name string, bits int) *hwsim.PartSpec {
	return &hwsim.PartSpec{
		Name:    name,
		Inputs:  pins(bits, pIn),
		Outputs: pins(bits, pOut),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.NewBus(pIn, bits), s.NewBus(pOut, bits)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				for i, o := range out {
					c.Set(o, !c.Get(in[i]))
				}
			}}
		},
	}
}

var (
	notGate  = inverter("NOT", 1)
	andGate  = bitwise("AND", 1, LogicAnd)
	nandGate = bitwise("NAND", 1, LogicNand)
	orGate   = bitwise("OR", 1, LogicOr)
	norGate  = bitwise("NOR", 1, LogicNor)
	xorGate  = bitwise("XOR", 1, LogicXor)
	xnorGate = bitwise("XNOR", 1, LogicXnor)
)

// Not returns an inverter with input "in" and output "out".
//
func Not(w string) hwsim.Part { return notGate.NewPart(w) }

// The binary gates below all have inputs "a", "b" and output "out".

// And returns an AND gate.
//
func And(w string) hwsim.Part { return andGate.NewPart(w) }

// Nand returns a NAND gate.
//
func Nand(w string) hwsim.Part { return nandGate.NewPart(w) }

// Or returns an OR gate.
//
func Or(w string) hwsim.Part { return orGate.NewPart(w) }

// Nor returns a NOR gate.
//
func Nor(w string) hwsim.Part { return norGate.NewPart(w) }

// Xor returns a XOR gate.
//
func Xor(w string) hwsim.Part { return xorGate.NewPart(w) }

// Xnor returns a XNOR gate.
//
func Xnor(w string) hwsim.Part { return xnorGate.NewPart(w) }

// NotN returns a bus inverter: out[i] = !in[i].
//
func NotN(bits int) hwsim.NewPartFn {
	return inverter("NOT"+strconv.Itoa(bits), bits).NewPart
}

// GateN returns a bus-wide gate computing out[i] = f(a[i], b[i]).
//
func GateN(name string, bits int, f func(bool, bool) bool) hwsim.NewPartFn {
	return bitwise(name+strconv.Itoa(bits), bits, f).NewPart
}

// AndN returns a bus-wide AND gate.
//
func AndN(bits int) hwsim.NewPartFn { return GateN("AND", bits, LogicAnd) }

// OrN returns a bus-wide OR gate.
//
func OrN(bits int) hwsim.NewPartFn { return GateN("OR", bits, LogicOr) }

// XorN returns a bus-wide XOR gate.
//
func XorN(bits int) hwsim.NewPartFn { return GateN("XOR", bits, LogicXor) }

// OrNWay returns a reducing OR: out is set when any bit of in[ways] is.
//
func OrNWay(ways int) hwsim.NewPartFn {
	spec := &hwsim.PartSpec{
		Name:    "OR" + strconv.Itoa(ways) + "Way",
		Inputs:  bus(ways, pIn),
		Outputs: []string{pOut},
	}
	spec.Mount = func(s *hwsim.Socket) []hwsim.Component {
		in, out := s.Bus(pIn, ways), s.Pin(pOut)
		return []hwsim.Component{func(c *hwsim.Circuit) {
			hit := false
			for _, p := range in {
				if hit = c.Get(p); hit {
					break
				}
			}
			c.Set(out, hit)
		}}
	}
	return spec.NewPart
}
