// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/hwdbg/hwsim"
)

// ripple adds a and b plus an optional carry in pin (cin < 0 for none),
// writing the sum bits to out and the final carry to cout.
func ripple(a, b, out []int, cin, cout int) hwsim.Component {
	return func(c *hwsim.Circuit) {
		carry := cin >= 0 && c.Get(cin)
		for i, o := range out {
			x, y := c.Get(a[i]), c.Get(b[i])
			half := x != y
			c.Set(o, half != carry)
			carry = x && y || half && carry
		}
		c.Set(cout, carry)
	}
}

var hAdder = &hwsim.PartSpec{
	Name:    "HalfAdder",
	Inputs:  []string{pA, pB},
	Outputs: []string{"s", "c"},
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		return []hwsim.Component{ripple(s.NewBus(pA, 1), s.NewBus(pB, 1), s.NewBus("s", 1), -1, s.Pin("c"))}
	},
}

var adder = &hwsim.PartSpec{
	Name:    "FullAdder",
	Inputs:  []string{pA, pB, "cin"},
	Outputs: []string{"s", "cout"},
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		return []hwsim.Component{ripple(s.NewBus(pA, 1), s.NewBus(pB, 1), s.NewBus("s", 1), s.Pin("cin"), s.Pin("cout"))}
	},
}

// HalfAdder returns a half adder. s is the sum bit of a + b and c its carry.
//
func HalfAdder(c string) hwsim.Part { return hAdder.NewPart(c) }

// FullAdder returns a full adder: s and cout are the sum and carry of
// a + b + cin.
//
func FullAdder(c string) hwsim.Part { return adder.NewPart(c) }

// AdderN returns a ripple carry adder of the a[bits] and b[bits] buses, with
// the sum in out[bits] and the carry out in c. Wiring a single bit of b to
// true, like "b[0]=true", turns it into an incrementer.
//
func AdderN(bits int) hwsim.NewPartFn {
	spec := &hwsim.PartSpec{
		Name:    "Adder" + strconv.Itoa(bits),
		Inputs:  pins(bits, pA, pB),
		Outputs: append(pins(bits, pOut), "c"),
	}
	spec.Mount = func(s *hwsim.Socket) []hwsim.Component {
		return []hwsim.Component{ripple(s.NewBus(pA, bits), s.NewBus(pB, bits), s.NewBus(pOut, bits), -1, s.Pin("c"))}
	}
	return spec.NewPart
}
