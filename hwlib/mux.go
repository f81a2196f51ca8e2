// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/hwdbg/hwsim"
)

// selector routes bus a or b to out depending on sel.
func selector(name string, bits int) *hwsim.PartSpec {
	return &hwsim.PartSpec{
		Name:    name,
		Inputs:  append(pins(bits, pA, pB), pSel),
		Outputs: pins(bits, pOut),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			a, b, out := s.NewBus(pA, bits), s.NewBus(pB, bits), s.NewBus(pOut, bits)
			sel := s.Pin(pSel)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				from := a
				if c.Get(sel) {
					from = b
				}
				for i, o := range out {
					c.Set(o, c.Get(from[i]))
				}
			}}
		},
	}
}

// distributor routes in to bus a or b depending on sel. The other bus is
// held low.
func distributor(name string, bits int) *hwsim.PartSpec {
	return &hwsim.PartSpec{
		Name:    name,
		Inputs:  append(pins(bits, pIn), pSel),
		Outputs: pins(bits, pA, pB),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, a, b := s.NewBus(pIn, bits), s.NewBus(pA, bits), s.NewBus(pB, bits)
			sel := s.Pin(pSel)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				toB := c.Get(sel)
				for i, p := range in {
					v := c.Get(p)
					c.Set(a[i], v && !toB)
					c.Set(b[i], v && toB)
				}
			}}
		},
	}
}

var (
	mux  = selector("MUX", 1)
	dmux = distributor("DMUX", 1)
)

// Mux returns a multiplexer with inputs a, b, sel and output out.
// out follows a when sel is low and b otherwise.
//
func Mux(w string) hwsim.Part { return mux.NewPart(w) }

// DMux returns a demultiplexer with inputs in, sel and outputs a, b.
//
func DMux(w string) hwsim.Part { return dmux.NewPart(w) }

// MuxN returns a bus multiplexer:
//
//	Inputs: a[bits], b[bits], sel
//	Outputs: out[bits]
//
func MuxN(bits int) hwsim.NewPartFn {
	return selector("MUX"+strconv.Itoa(bits), bits).NewPart
}

// DMuxN returns a bus demultiplexer.
//
//	Inputs: in[bits], sel
//	Outputs: a[bits], b[bits]
//
func DMuxN(bits int) hwsim.NewPartFn {
	return distributor("DMUX"+strconv.Itoa(bits), bits).NewPart
}
