// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/hwdbg/hwsim"
)

// DFF returns a data flip flop clocked by an explicit clock pin.
//
//	Inputs: in, clk
//	Outputs: out
//	Function: out = in at the last rising edge of clk
//
func DFF(w string) hwsim.Part {
	return dff.NewPart(w)
}

type dffImpl struct {
	In  int `hw:"in"`
	Clk int `hw:"in"`
	Out int `hw:"out"`

	cur, prevClk bool
}

func (d *dffImpl) Update(c *hwsim.Circuit) {
	ck := c.Get(d.Clk)
	// rising edge?
	if ck && !d.prevClk {
		d.cur = c.Get(d.In)
	}
	d.prevClk = ck
	c.Set(d.Out, d.cur)
}

var dff = func() *hwsim.PartSpec {
	sp := hwsim.MakePart((*dffImpl)(nil))
	sp.Name = "DFF"
	return sp
}()

// Register returns an N-bits register with load enable and asynchronous
// active-high reset.
//
//	Inputs: in[bits], load, clk, rst
//	Outputs: out[bits]
//	Function: if rst { out = 0 } else if load at rising edge of clk { out = in }
//
func Register(bits int) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "Register" + strconv.Itoa(bits),
		Inputs:  append(bus(bits, pIn), "load", pClk, pRst),
		Outputs: bus(bits, pOut),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Bus(pIn, bits), s.Bus(pOut, bits)
			load, clk, rst := s.Pin("load"), s.Pin(pClk), s.Pin(pRst)
			cur := make([]bool, bits)
			var prevClk bool
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					ck := c.Get(clk)
					switch {
					case c.Get(rst):
						for i := range cur {
							cur[i] = false
						}
					case ck && !prevClk && c.Get(load):
						for i, p := range in {
							cur[i] = c.Get(p)
						}
					}
					prevClk = ck
					for i, p := range out {
						c.Set(p, cur[i])
					}
				}}
		}}).NewPart
}
