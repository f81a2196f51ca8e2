// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/hwdbg/hwsim"
)

// Int64 packs the pin states into an int64, pins[0] being the lsb.
//
func Int64(c *hwsim.Circuit, pins []int) int64 {
	var v int64
	for i := len(pins) - 1; i >= 0; i-- {
		v <<= 1
		if c.Get(pins[i]) {
			v |= 1
		}
	}
	return v
}

// SetInt64 drives the pins with the low bits of v.
//
func SetInt64(c *hwsim.Circuit, pins []int, v int64) {
	for _, p := range pins {
		c.Set(p, v&1 != 0)
		v >>= 1
	}
}

// source builds an input-less part driving its out bus with drive(bit).
func source(name string, bits int, drive func(bit int) bool) hwsim.NewPartFn {
	spec := &hwsim.PartSpec{Name: name, Outputs: pins(bits, pOut)}
	spec.Mount = func(s *hwsim.Socket) []hwsim.Component {
		out := s.NewBus(pOut, bits)
		return []hwsim.Component{func(c *hwsim.Circuit) {
			for bit, p := range out {
				c.Set(p, drive(bit))
			}
		}}
	}
	return spec.NewPart
}

// sink builds an output-less part reporting its in bus to f on every update.
func sink(name string, bits int, f func(c *hwsim.Circuit, in []int)) hwsim.NewPartFn {
	spec := &hwsim.PartSpec{Name: name, Inputs: pins(bits, pIn)}
	spec.Mount = func(s *hwsim.Socket) []hwsim.Component {
		in := s.NewBus(pIn, bits)
		return []hwsim.Component{func(c *hwsim.Circuit) { f(c, in) }}
	}
	return spec.NewPart
}

// ConstN returns a part holding its out[bits] bus at v.
//
func ConstN(bits int, v int64) hwsim.NewPartFn {
	return source("CONST"+strconv.Itoa(bits), bits, func(bit int) bool {
		return v>>uint(bit)&1 != 0
	})
}

// Input returns a single pin source: out = f().
//
func Input(f func() bool) hwsim.NewPartFn {
	return source("Input", 1, func(int) bool { return f() })
}

// Output returns a probe calling f with the state of its in pin after every
// circuit update.
//
func Output(f func(bool)) hwsim.NewPartFn {
	return sink("Output", 1, func(c *hwsim.Circuit, in []int) { f(c.Get(in[0])) })
}

// InputBus returns a source for the out[bits] bus where bit i is driven by
// f(i). Values held by the debugger's set command enter a circuit this way.
//
func InputBus(bits int, f func(bit int) bool) hwsim.NewPartFn {
	return source("INPUTBUS"+strconv.Itoa(bits), bits, f)
}

// InputN returns a source for the out[bits] bus driven by the value of f.
//
func InputN(bits int, f func() int64) hwsim.NewPartFn {
	return InputBus(bits, func(bit int) bool { return f()>>uint(bit)&1 != 0 })
}

// OutputN returns a probe reporting the value of its in[bits] bus.
//
func OutputN(bits int, f func(int64)) hwsim.NewPartFn {
	return sink("OUTPUTBUS"+strconv.Itoa(bits), bits, func(c *hwsim.Circuit, in []int) {
		f(Int64(c, in))
	})
}
