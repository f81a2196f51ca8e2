// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"github.com/pkg/errors"
)

type chip struct {
	PartSpec
	parts []Part
}

func (c *chip) mount(s *Socket) []Component {
	var cs []Component
	for _, p := range c.parts {
		ups, err := s.Mount(p)
		if err != nil {
			// wiring has been validated by Chip.
			panic(errors.Wrapf(err, "mount %s", c.Name))
		}
		cs = append(cs, ups...)
	}
	return cs
}

// Chip composes existing parts into a new part packaged into a chip.
// The pin names specified as inputs and outputs will be the inputs
// and outputs of the chip. See ParseIO for the syntax of inputs and outputs.
//
// An Xor gate could be created like this:
//
//	xor, err := Chip("XOR", "a, b", "out",
//		nand("a=a, b=b, out=nandAB"),
//		nand("a=a, b=nandAB, out=w0"),
//		nand("a=b, b=nandAB, out=w1"),
//		nand("a=w0, b=w1, out=out"),
//	)
//
// The returned value is a function of type NewPartFn that can be used to
// compose the new part with others into other chips.
//
// Every chip output must be driven by the output of one of its parts.
//
func Chip(name string, inputs, outputs string, parts ...Part) (NewPartFn, error) {
	in, err := ParseIO(inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "chip %s", name)
	}
	out, err := ParseIO(outputs)
	if err != nil {
		return nil, errors.Wrapf(err, "chip %s", name)
	}
	c := &chip{
		PartSpec: PartSpec{Name: name, Inputs: in, Outputs: out},
		parts:    parts,
	}
	c.PartSpec.Mount = c.mount

	// dry run on a throwaway circuit to catch wiring errors early.
	s := newSocket(&Circuit{count: cstCount})
	for _, n := range in {
		s.PinOrNew(n)
	}
	driven := make(map[int]bool)
	for _, p := range parts {
		if p.PartSpec == nil {
			return nil, errors.Errorf("chip %s: nil part", name)
		}
		if _, err := s.Mount(p); err != nil {
			return nil, errors.Wrapf(err, "chip %s", name)
		}
		for k, v := range p.Wires {
			ks, _ := p.pins(k)
			if len(ks) == 0 || !p.isOutput(ks[0]) {
				continue
			}
			vs, _ := s.Resolve(v, len(ks))
			for _, pin := range vs {
				driven[pin] = true
			}
		}
	}
	for _, o := range out {
		if n, ok := s.m[o]; !ok || !driven[n] {
			return nil, errors.Errorf("chip %s: output pin %s not connected to any part output", name, o)
		}
	}
	return c.PartSpec.NewPart, nil
}
