// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package design

import (
	"github.com/db47h/hwdbg/dut"
	"github.com/db47h/hwdbg/hwlib"
	"github.com/db47h/hwdbg/hwsim"
	"github.com/pkg/errors"
)

// Adder returns a module that adds one to its 8 bits input.
//
//	Inputs: a[8]
//	Outputs: d[8]
//
func Adder() *Module {
	return &Module{
		Name:    "adder",
		Inputs:  "a[8]",
		Outputs: "d[8]",
		Parts: []hwsim.Part{
			hwlib.AdderN(8)("a=a, b[0]=true, out=d"),
		},
	}
}

// Sample returns the sample top module: out latches in+1 on every rising edge
// of clk. rst clears out.
//
//	Inputs: in[8], clk, rst
//	Outputs: out[8]
//	Wires: sum[8]
//	Instances: adder_inst (adder)
//
func Sample() *Module {
	return &Module{
		Name:    "top",
		Inputs:  "in[8], clk, rst",
		Outputs: "out[8]",
		Wires:   "sum[8]",
		Parts: []hwsim.Part{
			hwlib.Register(8)("in=sum, load=true, clk=clk, rst=rst, out=out"),
		},
		Instances: []Instance{
			{Name: "adder_inst", Module: Adder(), Conns: "a=in, d=sum"},
		},
	}
}

// Counter returns a 4 bits counter module with enable and reset.
//
//	Inputs: clk, rst, en
//	Outputs: count[4]
//	Wires: next[4]
//	Instances: inc (incrementer)
//
func Counter() *Module {
	inc := &Module{
		Name:    "incrementer",
		Inputs:  "a[4]",
		Outputs: "d[4], carry",
		Parts: []hwsim.Part{
			hwlib.AdderN(4)("a=a, b[0]=true, out=d, c=carry"),
		},
	}
	return &Module{
		Name:    "counter",
		Inputs:  "clk, rst, en",
		Outputs: "count[4]",
		Wires:   "next[4]",
		Parts: []hwsim.Part{
			hwlib.Register(4)("in=next, load=en, clk=clk, rst=rst, out=count"),
		},
		Instances: []Instance{
			{Name: "inc", Module: inc, Conns: "a=count, d=next"},
		},
	}
}

// RegisterSamples registers the built-in sample designs with r: "sample"
// (root instance "top"), its alias "design", and "counter".
//
func RegisterSamples(r *dut.Registry) error {
	samples := []struct {
		name string
		root string
		m    func() *Module
	}{
		{"sample", "top", Sample},
		{"design", "top", Sample},
		{"counter", "counter", Counter},
	}
	for _, s := range samples {
		s := s
		err := r.Register(s.name, func(o dut.Options) (dut.DUT, error) {
			d, err := New(s.m(), s.root, o)
			if err != nil {
				return nil, err
			}
			return d, nil
		})
		if err != nil {
			return errors.Wrap(err, "register samples")
		}
	}
	return nil
}
