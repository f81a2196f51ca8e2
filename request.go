// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwdbg

import (
	"github.com/db47h/hwdbg/bitvec"
)

// A Request is an operation submitted to the Simulator.
//
type Request interface {
	request()
}

// Load instantiates the design at Path, replacing the current one on success.
type Load struct {
	Path string
}

// Run advances simulation time by Duration steps.
type Run struct {
	Duration uint64
}

// SetSignal writes Value onto the signal Name.
type SetSignal struct {
	Name  string
	Value bitvec.BitVec
}

// GetSignal reads the current value of the signal Name.
type GetSignal struct {
	Name string
}

// ModifyProbedPoints adds and removes probe points. Add must only name readable
// signals or the whole request fails.
type ModifyProbedPoints struct {
	Add    []string
	Remove []string
}

// Terminate stops the simulator once the current operation completes.
type Terminate struct{}

func (Load) request()               {}
func (Run) request()                {}
func (SetSignal) request()          {}
func (GetSignal) request()          {}
func (ModifyProbedPoints) request() {}
func (Terminate) request()          {}
