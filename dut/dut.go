// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package dut defines the contract between the debugger and a design under
// test, and the loaders that instantiate designs from a path.
//
package dut

import (
	"github.com/db47h/hwdbg/bitvec"
)

// Signal describes a signal of a design.
//
type Signal struct {
	// Path is the unique, dot separated, hierarchical signal name.
	Path     string
	Width    int
	Readable bool
	Writable bool
}

// Name returns the last component of the signal path.
//
func (s Signal) Name() string {
	for i := len(s.Path) - 1; i >= 0; i-- {
		if s.Path[i] == '.' {
			return s.Path[i+1:]
		}
	}
	return s.Path
}

// A DUT is a loaded, runnable design.
//
// Implementations need not be safe for concurrent use: the debugger only
// calls a DUT from a single goroutine.
//
type DUT interface {
	// Query enumerates all signals of the design.
	Query() ([]Signal, error)
	// Run advances the simulation by duration steps and returns the new
	// absolute time.
	Run(duration uint64) (uint64, error)
	// Set writes v to the signal at path. It fails if the path is unknown
	// or if the width of v does not match the signal's.
	Set(path string, v bitvec.BitVec) error
	// Get reads the current value of the signal at path.
	Get(path string) (bitvec.BitVec, error)
	// Close releases all resources held by the design.
	Close() error
}

// Instance describes a module instance.
//
type Instance struct {
	Path   string // dot separated instance path
	Module string // module type name
}

// Describer is implemented by designs that can report the module type of
// their instances.
//
type Describer interface {
	Instances() []Instance
}

// A Loader instantiates designs.
//
type Loader interface {
	Load(path string) (DUT, error)
}

// LoaderFunc adapts a function to the Loader interface.
//
type LoaderFunc func(path string) (DUT, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (DUT, error) { return f(path) }
