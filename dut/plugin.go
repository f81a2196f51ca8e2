// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dut

import (
	"plugin"

	"github.com/pkg/errors"
)

// PluginSymbol is the name of the constructor a DUT plugin must export.
//
// A plugin is a Go package built with -buildmode=plugin that exports:
//
//	func NewDUT() (dut.DUT, error)
//
const PluginSymbol = "NewDUT"

// OpenPlugin loads the Go plugin at path and instantiates its DUT.
//
func OpenPlugin(path string) (DUT, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open plugin")
	}
	sym, err := p.Lookup(PluginSymbol)
	if err != nil {
		return nil, errors.Wrap(err, "incompatible plugin")
	}
	var newDUT func() (DUT, error)
	switch fn := sym.(type) {
	case func() (DUT, error):
		newDUT = fn
	case *func() (DUT, error):
		newDUT = *fn
	default:
		return nil, errors.Errorf("incompatible plugin: %s has type %T", PluginSymbol, sym)
	}
	d, err := newDUT()
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	if d == nil {
		return nil, errors.Errorf("%s: %s returned a nil DUT", path, PluginSymbol)
	}
	return d, nil
}
