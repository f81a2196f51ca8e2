// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command counter-plugin is the built-in counter design packaged as a DUT
// plugin:
//
//	go build -buildmode=plugin -o counter.so ./cmd/counter-plugin
//	hwdbg counter.so
//
package main

import (
	"github.com/db47h/hwdbg/design"
	"github.com/db47h/hwdbg/dut"
)

// NewDUT is looked up by dut.OpenPlugin.
//
func NewDUT() (dut.DUT, error) {
	d, err := design.New(design.Counter(), "counter", dut.Options{})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func main() {}
