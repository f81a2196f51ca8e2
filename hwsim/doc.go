// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package hwsim is the gate-level simulation kernel behind the built-in designs.

A circuit is a flat set of pins (wires) and components. Each component is a
closure that reads pin states from the current frame and writes the pins it
drives into the next frame. Step evaluates every component once, in parallel
over a fixed set of worker goroutines, then swaps frames. Settle steps the
circuit until no pin changes, which is how one unit of simulation time is
defined for the debugger.

Parts are described by a PartSpec (a blueprint with named input and output
pins) and instantiated into a Socket which maps pin names to pin numbers.
Buses are groups of pins named "name[0]", "name[1]", etc.
*/
package hwsim
