// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package hwdbg implements the control plane of an interactive hardware design
debugger.

A Simulator owns the design under test (see package dut) and executes
requests against it one at a time, in the order they were queued:

	s := hwdbg.New(hwdbg.WithLoader(registry))
	s.Register(hwdbg.ListenerFunc(func(r hwdbg.Response) {
		if err := r.Error(); err != nil {
			log.Print(err)
		}
	}))
	s.Start()
	s.Submit(hwdbg.Load{Path: "build/sample.so"})
	s.Submit(hwdbg.SetSignal{Name: "in", Value: bitvec.MustParse("10")})
	s.Submit(hwdbg.Run{Duration: 1})
	s.Submit(hwdbg.Terminate{})
	<-s.Done()

Any number of goroutines may submit requests. Every response is delivered to
every registered Listener, in registration order, on the simulation
goroutine. Listeners must therefore return quickly and hand heavy work over
to their own goroutines.

Successful loads and probe changes produce a LoadedDut, an immutable snapshot
of the instance tree and of the probe set. Probed signals are sampled after
every successful Run and their history is returned as Waves.

Signal names are either full paths ("top.adder_inst.d") or paths relative to
the root instance ("adder_inst.d").
*/
package hwdbg
