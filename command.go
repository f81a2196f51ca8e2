// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwdbg

import (
	"fmt"
	"strings"

	"github.com/db47h/hwdbg/interp"
)

// RequestFor converts a parsed command line into the request it stands for.
// It returns nil for interp.Noop.
//
func RequestFor(c interp.Command) Request {
	switch c := c.(type) {
	case interp.Run:
		return Run{Duration: c.Duration}
	case interp.Load:
		return Load{Path: c.Path}
	case interp.Set:
		return SetSignal{Name: c.Signal, Value: c.Value}
	case interp.Get:
		return GetSignal{Name: c.Signal}
	case interp.Probe:
		return ModifyProbedPoints{Add: c.Paths}
	case interp.Unprobe:
		return ModifyProbedPoints{Remove: c.Paths}
	}
	return nil
}

// Describe returns a one line summary of r, suitable for a status line.
//
func Describe(r Response) string {
	var verb string
	switch r.Request().(type) {
	case Load:
		verb = "load"
	case Run:
		verb = "run"
	case SetSignal:
		verb = "set"
	case GetSignal:
		verb = "get"
	case ModifyProbedPoints:
		verb = "probe"
	default:
		verb = "?"
	}
	if err := r.Error(); err != nil {
		return verb + ": " + err.Error()
	}
	switch r := r.(type) {
	case LoadResult:
		return fmt.Sprintf("load: %s, root %s, %d signals", r.Req.Path, r.Dut.Root.Name, len(r.Dut.signals))
	case RunResult:
		return fmt.Sprintf("run: current time = %d", r.Time)
	case SetSignalResult:
		return fmt.Sprintf("set: %s = %s", r.Signal, r.Req.Value)
	case GetSignalResult:
		return fmt.Sprintf("get: %s = %s", r.Signal, r.Value)
	case ModifyProbedPointsResult:
		ps := r.Dut.Probes()
		if len(ps) == 0 {
			return "probe: no probe points"
		}
		return "probe: " + strings.Join(ps, " ")
	}
	return verb + ": ok"
}
