// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwdbg

import (
	"github.com/db47h/hwdbg/bitvec"
)

// A Response is the outcome of a Request, broadcast to every Listener.
//
// Request returns the request it answers. Error returns nil on success, or an
// *Error.
//
type Response interface {
	Request() Request
	Error() error
}

// LoadResult answers Load. Dut is the new session on success.
//
type LoadResult struct {
	Req Load
	Dut *LoadedDut
	Err error
}

// RunResult answers Run. Time is the new absolute simulation time and Waves
// the probed waves, sorted by signal path.
//
type RunResult struct {
	Req   Run
	Time  uint64
	Waves []Wave
	Err   error
}

// SetSignalResult answers SetSignal. Signal is the resolved signal path.
//
type SetSignalResult struct {
	Req    SetSignal
	Signal string
	Err    error
}

// GetSignalResult answers GetSignal.
//
type GetSignalResult struct {
	Req    GetSignal
	Signal string
	Value  bitvec.BitVec
	Err    error
}

// ModifyProbedPointsResult answers ModifyProbedPoints. On success Dut carries
// the updated probe set and Waves the probed waves.
//
type ModifyProbedPointsResult struct {
	Req   ModifyProbedPoints
	Dut   *LoadedDut
	Waves []Wave
	Err   error
}

func (r LoadResult) Request() Request               { return r.Req }
func (r RunResult) Request() Request                { return r.Req }
func (r SetSignalResult) Request() Request          { return r.Req }
func (r GetSignalResult) Request() Request          { return r.Req }
func (r ModifyProbedPointsResult) Request() Request { return r.Req }

func (r LoadResult) Error() error               { return r.Err }
func (r RunResult) Error() error                { return r.Err }
func (r SetSignalResult) Error() error          { return r.Err }
func (r GetSignalResult) Error() error          { return r.Err }
func (r ModifyProbedPointsResult) Error() error { return r.Err }
