// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwdbg

import (
	"github.com/pkg/errors"
)

// Kind classifies simulator errors.
//
type Kind int

// Error kinds.
//
const (
	Other Kind = iota
	// LoadFailure: bad path, incompatible or missing design.
	LoadFailure
	// RunFailure: no design loaded or the design failed to run.
	RunFailure
	// SignalFailure: unknown path, width mismatch or read-only target.
	SignalFailure
	// ProbeFailure: a path that does not resolve to a readable signal.
	ProbeFailure
)

var kindNames = [...]string{
	Other:         "error",
	LoadFailure:   "load failure",
	RunFailure:    "run failure",
	SignalFailure: "signal failure",
	ProbeFailure:  "probe failure",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown failure"
	}
	return kindNames[k]
}

// Error is the error type carried by simulator responses. Subject is the
// path, signal name or probe point the error is about, if any.
//
type Error struct {
	Kind    Kind
	Subject string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Subject != "" {
		msg += " " + e.Subject
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
//
func (e *Error) Unwrap() error { return e.Err }

func newError(k Kind, subject string, err error) *Error {
	return &Error{Kind: k, Subject: subject, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or Other.
//
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

var (
	// ErrTerminated is returned by Submit once the simulator has been told to
	// terminate.
	ErrTerminated = errors.New("simulator terminated")
	// ErrNotLoaded is the cause of failures of requests that need a design
	// when none is loaded.
	ErrNotLoaded = errors.New("no design loaded")
)
