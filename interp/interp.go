// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package interp parses debugger command lines.
//
// Parse is a total function: for any input it returns either a Command or a
// *SyntaxError, never both and never neither. It has no side effects; the
// caller turns a parsed Command into a simulator request.
//
// Grammar (whitespace separated tokens):
//
//	run <duration>          advance simulation time
//	load <path>             load a design
//	set <signal> <binary>   write a value onto a signal
//	get <signal>            read a signal
//	probe <path>...         add probe points
//	unprobe <path>...       remove probe points
//
// An empty line parses to Noop.
//
package interp

import (
	"strconv"
	"strings"

	"github.com/db47h/hwdbg/bitvec"
)

// A Command is a successfully parsed command line.
//
type Command interface {
	command()
}

// Noop is the empty command.
type Noop struct{}

// Run advances simulation time by Duration steps.
type Run struct {
	Duration uint64
}

// Load loads the design at Path.
type Load struct {
	Path string
}

// Set writes Value onto Signal.
type Set struct {
	Signal string
	Value  bitvec.BitVec
}

// Get reads the current value of Signal.
type Get struct {
	Signal string
}

// Probe adds Paths to the probe set.
type Probe struct {
	Paths []string
}

// Unprobe removes Paths from the probe set.
type Unprobe struct {
	Paths []string
}

func (Noop) command()    {}
func (Run) command()     {}
func (Load) command()    {}
func (Set) command()     {}
func (Get) command()     {}
func (Probe) command()   {}
func (Unprobe) command() {}

// SyntaxError describes a malformed command line.
//
type SyntaxError struct {
	Line string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Msg
}

type parseFn func(args []string) (Command, string)

var commands map[string]parseFn

func init() {
	commands = map[string]parseFn{
		"run":     parseRun,
		"load":    parseLoad,
		"set":     parseSet,
		"get":     parseGet,
		"probe":   parseProbe,
		"unprobe": parseUnprobe,
	}
}

// Parse parses a single command line.
//
func Parse(line string) (Command, error) {
	tok := strings.Fields(line)
	if len(tok) == 0 {
		return Noop{}, nil
	}
	fn, ok := commands[tok[0]]
	if !ok {
		return nil, &SyntaxError{Line: line, Msg: "unknown command " + strconv.Quote(tok[0])}
	}
	cmd, msg := fn(tok[1:])
	if msg != "" {
		return nil, &SyntaxError{Line: line, Msg: tok[0] + ": " + msg}
	}
	return cmd, nil
}

// Commands returns the names of all known commands, sorted.
//
func Commands() []string {
	return []string{"get", "load", "probe", "run", "set", "unprobe"}
}

func arity(args []string, n int, usage string) string {
	if len(args) != n {
		return "expected " + usage
	}
	return ""
}

func parseRun(args []string) (Command, string) {
	if msg := arity(args, 1, "run <duration>"); msg != "" {
		return nil, msg
	}
	d, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return nil, "invalid duration " + strconv.Quote(args[0])
	}
	return Run{Duration: d}, ""
}

func parseLoad(args []string) (Command, string) {
	if msg := arity(args, 1, "load <path>"); msg != "" {
		return nil, msg
	}
	return Load{Path: args[0]}, ""
}

func parseSet(args []string) (Command, string) {
	if msg := arity(args, 2, "set <signal> <binary value>"); msg != "" {
		return nil, msg
	}
	v, err := bitvec.Parse(args[1])
	if err != nil {
		return nil, "invalid value " + strconv.Quote(args[1]) + ": binary literal expected"
	}
	return Set{Signal: args[0], Value: v}, ""
}

func parseGet(args []string) (Command, string) {
	if msg := arity(args, 1, "get <signal>"); msg != "" {
		return nil, msg
	}
	return Get{Signal: args[0]}, ""
}

func parseProbe(args []string) (Command, string) {
	if len(args) == 0 {
		return nil, "expected probe <path>..."
	}
	return Probe{Paths: args}, ""
}

func parseUnprobe(args []string) (Command, string) {
	if len(args) == 0 {
		return nil, "expected unprobe <path>..."
	}
	return Unprobe{Paths: args}, ""
}
