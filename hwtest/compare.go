// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits and the
// debugger's control plane.
//
package hwtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/hwdbg/hwlib"
	"github.com/db47h/hwdbg/hwsim"
)

// connString wires every pin of the given lists to a pin of the same name in
// the host, prefixing output wires with prefix.
func connString(prefix string, in, out []string) string {
	var b strings.Builder
	for _, n := range in {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(n + "=" + n)
	}
	for _, n := range out {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(n + "=" + prefix + n)
	}
	return b.String()
}

// ComparePart takes two combinational parts and compares their outputs given
// the same inputs. Both parts must have the same Input/Output interface.
//
func ComparePart(t *testing.T, part1 hwsim.NewPartFn, part2 hwsim.NewPartFn) {
	t.Helper()

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	ps1, ps2 := part1(""), part2("")

	// compare specs
	if len(ps1.Inputs) != len(ps2.Inputs) {
		t.Fatal("len(ps1.Inputs) != len(ps2.Inputs)")
	}
	if len(ps1.Outputs) != len(ps2.Outputs) {
		t.Fatal("len(ps1.Outputs) != len(ps2.Outputs)")
	}
	for i := range ps1.Inputs {
		if ps1.Inputs[i] != ps2.Inputs[i] {
			t.Fatalf("ps1.Inputs[i] = %q != ps2.Inputs[i] = %q", ps1.Inputs[i], ps2.Inputs[i])
		}
	}
	for i := range ps1.Outputs {
		if ps1.Outputs[i] != ps2.Outputs[i] {
			t.Fatalf("ps1.Outputs[i] = %q != ps2.Outputs[i] = %q", ps1.Outputs[i], ps2.Outputs[i])
		}
	}

	inputs := make([]bool, len(ps1.Inputs))
	outs := make([][2]int, len(ps1.Outputs))

	c, err := hwsim.NewCircuit(0, func(s *hwsim.Socket) ([]hwsim.Component, error) {
		var cs []hwsim.Component
		for i, n := range ps1.Inputs {
			k := i
			ups, err := s.Mount(hwlib.Input(func() bool { return inputs[k] })("out=" + n))
			if err != nil {
				return nil, err
			}
			cs = append(cs, ups...)
		}
		for _, p := range []hwsim.Part{
			part1(connString("1:", ps1.Inputs, ps1.Outputs)),
			part2(connString("2:", ps2.Inputs, ps2.Outputs)),
		} {
			ups, err := s.Mount(p)
			if err != nil {
				return nil, err
			}
			cs = append(cs, ups...)
		}
		for i, o := range ps1.Outputs {
			outs[i] = [2]int{s.Pin("1:" + o), s.Pin("2:" + o)}
		}
		return cs, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	errString := func(oname string, ex, got bool) string {
		var b strings.Builder
		for i, n := range ps1.Inputs {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", n, inputs[i])
		}
		return fmt.Sprintf("\nExpected %s => %s=%v\nGot %v", b.String(), oname, ex, got)
	}

	check := func() {
		t.Helper()
		if _, err := c.Settle(0); err != nil {
			t.Fatal(err)
		}
		for o, out := range outs {
			if v0, v1 := c.Get(out[0]), c.Get(out[1]); v0 != v1 {
				t.Fatal(errString(ps1.Outputs[o], v0, v1))
			}
		}
	}

	iter := len(ps1.Inputs)
	if iter > 12 {
		iter = 12
	}
	iter = 1 << uint(iter)

	start := time.Now()

	// try all 0
	check()

	// try all 1
	for in := range inputs {
		inputs[in] = true
	}
	check()

	for i := 0; i < iter; i++ {
		for in := range inputs {
			inputs[in] = rnd.Int63()&(1<<62) != 0
		}
		check()
	}

	t.Logf("%d components. %d steps in %v.", c.Size(), c.Steps(), time.Since(start))
}
