package hwlib_test

import (
	"strings"
	"testing"

	hl "github.com/db47h/hwdbg/hwlib"
	hw "github.com/db47h/hwdbg/hwsim"
)

func newCircuit(t *testing.T, parts ...hw.Part) *hw.Circuit {
	t.Helper()
	c, err := hw.NewCircuit(0, hw.Parts(parts...))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.Dispose)
	return c
}

func settle(t *testing.T, c *hw.Circuit) {
	t.Helper()
	if _, err := c.Settle(0); err != nil {
		t.Fatal(err)
	}
}

// testGate feeds every input combination to gate and checks its outputs
// against result. Combinations are enumerated with the first input as MSB.
func testGate(t *testing.T, name string, gate hw.NewPartFn, result [][]bool) {
	t.Helper()
	part := gate("").PartSpec // build dummy gate just to get to the partspec
	inputs := make([]bool, len(part.Inputs))
	outputs := make([]bool, len(part.Outputs))
	var w strings.Builder
	parts := make([]hw.Part, 0, len(part.Inputs)+len(part.Outputs)+1)
	for i, n := range part.Inputs {
		w.WriteString("," + n + "=" + n)
		in := &inputs[i]
		parts = append(parts, hl.Input(func() bool { return *in })("out="+n))
	}
	for i, n := range part.Outputs {
		w.WriteString("," + n + "=" + n)
		out := &outputs[i]
		parts = append(parts, hl.Output(func(v bool) { *out = v })("in="+n))
	}
	parts = append(parts, gate(strings.TrimPrefix(w.String(), ",")))
	c := newCircuit(t, parts...)

	tot := 1 << uint(len(part.Inputs))
	for i := 0; i < tot; i++ {
		for bit := range inputs {
			inputs[len(inputs)-bit-1] = (i & (1 << uint(bit))) != 0
		}
		settle(t, c)
		for o, out := range outputs {
			if exp := result[o][i]; exp != out {
				t.Errorf("%s %v = %v, got %v", name, inputs, exp, out)
			}
		}
	}
}
