package hwsim_test

import (
	"reflect"
	"testing"

	hw "github.com/db47h/hwdbg/hwsim"
	"github.com/pkg/errors"
)

var nandSpec = &hw.PartSpec{
	Name:    "NAND",
	Inputs:  hw.IO("a, b"),
	Outputs: hw.IO("out"),
	Mount: func(s *hw.Socket) []hw.Component {
		a, b, out := s.Pin("a"), s.Pin("b"), s.Pin("out")
		return []hw.Component{func(c *hw.Circuit) { c.Set(out, !(c.Get(a) && c.Get(b))) }}
	},
}

func nand(w string) hw.Part { return nandSpec.NewPart(w) }

// probe returns a part that copies its input pin to *v at every step.
func probe(v *bool) hw.NewPartFn {
	return (&hw.PartSpec{
		Name:   "probe",
		Inputs: hw.IO("in"),
		Mount: func(s *hw.Socket) []hw.Component {
			in := s.Pin("in")
			return []hw.Component{func(c *hw.Circuit) { *v = c.Get(in) }}
		},
	}).NewPart
}

func drive(v *bool) hw.NewPartFn {
	return (&hw.PartSpec{
		Name:    "drive",
		Outputs: hw.IO("out"),
		Mount: func(s *hw.Socket) []hw.Component {
			out := s.Pin("out")
			return []hw.Component{func(c *hw.Circuit) { c.Set(out, *v) }}
		},
	}).NewPart
}

func Test_gate_custom(t *testing.T) {
	and, err := hw.Chip("AND", "a, b", "out",
		nand("a=a, b=b, out=nand"),
		nand("a=nand, b=nand, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	xor, err := hw.Chip("XOR", "a, b", "out",
		nand("a=a, b=b, out=nandAB"),
		nand("a=a, b=nandAB, out=w0"),
		nand("a=b, b=nandAB, out=w1"),
		nand("a=w0, b=w1, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}

	td := []struct {
		name string
		gate hw.NewPartFn
		res  [4]bool // a=0 && b=0, a=0 && b=1, a=1 && b=0, a=1 && b=1
	}{
		{"AND", and, [4]bool{false, false, false, true}},
		{"XOR", xor, [4]bool{false, true, true, false}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			var a, b, out bool
			c, err := hw.NewCircuit(0, hw.Parts(
				drive(&a)("out=a"),
				drive(&b)("out=b"),
				d.gate("a=a, b=b, out=out"),
				probe(&out)("in=out"),
			))
			if err != nil {
				t.Fatal(err)
			}
			defer c.Dispose()
			for i, exp := range d.res {
				a, b = i&2 != 0, i&1 != 0
				if _, err := c.Settle(0); err != nil {
					t.Fatal(err)
				}
				if out != exp {
					t.Errorf("%s(%v, %v) = %v, got %v", d.name, a, b, exp, out)
				}
			}
		})
	}
}

func TestSettleUnstable(t *testing.T) {
	en := true
	c, err := hw.NewCircuit(1, hw.Parts(
		drive(&en)("out=en"),
		nand("a=en, b=x, out=x"),
	))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()
	n, err := c.Settle(10)
	if errors.Cause(err) != hw.ErrUnstable {
		t.Fatalf("expected ErrUnstable, got %v", err)
	}
	if n != 10 || c.Steps() != 10 {
		t.Fatalf("expected 10 steps, got %d (%d)", n, c.Steps())
	}
	en = false
	if _, err = c.Settle(10); err != nil {
		t.Fatal(err)
	}
}

func TestCircuitErrors(t *testing.T) {
	td := []struct {
		name  string
		parts []hw.Part
	}{
		{"empty", nil},
		{"bad pin", []hw.Part{nand("a=a, c=b")}},
		{"output to constant", []hw.Part{nand("a=a, out=false")}},
		{"bad range", []hw.Part{nand("a=x[3..1]")}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			c, err := hw.NewCircuit(0, hw.Parts(d.parts...))
			if err == nil {
				c.Dispose()
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseIO(t *testing.T) {
	td := []struct {
		in  string
		out []string
		err bool
	}{
		{"a, b", []string{"a", "b"}, false},
		{"in[2], sel", []string{"in[0]", "in[1]", "sel"}, false},
		{"x[1]", []string{"x[0]"}, false},
		{"", nil, false},
		{"a[", nil, true},
		{"a[0]", nil, true},
		{"1a", nil, true},
	}
	for _, d := range td {
		out, err := hw.ParseIO(d.in)
		if (err != nil) != d.err {
			t.Errorf("ParseIO(%q): unexpected error status %v", d.in, err)
			continue
		}
		if !d.err && !reflect.DeepEqual(out, d.out) {
			t.Errorf("ParseIO(%q) = %v, expected %v", d.in, out, d.out)
		}
	}
}

func TestParseConnections(t *testing.T) {
	w, err := hw.ParseConnections("a=x, b = y[0..3],, out=z")
	if err != nil {
		t.Fatal(err)
	}
	exp := hw.W{"a": "x", "b": "y[0..3]", "out": "z"}
	if !reflect.DeepEqual(w, exp) {
		t.Fatalf("got %v, expected %v", w, exp)
	}
	for _, s := range []string{"a", "a=", "=b", "a=x, a=y"} {
		if _, err := hw.ParseConnections(s); err == nil {
			t.Errorf("ParseConnections(%q): expected error", s)
		}
	}
}

func TestSocketBus(t *testing.T) {
	var pins []int
	c, err := hw.NewCircuit(0, func(s *hw.Socket) ([]hw.Component, error) {
		pins = s.NewBus("b", 4)
		if got, ok := s.Lookup("b"); !ok || !reflect.DeepEqual(got, pins) {
			t.Errorf("Lookup(b) = %v, %v", got, ok)
		}
		if _, err := s.Resolve("b", 2); err == nil {
			t.Error("expected width mismatch")
		}
		r, err := s.Resolve("b[1..2]", 2)
		if err != nil || !reflect.DeepEqual(r, pins[1:3]) {
			t.Errorf("Resolve(b[1..2]) = %v, %v", r, err)
		}
		k, _ := s.Resolve(hw.True, 3)
		if len(k) != 3 || k[0] != s.Pin(hw.True) {
			t.Errorf("Resolve(true) = %v", k)
		}
		one := s.NewBus("single", 1)
		if !s.Has("single") || one[0] != s.Pin("single") {
			t.Error("1 bit bus is not a single pin")
		}
		return hw.Parts(nand("a=b[0], b=b[1], out=b[2]"))(s)
	})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()
	if _, err := c.Settle(0); err != nil {
		t.Fatal(err)
	}
	if got := c.GetBus(pins); !reflect.DeepEqual(got, []bool{false, false, true, false}) {
		t.Fatalf("bus = %v", got)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d", c.Size())
	}
}
