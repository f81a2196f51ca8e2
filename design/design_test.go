package design_test

import (
	"testing"

	"github.com/db47h/hwdbg/bitvec"
	"github.com/db47h/hwdbg/design"
	"github.com/db47h/hwdbg/dut"
	hl "github.com/db47h/hwdbg/hwlib"
	hw "github.com/db47h/hwdbg/hwsim"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDesign(t *testing.T, m *design.Module, name string) *design.Design {
	t.Helper()
	d, err := design.New(m, name, dut.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func set(t *testing.T, d dut.DUT, path string, v uint64, width int) {
	t.Helper()
	require.NoError(t, d.Set(path, bitvec.FromUint64(v, width)))
}

func TestSampleSignals(t *testing.T) {
	d := newDesign(t, design.Sample(), "top")

	sigs, err := d.Query()
	require.NoError(t, err)
	byPath := make(map[string]dut.Signal)
	for _, s := range sigs {
		byPath[s.Path] = s
	}
	for _, td := range []struct {
		path     string
		width    int
		writable bool
	}{
		{"top.in", 8, true},
		{"top.clk", 1, true},
		{"top.rst", 1, true},
		{"top.out", 8, false},
		{"top.sum", 8, false},
		{"top.adder_inst.a", 8, false},
		{"top.adder_inst.d", 8, false},
	} {
		s, ok := byPath[td.path]
		if assert.True(t, ok, td.path) {
			assert.Equal(t, td.width, s.Width, td.path)
			assert.Equal(t, td.writable, s.Writable, td.path)
			assert.True(t, s.Readable, td.path)
		}
	}
	assert.Len(t, sigs, 7)

	assert.Equal(t, []dut.Instance{
		{Path: "top", Module: "top"},
		{Path: "top.adder_inst", Module: "adder"},
	}, d.Instances())
}

func TestSampleRun(t *testing.T) {
	d := newDesign(t, design.Sample(), "top")

	set(t, d, "top.in", 2, 8)
	now, err := d.Run(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), now)

	v, err := d.Get("top.adder_inst.d")
	require.NoError(t, err)
	assert.Equal(t, "00000011", v.String())

	// out only changes on a rising clock edge.
	v, err = d.Get("top.out")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v.Uint64())

	set(t, d, "top.clk", 0, 1)
	_, err = d.Run(1)
	require.NoError(t, err)
	set(t, d, "top.clk", 1, 1)
	now, err = d.Run(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), now)

	v, err = d.Get("top.out")
	require.NoError(t, err)
	assert.Equal(t, "00000011", v.String())

	set(t, d, "top.rst", 1, 1)
	_, err = d.Run(1)
	require.NoError(t, err)
	v, err = d.Get("top.out")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v.Uint64())
}

func TestRunZero(t *testing.T) {
	d := newDesign(t, design.Sample(), "top")
	now, err := d.Run(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), now)
}

func TestSetErrors(t *testing.T) {
	d := newDesign(t, design.Sample(), "top")

	assert.Error(t, d.Set("top.bogus", bitvec.FromUint64(1, 1)))
	assert.Error(t, d.Set("top.in", bitvec.FromUint64(1, 4)), "width mismatch")
	assert.Error(t, d.Set("top.out", bitvec.FromUint64(1, 8)), "read only")
	_, err := d.Get("top.bogus")
	assert.Error(t, err)
}

func TestCounter(t *testing.T) {
	d := newDesign(t, design.Counter(), "")

	tick := func() {
		t.Helper()
		set(t, d, "counter.clk", 0, 1)
		_, err := d.Run(1)
		require.NoError(t, err)
		set(t, d, "counter.clk", 1, 1)
		_, err = d.Run(1)
		require.NoError(t, err)
	}
	count := func() uint64 {
		t.Helper()
		v, err := d.Get("counter.count")
		require.NoError(t, err)
		return v.Uint64()
	}

	tick()
	assert.Equal(t, uint64(0), count(), "disabled")

	set(t, d, "counter.en", 1, 1)
	for i := 1; i <= 17; i++ {
		tick()
		assert.Equal(t, uint64(i%16), count())
	}

	v, err := d.Get("counter.inc.carry")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Len())

	set(t, d, "counter.rst", 1, 1)
	tick()
	assert.Equal(t, uint64(0), count())
}

func TestUnstable(t *testing.T) {
	osc := &design.Module{
		Name:    "osc",
		Inputs:  "en",
		Outputs: "x",
		Parts:   []hw.Part{hl.Nand("a=en, b=x, out=x")},
	}
	d := newDesign(t, osc, "osc")

	_, err := d.Run(1)
	require.NoError(t, err)

	set(t, d, "osc.en", 1, 1)
	_, err = d.Run(1)
	require.Error(t, err)
	assert.Equal(t, hw.ErrUnstable, errors.Cause(err))
}

func TestElaborationErrors(t *testing.T) {
	leaf := &design.Module{
		Name:    "leaf",
		Inputs:  "a",
		Outputs: "b",
		Parts:   []hw.Part{hl.Not("in=a, out=b")},
	}
	rec := &design.Module{Name: "rec", Inputs: "a", Parts: []hw.Part{hl.Not("in=a")}}
	rec.Instances = []design.Instance{{Name: "self", Module: rec}}

	td := []struct {
		name string
		m    *design.Module
	}{
		{"bad port decl", &design.Module{Name: "m", Inputs: "a[", Parts: []hw.Part{hl.Not("in=a")}}},
		{"unknown port", &design.Module{Name: "m", Inputs: "a",
			Instances: []design.Instance{{Name: "l", Module: leaf, Conns: "a=a, c=a"}}}},
		{"width mismatch", &design.Module{Name: "m", Inputs: "a[2]",
			Instances: []design.Instance{{Name: "l", Module: leaf, Conns: "a=a"}}}},
		{"output to constant", &design.Module{Name: "m", Inputs: "a",
			Instances: []design.Instance{{Name: "l", Module: leaf, Conns: "a=a, b=true"}}}},
		{"duplicate signal", &design.Module{Name: "m", Inputs: "a", Wires: "a", Parts: []hw.Part{hl.Not("in=a")}}},
		{"recursive", rec},
		{"nil instance", &design.Module{Name: "m", Inputs: "a", Instances: []design.Instance{{Name: "x"}}}},
		{"empty", &design.Module{Name: "m"}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			_, err := design.New(d.m, "", dut.Options{})
			assert.Error(t, err)
		})
	}
	_, err := design.New(nil, "x", dut.Options{})
	assert.Error(t, err)
}

func TestRegisterSamples(t *testing.T) {
	r := dut.NewRegistry(dut.Options{Workers: 2})
	require.NoError(t, design.RegisterSamples(r))
	assert.Equal(t, []string{"counter", "design", "sample"}, r.Names())
	assert.Error(t, design.RegisterSamples(r), "duplicate registration")

	d, err := r.Load("design/sample.so")
	require.NoError(t, err)
	defer d.Close()
	desc, ok := d.(dut.Describer)
	require.True(t, ok)
	assert.Equal(t, "top", desc.Instances()[0].Path)
}

func TestClose(t *testing.T) {
	d, err := design.New(design.Sample(), "top", dut.Options{})
	require.NoError(t, err)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	_, err = d.Run(1)
	assert.Error(t, err)
	_, err = d.Query()
	assert.Error(t, err)
}
