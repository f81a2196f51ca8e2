package hwdbg

import (
	"testing"

	"github.com/db47h/hwdbg/dut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sigs(paths ...string) []dut.Signal {
	out := make([]dut.Signal, len(paths))
	for i, p := range paths {
		out[i] = dut.Signal{Path: p, Width: 1, Readable: true}
	}
	return out
}

func names(ns []*InstanceNode) []string {
	var out []string
	for _, n := range ns {
		out = append(out, n.Name)
	}
	return out
}

func TestBuildHierarchy(t *testing.T) {
	root, err := buildHierarchy(
		sigs("top.clk", "top.a.x", "top.a.b.y", "top.c.z"),
		[]dut.Instance{{Path: "top", Module: "cpu"}, {Path: "top.a", Module: "alu"}, {Path: "top.e", Module: "empty"}},
	)
	require.NoError(t, err)
	assert.Equal(t, "top", root.Name)
	assert.Equal(t, "top", root.Path)
	assert.Equal(t, "cpu", root.Module)
	assert.Equal(t, []string{"a", "e", "c"}, names(root.Children))
	assert.Equal(t, "alu", root.Children[0].Module)
	assert.Equal(t, "c", root.Children[2].Module, "defaults to the instance name")
	assert.Equal(t, "top.a.b", root.Children[0].Children[0].Path)
	require.Len(t, root.Signals, 1)
	assert.Equal(t, "clk", root.Signals[0].Name())

	var paths []string
	root.Walk(func(n *InstanceNode) { paths = append(paths, n.Path) })
	assert.Equal(t, []string{"top", "top.a", "top.a.b", "top.e", "top.c"}, paths)
}

func TestBuildHierarchySyntheticRoot(t *testing.T) {
	for _, ps := range [][]string{
		{"cpu.clk", "mem.clk"},
		{"clk", "cpu.pc"},
	} {
		root, err := buildHierarchy(sigs(ps...), nil)
		require.NoError(t, err)
		assert.Equal(t, SyntheticRoot, root.Name)
		assert.Equal(t, "", root.Path)

		d := newLoadedDut("x", root, sigs(ps...))
		_, ok := d.Resolve(ps[0])
		assert.True(t, ok)
		_, ok = d.Resolve("pc")
		assert.False(t, ok)
	}
}

func TestBuildHierarchyErrors(t *testing.T) {
	for _, td := range []struct {
		name  string
		sigs  []dut.Signal
		insts []dut.Instance
	}{
		{"empty", nil, nil},
		{"duplicate", sigs("top.a", "top.a"), nil},
		{"bad path", sigs("top..a"), nil},
		{"bad instance", sigs("top.a"), []dut.Instance{{Path: "top."}}},
	} {
		_, err := buildHierarchy(td.sigs, td.insts)
		assert.Error(t, err, td.name)
	}
}

func TestLoadedDutProbes(t *testing.T) {
	ss := sigs("top.a", "top.b")
	ss = append(ss, dut.Signal{Path: "top.w", Width: 1, Writable: true})
	root, err := buildHierarchy(ss, nil)
	require.NoError(t, err)
	d := newLoadedDut("x", root, ss).withProbes([]string{"top.b", "top.a", "top.b"})
	assert.Equal(t, []string{"top.a", "top.b"}, d.Probes())
	assert.True(t, d.IsProbed("top.a"))
	assert.False(t, d.IsProbed("top.w"))
	assert.Equal(t, []string{"top.a"}, d.reconcile([]string{"top.a", "top.w", "top.gone"}))

	s, ok := d.Resolve("b")
	assert.True(t, ok)
	assert.Equal(t, "top.b", s.Path)
	assert.Len(t, d.Signals(), 3)
}
