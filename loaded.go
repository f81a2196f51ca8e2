// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwdbg

import (
	"sort"
	"strings"

	"github.com/db47h/hwdbg/dut"
	"github.com/pkg/errors"
)

// SyntheticRoot is the name of the root instance created when the signals of a
// design do not share a common top module.
//
const SyntheticRoot = "$root"

// An InstanceNode is a module instance in the design hierarchy. Path is the
// dot separated instance path, empty for a synthetic root. Signals hold full
// signal paths.
//
// Nodes are never modified once built and may be shared between goroutines.
//
type InstanceNode struct {
	Name     string
	Module   string
	Path     string
	Children []*InstanceNode
	Signals  []dut.Signal
}

// Walk calls f for n and every node below it, depth first, parents first.
//
func (n *InstanceNode) Walk(f func(n *InstanceNode)) {
	f(n)
	for _, c := range n.Children {
		c.Walk(f)
	}
}

// LoadedDut is an immutable snapshot of the active simulation session: the
// instance tree of the loaded design and its probe set. The simulator produces
// a new snapshot for every change.
//
type LoadedDut struct {
	// Path is the path the design was loaded from.
	Path string
	// Root is the root of the instance tree.
	Root *InstanceNode

	probes  []string // sorted
	signals map[string]dut.Signal
}

func newLoadedDut(path string, root *InstanceNode, sigs []dut.Signal) *LoadedDut {
	d := &LoadedDut{
		Path:    path,
		Root:    root,
		signals: make(map[string]dut.Signal, len(sigs)),
	}
	for _, s := range sigs {
		d.signals[s.Path] = s
	}
	return d
}

// NewLoadedDut builds a snapshot of a design with the given signals and
// optional instance descriptions. Probes that do not resolve to readable
// signals are dropped.
//
func NewLoadedDut(path string, sigs []dut.Signal, insts []dut.Instance, probes []string) (*LoadedDut, error) {
	root, err := buildHierarchy(sigs, insts)
	if err != nil {
		return nil, err
	}
	d := newLoadedDut(path, root, sigs)
	return d.withProbes(d.reconcile(probes)), nil
}

// Probes returns the sorted list of probed signal paths.
//
func (d *LoadedDut) Probes() []string {
	return append([]string(nil), d.probes...)
}

// IsProbed reports whether the signal at path is probed.
//
func (d *LoadedDut) IsProbed(path string) bool {
	i := sort.SearchStrings(d.probes, path)
	return i < len(d.probes) && d.probes[i] == path
}

// Signal returns the signal with the given full path.
//
func (d *LoadedDut) Signal(path string) (dut.Signal, bool) {
	s, ok := d.signals[path]
	return s, ok
}

// Signals returns all signals sorted by path.
//
func (d *LoadedDut) Signals() []dut.Signal {
	out := make([]dut.Signal, 0, len(d.signals))
	for _, s := range d.signals {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Resolve returns the signal named name, which is either a full signal path or
// a path relative to the root instance ("in" for "top.in").
//
func (d *LoadedDut) Resolve(name string) (dut.Signal, bool) {
	if s, ok := d.signals[name]; ok {
		return s, true
	}
	if d.Root != nil && d.Root.Path != "" {
		s, ok := d.signals[d.Root.Path+"."+name]
		return s, ok
	}
	return dut.Signal{}, false
}

// withProbes returns a copy of d with the given probe set.
func (d *LoadedDut) withProbes(probes []string) *LoadedDut {
	nd := *d
	nd.probes = sortedSet(probes)
	return &nd
}

// reconcile returns the paths of probes that resolve to readable signals in d.
func (d *LoadedDut) reconcile(probes []string) []string {
	var out []string
	for _, p := range probes {
		if s, ok := d.signals[p]; ok && s.Readable {
			out = append(out, p)
		}
	}
	return out
}

func sortedSet(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	j := 0
	for i := range out {
		if i > 0 && out[i] == out[j-1] {
			continue
		}
		out[j] = out[i]
		j++
	}
	return out[:j]
}

func splitPath(p string) (parent, name string) {
	if i := strings.LastIndexByte(p, '.'); i >= 0 {
		return p[:i], p[i+1:]
	}
	return "", p
}

func validPath(p string) bool {
	if p == "" {
		return false
	}
	for _, c := range strings.Split(p, ".") {
		if c == "" {
			return false
		}
	}
	return true
}

// buildHierarchy groups signals on their hierarchical prefixes. insts
// optionally provides module names and instances without signals.
//
// If every signal and instance path starts with the same component, that
// component is the root instance. Otherwise a synthetic root with an empty
// path holds everything.
func buildHierarchy(sigs []dut.Signal, insts []dut.Instance) (*InstanceNode, error) {
	if len(sigs) == 0 {
		return nil, errors.New("design has no signals")
	}
	seen := make(map[string]bool, len(sigs))
	for _, s := range sigs {
		if !validPath(s.Path) {
			return nil, errors.Errorf("invalid signal path %q", s.Path)
		}
		if seen[s.Path] {
			return nil, errors.Errorf("duplicate signal %s", s.Path)
		}
		seen[s.Path] = true
	}
	for _, in := range insts {
		if !validPath(in.Path) {
			return nil, errors.Errorf("invalid instance path %q", in.Path)
		}
	}

	rootName := ""
	first := func(p string) string {
		if i := strings.IndexByte(p, '.'); i >= 0 {
			return p[:i]
		}
		return p
	}
	common := true
	for i, s := range sigs {
		parent, _ := splitPath(s.Path)
		if parent == "" {
			common = false
			break
		}
		if i == 0 {
			rootName = first(parent)
		} else if first(parent) != rootName {
			common = false
			break
		}
	}
	for _, in := range insts {
		if first(in.Path) != rootName {
			common = false
		}
	}

	modules := make(map[string]string, len(insts))
	for _, in := range insts {
		modules[in.Path] = in.Module
	}

	var root *InstanceNode
	if common {
		root = &InstanceNode{Name: rootName, Module: rootName, Path: rootName}
	} else {
		root = &InstanceNode{Name: SyntheticRoot, Module: SyntheticRoot}
	}
	if m := modules[root.Path]; m != "" && root.Path != "" {
		root.Module = m
	}
	nodes := map[string]*InstanceNode{root.Path: root}

	var node func(path string) *InstanceNode
	node = func(path string) *InstanceNode {
		if n, ok := nodes[path]; ok {
			return n
		}
		parentPath, name := splitPath(path)
		parent := node(parentPath)
		n := &InstanceNode{Name: name, Module: name, Path: path}
		if m := modules[path]; m != "" {
			n.Module = m
		}
		parent.Children = append(parent.Children, n)
		nodes[path] = n
		return n
	}

	for _, in := range insts {
		node(in.Path)
	}
	for _, s := range sigs {
		parent, _ := splitPath(s.Path)
		n := node(parent)
		n.Signals = append(n.Signals, s)
	}
	return root, nil
}
