// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hier implements the view model of the instance hierarchy: a
// browsable tree of module instances and signals with per-signal probe
// selection state.
//
// The tree is stored in an arena of slots addressed by ID. Each slot carries
// its own lock so that a render pass and an input or listener callback touch
// the tree concurrently without a global lock. Traversals read slots by ID and
// never hold a slot lock while visiting another slot.
//
package hier

import (
	"sort"
	"sync"

	"github.com/db47h/hwdbg"
)

// ID addresses a slot in a Model. IDs are only valid until the next Load.
//
type ID int

// Kind tells nodes from leaves.
//
type Kind int

// Slot kinds.
//
const (
	Node Kind = iota // module instance
	Leaf             // signal
)

// Marker is the pending probe change of a leaf.
//
type Marker int

// Marker values.
//
const (
	NotMarked Marker = iota
	MarkedForAdd
	MarkedForRemove
)

func (m Marker) String() string {
	switch m {
	case MarkedForAdd:
		return "+"
	case MarkedForRemove:
		return "-"
	}
	return " "
}

type slot struct {
	// set on Load, read only afterwards
	kind     Kind
	name     string
	module   string
	path     string
	width    int
	depth    int
	leaves   []ID
	children []ID

	mu       sync.RWMutex
	expanded bool
	marker   Marker
	probed   bool
}

// A Row is one line of the flattened visible tree.
//
type Row struct {
	ID       ID
	Kind     Kind
	Depth    int
	Name     string
	Module   string // nodes only
	Path     string
	Width    int // leaves only
	Expanded bool
	Marker   Marker
	Probed   bool
}

// Model is the hierarchy view model. The zero value is an empty model ready
// to use.
//
type Model struct {
	mu     sync.RWMutex // guards the arena, not the slots
	slots  []*slot
	leaves map[string]ID
	dut    *hwdbg.LoadedDut

	pmu    sync.Mutex // pending sets; acquired before any slot lock
	add    map[string]bool
	remove map[string]bool
}

// Load rebuilds the model from d. Every node starts collapsed and every marker
// cleared.
//
func (m *Model) Load(d *hwdbg.LoadedDut) {
	var slots []*slot
	leaves := make(map[string]ID)
	if d != nil && d.Root != nil {
		var mirror func(n *hwdbg.InstanceNode, depth int) ID
		mirror = func(n *hwdbg.InstanceNode, depth int) ID {
			id := ID(len(slots))
			s := &slot{kind: Node, name: n.Name, module: n.Module, path: n.Path, depth: depth}
			slots = append(slots, s)
			for _, sig := range n.Signals {
				lid := ID(len(slots))
				slots = append(slots, &slot{
					kind:   Leaf,
					name:   sig.Name(),
					path:   sig.Path,
					width:  sig.Width,
					depth:  depth + 1,
					probed: d.IsProbed(sig.Path),
				})
				s.leaves = append(s.leaves, lid)
				leaves[sig.Path] = lid
			}
			for _, c := range n.Children {
				s.children = append(s.children, mirror(c, depth+1))
			}
			return id
		}
		mirror(d.Root, 0)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pmu.Lock()
	defer m.pmu.Unlock()
	m.slots, m.leaves, m.dut = slots, leaves, d
	m.add, m.remove = nil, nil
}

// Dut returns the snapshot the model was last loaded or reconciled with.
//
func (m *Model) Dut() *hwdbg.LoadedDut {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dut
}

// Len returns the number of slots, visible or not.
//
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.slots)
}

// Lookup returns the ID of the leaf for the signal path.
//
func (m *Model) Lookup(path string) (ID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.leaves[path]
	return id, ok
}

func (m *Model) slot(id ID) *slot {
	if id < 0 || int(id) >= len(m.slots) {
		return nil
	}
	return m.slots[id]
}

func (s *slot) row(id ID) Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Row{
		ID:       id,
		Kind:     s.kind,
		Depth:    s.depth,
		Name:     s.name,
		Module:   s.module,
		Path:     s.path,
		Width:    s.width,
		Expanded: s.expanded,
		Marker:   s.marker,
		Probed:   s.probed,
	}
}

// Row returns the row for id.
//
func (m *Model) Row(id ID) (Row, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.slot(id)
	if s == nil {
		return Row{}, false
	}
	return s.row(id), true
}

// Rows flattens the visible tree depth first: a line for every reachable
// node, and for expanded nodes a line for each of its signals followed by its
// child subtrees.
//
func (m *Model) Rows() []Row {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.slots) == 0 {
		return nil
	}
	var rows []Row
	stack := []ID{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := m.slots[id]
		r := s.row(id)
		rows = append(rows, r)
		if r.Kind == Leaf || !r.Expanded {
			continue
		}
		for i := len(s.children) - 1; i >= 0; i-- {
			stack = append(stack, s.children[i])
		}
		for i := len(s.leaves) - 1; i >= 0; i-- {
			stack = append(stack, s.leaves[i])
		}
	}
	return rows
}

// Activate acts on the slot id: it toggles the expand flag of a node, or
// cycles the marker of a leaf from NotMarked to MarkedForAdd (or
// MarkedForRemove if the signal is probed) and back to NotMarked. It returns
// false if id is invalid.
//
func (m *Model) Activate(id ID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.slot(id)
	if s == nil {
		return false
	}
	if s.kind == Node {
		s.mu.Lock()
		s.expanded = !s.expanded
		s.mu.Unlock()
		return true
	}

	m.pmu.Lock()
	defer m.pmu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.marker != NotMarked:
		s.marker = NotMarked
		delete(m.add, s.path)
		delete(m.remove, s.path)
	case s.probed:
		s.marker = MarkedForRemove
		m.remove = set(m.remove, s.path)
	default:
		s.marker = MarkedForAdd
		m.add = set(m.add, s.path)
	}
	return true
}

func set(m map[string]bool, k string) map[string]bool {
	if m == nil {
		m = make(map[string]bool)
	}
	m[k] = true
	return m
}

func keys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Pending returns the sorted paths marked for addition and for removal.
//
func (m *Model) Pending() (add, remove []string) {
	m.pmu.Lock()
	defer m.pmu.Unlock()
	return keys(m.add), keys(m.remove)
}

// Request returns the ModifyProbedPoints request applying the pending
// changes, or false if there are none.
//
func (m *Model) Request() (hwdbg.ModifyProbedPoints, bool) {
	add, remove := m.Pending()
	if len(add) == 0 && len(remove) == 0 {
		return hwdbg.ModifyProbedPoints{}, false
	}
	return hwdbg.ModifyProbedPoints{Add: add, Remove: remove}, true
}

// Reconcile updates the probed flags of every leaf from d's probe set and
// clears all markers and pending changes. d must describe the loaded design;
// use Load for a new design.
//
func (m *Model) Reconcile(d *hwdbg.LoadedDut) {
	if d == nil {
		return
	}
	m.mu.Lock()
	m.dut = d
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	m.pmu.Lock()
	defer m.pmu.Unlock()
	for _, s := range m.slots {
		if s.kind != Leaf {
			continue
		}
		s.mu.Lock()
		s.probed = d.IsProbed(s.path)
		s.marker = NotMarked
		s.mu.Unlock()
	}
	m.add, m.remove = nil, nil
}

// OnResponse implements hwdbg.Listener: successful loads rebuild the model,
// successful probe changes reconcile it.
//
func (m *Model) OnResponse(r hwdbg.Response) {
	switch r := r.(type) {
	case hwdbg.LoadResult:
		if r.Err == nil {
			m.Load(r.Dut)
		}
	case hwdbg.ModifyProbedPointsResult:
		if r.Err == nil {
			m.Reconcile(r.Dut)
		}
	}
}
