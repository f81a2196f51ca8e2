// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package design elaborates hierarchical modules built from hwlib parts into a
// runnable dut.DUT.
//
// A Module declares its ports, named internal wires, leaf parts and sub-module
// instances. Elaboration flattens the hierarchy into a single hwsim circuit
// while recording every port and wire of every instance as a signal with a
// dot separated path, like "top.adder_inst.d". Inputs of the top module are
// driven by held values written through Set; every other signal is read only.
//
// One unit of simulation time is one settled evaluation of the circuit.
//
package design

import (
	"sort"
	"strings"
	"sync"

	"github.com/db47h/hwdbg/bitvec"
	"github.com/db47h/hwdbg/dut"
	"github.com/db47h/hwdbg/hwlib"
	"github.com/db47h/hwdbg/hwsim"
	"github.com/pkg/errors"
)

// A Module is a design unit.
//
// Inputs, Outputs and Wires use the hwsim.ParseIO syntax, except that a
// bus declaration like "in[8]" names a single 8 bits signal "in".
//
type Module struct {
	Name      string
	Inputs    string
	Outputs   string
	Wires     string
	Parts     []hwsim.Part
	Instances []Instance
}

// An Instance places a sub-module in its parent. Conns connects ports of the
// sub-module (keys) to ports or wires of the parent (values), with the
// hwsim.ParseConnections syntax. Unconnected inputs read zero.
//
type Instance struct {
	Name   string
	Module *Module
	Conns  string
}

type port struct {
	name  string
	width int
}

func parsePorts(spec string) ([]port, error) {
	var ps []port
	for _, decl := range strings.Split(spec, ",") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		n, w, err := hwsim.ParseBus(decl)
		if err != nil {
			return nil, err
		}
		ps = append(ps, port{n, w})
	}
	return ps, nil
}

type signal struct {
	dut.Signal
	pins []int
	held []bool // top level inputs only
}

// Design is an elaborated module hierarchy. It implements dut.DUT and
// dut.Describer and is safe for concurrent use.
//
type Design struct {
	mu        sync.Mutex
	c         *hwsim.Circuit
	maxSettle int
	time      uint64
	signals   []*signal
	index     map[string]*signal
	instances []dut.Instance
	closed    bool
}

// New elaborates m as the root instance name and returns the resulting design.
//
func New(m *Module, name string, o dut.Options) (*Design, error) {
	if m == nil {
		return nil, errors.New("nil module")
	}
	if name == "" {
		name = m.Name
	}
	d := &Design{
		maxSettle: o.MaxSettle,
		index:     make(map[string]*signal),
	}
	c, err := hwsim.NewCircuit(o.Workers, func(s *hwsim.Socket) ([]hwsim.Component, error) {
		return d.elaborate(s, m, name, true, map[*Module]bool{})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "elaborate %s", name)
	}
	d.c = c
	return d, nil
}

func (d *Design) addSignal(path string, width int, pins []int, top, input bool) (*signal, error) {
	if _, ok := d.index[path]; ok {
		return nil, errors.Errorf("duplicate signal %s", path)
	}
	sig := &signal{
		Signal: dut.Signal{Path: path, Width: width, Readable: true, Writable: top && input},
		pins:   pins,
	}
	if sig.Writable {
		sig.held = make([]bool, width)
	}
	d.signals = append(d.signals, sig)
	d.index[path] = sig
	return sig, nil
}

func (d *Design) elaborate(s *hwsim.Socket, m *Module, path string, top bool, stack map[*Module]bool) ([]hwsim.Component, error) {
	if stack[m] {
		return nil, errors.Errorf("%s: recursive instantiation of module %s", path, m.Name)
	}
	stack[m] = true
	defer delete(stack, m)

	d.instances = append(d.instances, dut.Instance{Path: path, Module: m.Name})

	var cs []hwsim.Component
	for _, decl := range []struct {
		spec  string
		input bool
	}{{m.Inputs, true}, {m.Outputs, false}, {m.Wires, false}} {
		ps, err := parsePorts(decl.spec)
		if err != nil {
			return nil, errors.Wrapf(err, "module %s", m.Name)
		}
		for _, p := range ps {
			sig, err := d.addSignal(path+"."+p.name, p.width, s.NewBus(p.name, p.width), top, decl.input)
			if err != nil {
				return nil, err
			}
			if sig.Writable {
				held := sig.held
				ups, err := s.Mount(hwlib.InputBus(p.width, func(bit int) bool { return held[bit] })("out=" + p.name))
				if err != nil {
					return nil, errors.Wrapf(err, "module %s", m.Name)
				}
				cs = append(cs, ups...)
			}
		}
	}

	for _, p := range m.Parts {
		ups, err := s.Mount(p)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", path)
		}
		cs = append(cs, ups...)
	}

	for _, inst := range m.Instances {
		ups, err := d.instantiate(s, inst, path, stack)
		if err != nil {
			return nil, err
		}
		cs = append(cs, ups...)
	}
	return cs, nil
}

func (d *Design) instantiate(s *hwsim.Socket, inst Instance, path string, stack map[*Module]bool) ([]hwsim.Component, error) {
	ipath := path + "." + inst.Name
	if inst.Module == nil || inst.Name == "" {
		return nil, errors.Errorf("%s: invalid instance", ipath)
	}
	w, err := hwsim.ParseConnections(inst.Conns)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", ipath)
	}
	ins, err := parsePorts(inst.Module.Inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "module %s", inst.Module.Name)
	}
	outs, err := parsePorts(inst.Module.Outputs)
	if err != nil {
		return nil, errors.Wrapf(err, "module %s", inst.Module.Name)
	}

	sub := s.Sub()
	bind := func(ps []port, input bool) error {
		for _, p := range ps {
			v, ok := w[p.name]
			if !ok {
				if input {
					sub.BindBus(p.name, constPins(s, p.width))
				}
				continue
			}
			delete(w, p.name)
			if !input && (v == hwsim.True || v == hwsim.False) {
				return errors.Errorf("%s.%s: output port connected to constant %q", ipath, p.name, v)
			}
			pins, err := s.Resolve(v, p.width)
			if err != nil {
				return errors.Wrapf(err, "%s.%s", ipath, p.name)
			}
			sub.BindBus(p.name, pins)
		}
		return nil
	}
	if err = bind(ins, true); err != nil {
		return nil, err
	}
	if err = bind(outs, false); err != nil {
		return nil, err
	}
	if len(w) > 0 {
		keys := make([]string, 0, len(w))
		for k := range w {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, errors.Errorf("%s: module %s has no port %s", ipath, inst.Module.Name, keys[0])
	}
	return d.elaborate(sub, inst.Module, ipath, false, stack)
}

// constPins returns width pins tied to False.
func constPins(s *hwsim.Socket, width int) []int {
	f := s.Pin(hwsim.False)
	pins := make([]int, width)
	for i := range pins {
		pins[i] = f
	}
	return pins
}

func (d *Design) lookup(path string) (*signal, error) {
	sig, ok := d.index[path]
	if !ok {
		return nil, errors.Errorf("no such signal %s", path)
	}
	return sig, nil
}

// Query implements dut.DUT.
//
func (d *Design) Query() ([]dut.Signal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, errors.New("design closed")
	}
	out := make([]dut.Signal, len(d.signals))
	for i, s := range d.signals {
		out[i] = s.Signal
	}
	return out, nil
}

// Instances implements dut.Describer.
//
func (d *Design) Instances() []dut.Instance {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dut.Instance(nil), d.instances...)
}

// Run implements dut.DUT. Each time unit settles the circuit.
//
func (d *Design) Run(duration uint64) (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return d.time, errors.New("design closed")
	}
	for i := uint64(0); i < duration; i++ {
		if _, err := d.c.Settle(d.maxSettle); err != nil {
			return d.time, errors.Wrapf(err, "at time %d", d.time)
		}
		d.time++
	}
	return d.time, nil
}

// Set implements dut.DUT. Only inputs of the root module are writable. The
// new value is seen by the circuit on the next Run.
//
func (d *Design) Set(path string, v bitvec.BitVec) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errors.New("design closed")
	}
	sig, err := d.lookup(path)
	if err != nil {
		return err
	}
	if !sig.Writable {
		return errors.Errorf("signal %s is not writable", path)
	}
	if v.Len() != sig.Width {
		return errors.Errorf("signal %s is %d bits wide, got %d bits", path, sig.Width, v.Len())
	}
	for i := range sig.held {
		sig.held[i] = v.Bit(i)
	}
	return nil
}

// Get implements dut.DUT.
//
func (d *Design) Get(path string) (bitvec.BitVec, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return bitvec.BitVec{}, errors.New("design closed")
	}
	sig, err := d.lookup(path)
	if err != nil {
		return bitvec.BitVec{}, err
	}
	return bitvec.FromBits(d.c.GetBus(sig.pins)...), nil
}

// Close implements dut.DUT. It stops the circuit's worker goroutines.
//
func (d *Design) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		d.c.Dispose()
	}
	return nil
}
