// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwdbg

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/db47h/hwdbg/bitvec"
	"github.com/db47h/hwdbg/dut"
	"github.com/db47h/hwdbg/internal/logging"
	"github.com/pkg/errors"
)

// DefaultQueueSize is the default capacity of the request queue.
//
const DefaultQueueSize = 64

// An Option configures a Simulator.
//
type Option func(s *Simulator)

// WithLoader sets the loader used by Load requests.
//
func WithLoader(l dut.Loader) Option {
	return func(s *Simulator) { s.loader = l }
}

// WithLogger sets the simulator's logger.
//
func WithLogger(l *logging.Logger) Option {
	return func(s *Simulator) { s.log = l }
}

// WithQueueSize sets the capacity of the request queue.
//
func WithQueueSize(n int) Option {
	return func(s *Simulator) {
		if n >= 0 {
			s.queue = n
		}
	}
}

// Simulator owns the loaded design and executes requests against it, one at a
// time, in the order they were queued. The response to every request is
// passed to each registered Listener, in registration order, before the next
// request starts.
//
type Simulator struct {
	reqs        chan Request
	queue       int
	listeners   listeners
	loader      dut.Loader
	log         *logging.Logger
	done        chan struct{}
	start       sync.Once
	submit      sync.Mutex // orders Submit calls around Terminate
	terminating atomic.Bool

	// owned by the simulation goroutine
	dut    dut.DUT
	loaded *LoadedDut
	waves  map[string]*Wave
	time   uint64
}

// New returns a new Simulator. Call Start to run it.
//
func New(opts ...Option) *Simulator {
	s := &Simulator{
		queue: DefaultQueueSize,
		done:  make(chan struct{}),
		waves: make(map[string]*Wave),
	}
	for _, o := range opts {
		o(s)
	}
	if s.loader == nil {
		s.loader = dut.NewRegistry(dut.Options{})
	}
	s.reqs = make(chan Request, s.queue)
	return s
}

// Requests returns the sending end of the request queue, shared by every
// producer.
//
func (s *Simulator) Requests() chan<- Request { return s.reqs }

// Submit queues r. It fails with ErrTerminated once a Terminate request has
// been submitted or the simulator has exited. Every request Submit accepts is
// queued ahead of Terminate, so it is executed and answered.
//
func (s *Simulator) Submit(r Request) error {
	if r == nil {
		return errors.New("nil request")
	}
	s.submit.Lock()
	defer s.submit.Unlock()
	if s.terminating.Load() {
		return ErrTerminated
	}
	select {
	case s.reqs <- r:
	case <-s.done:
		return ErrTerminated
	}
	if _, ok := r.(Terminate); ok {
		s.terminating.Store(true)
	}
	return nil
}

// Register adds a listener. It is safe to call from any goroutine; the
// listener receives responses to requests executed after registration.
//
func (s *Simulator) Register(l Listener) {
	s.listeners.add(l)
}

// Start starts the simulation goroutine. Subsequent calls do nothing.
//
func (s *Simulator) Start() {
	s.start.Do(func() { go s.run() })
}

// Done returns a channel closed when the simulation goroutine has exited and
// the design has been closed.
//
func (s *Simulator) Done() <-chan struct{} { return s.done }

func (s *Simulator) run() {
	defer close(s.done)
	defer s.closeDUT()
	s.log.Infof("simulator started")
	for {
		req := <-s.reqs
		if _, ok := req.(Terminate); ok {
			s.terminating.Store(true)
			s.log.Infof("simulator terminating")
			s.drop()
			return
		}
		r := s.exec(req)
		if r == nil {
			continue
		}
		if err := r.Error(); err != nil {
			s.log.Warnf("%s", err)
		}
		for _, l := range s.listeners.snapshot() {
			s.notify(l, r)
		}
	}
}

// drop discards requests queued behind Terminate through Requests.
func (s *Simulator) drop() {
	for {
		select {
		case req := <-s.reqs:
			s.log.Warnf("dropped %T queued after terminate", req)
		default:
			return
		}
	}
}

func (s *Simulator) notify(l Listener, r Response) {
	defer func() {
		if p := recover(); p != nil {
			s.log.Errorf("listener %T panicked on %T: %v", l, r, p)
		}
	}()
	l.OnResponse(r)
}

func (s *Simulator) exec(req Request) Response {
	s.log.Debugf("request %T %+v", req, req)
	switch req := req.(type) {
	case Load:
		return s.load(req)
	case Run:
		return s.runFor(req)
	case SetSignal:
		return s.setSignal(req)
	case GetSignal:
		return s.getSignal(req)
	case ModifyProbedPoints:
		return s.modifyProbedPoints(req)
	default:
		s.log.Errorf("unsupported request %T", req)
		return nil
	}
}

// guard calls f and turns a panic into an error.
func guard(f func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("design panic: %v", p)
		}
	}()
	return f()
}

func (s *Simulator) closeDUT() {
	if s.dut == nil {
		return
	}
	if err := guard(s.dut.Close); err != nil {
		s.log.Warnf("close design: %v", err)
	}
	s.dut = nil
}

func (s *Simulator) load(req Load) Response {
	fail := func(err error) Response {
		return LoadResult{Req: req, Err: newError(LoadFailure, req.Path, err)}
	}
	var d dut.DUT
	err := guard(func() (err error) {
		d, err = s.loader.Load(req.Path)
		return err
	})
	if err != nil {
		return fail(err)
	}
	if d == nil {
		return fail(errors.New("loader returned no design"))
	}
	discard := func() {
		if err := guard(d.Close); err != nil {
			s.log.Warnf("close design %s: %v", req.Path, err)
		}
	}

	var sigs []dut.Signal
	var insts []dut.Instance
	err = guard(func() (err error) {
		if sigs, err = d.Query(); err != nil {
			return errors.Wrap(err, "query signals")
		}
		if desc, ok := d.(dut.Describer); ok {
			insts = desc.Instances()
		}
		return nil
	})
	if err != nil {
		discard()
		return fail(err)
	}
	var prev []string
	if s.loaded != nil {
		prev = s.loaded.probes
	}
	loaded, err := NewLoadedDut(req.Path, sigs, insts, prev)
	if err != nil {
		discard()
		return fail(err)
	}
	if dropped := len(prev) - len(loaded.probes); dropped > 0 {
		s.log.Infof("%d probe points dropped on reload of %s", dropped, req.Path)
	}

	s.closeDUT()
	s.dut = d
	s.loaded = loaded
	s.time = 0
	s.waves = make(map[string]*Wave, len(loaded.probes))
	for _, p := range loaded.probes {
		s.addWave(p)
	}
	s.log.Infof("loaded %s: %d signals, root %s", req.Path, len(sigs), loaded.Root.Name)
	return LoadResult{Req: req, Dut: loaded}
}

func (s *Simulator) addWave(path string) {
	if _, ok := s.waves[path]; ok {
		return
	}
	sig, _ := s.loaded.Signal(path)
	s.waves[path] = &Wave{Signal: path, Width: sig.Width}
}

func (s *Simulator) snapshotWaves() []Wave {
	ws := make([]Wave, 0, len(s.waves))
	for _, w := range s.waves {
		ws = append(ws, w.snapshot())
	}
	sort.Slice(ws, func(i, j int) bool { return ws[i].Signal < ws[j].Signal })
	return ws
}

func (s *Simulator) runFor(req Run) Response {
	if s.dut == nil {
		return RunResult{Req: req, Time: s.time, Err: newError(RunFailure, "", ErrNotLoaded)}
	}
	var t uint64
	err := guard(func() (err error) {
		t, err = s.dut.Run(req.Duration)
		return err
	})
	if err != nil {
		return RunResult{Req: req, Time: s.time, Err: newError(RunFailure, "", err)}
	}
	// the design has advanced even if sampling fails below.
	s.time = t

	samples := make(map[string]bitvec.BitVec, len(s.waves))
	for path := range s.waves {
		var v bitvec.BitVec
		err := guard(func() (err error) {
			v, err = s.dut.Get(path)
			return err
		})
		if err != nil {
			return RunResult{Req: req, Time: t, Err: newError(RunFailure, path, errors.Wrap(err, "sample probe"))}
		}
		samples[path] = v
	}
	for path, v := range samples {
		s.waves[path].append(v)
	}
	return RunResult{Req: req, Time: t, Waves: s.snapshotWaves()}
}

// resolve returns the signal name refers to, checking capabilities.
func (s *Simulator) resolve(name string, write bool) (dut.Signal, error) {
	if s.dut == nil {
		return dut.Signal{}, ErrNotLoaded
	}
	sig, ok := s.loaded.Resolve(name)
	switch {
	case !ok:
		return sig, errors.New("no such signal")
	case write && !sig.Writable:
		return sig, errors.Errorf("signal %s is read only", sig.Path)
	case !write && !sig.Readable:
		return sig, errors.Errorf("signal %s is not readable", sig.Path)
	}
	return sig, nil
}

func (s *Simulator) setSignal(req SetSignal) Response {
	fail := func(err error) Response {
		return SetSignalResult{Req: req, Err: newError(SignalFailure, req.Name, err)}
	}
	sig, err := s.resolve(req.Name, true)
	if err != nil {
		return fail(err)
	}
	v := req.Value
	if v.Len() > sig.Width && !v.ZeroFrom(sig.Width) {
		return fail(errors.Errorf("value %s does not fit in %d bits", v, sig.Width))
	}
	v = v.Resize(sig.Width, false)
	if err = guard(func() error { return s.dut.Set(sig.Path, v) }); err != nil {
		return fail(err)
	}
	return SetSignalResult{Req: req, Signal: sig.Path}
}

func (s *Simulator) getSignal(req GetSignal) Response {
	fail := func(err error) Response {
		return GetSignalResult{Req: req, Err: newError(SignalFailure, req.Name, err)}
	}
	sig, err := s.resolve(req.Name, false)
	if err != nil {
		return fail(err)
	}
	var v bitvec.BitVec
	err = guard(func() (err error) {
		v, err = s.dut.Get(sig.Path)
		return err
	})
	if err != nil {
		return fail(err)
	}
	return GetSignalResult{Req: req, Signal: sig.Path, Value: v}
}

func (s *Simulator) modifyProbedPoints(req ModifyProbedPoints) Response {
	if s.dut == nil {
		return ModifyProbedPointsResult{Req: req, Err: newError(ProbeFailure, "", ErrNotLoaded)}
	}
	// validate everything before touching the probe set.
	add := make([]string, 0, len(req.Add))
	for _, p := range req.Add {
		sig, err := s.resolve(p, false)
		if err != nil {
			return ModifyProbedPointsResult{Req: req, Err: newError(ProbeFailure, p, err)}
		}
		add = append(add, sig.Path)
	}

	set := make(map[string]bool)
	for _, p := range s.loaded.probes {
		set[p] = true
	}
	for _, p := range add {
		set[p] = true
	}
	for _, p := range req.Remove {
		if sig, ok := s.loaded.Resolve(p); ok {
			p = sig.Path
		}
		delete(set, p)
	}
	probes := make([]string, 0, len(set))
	for p := range set {
		probes = append(probes, p)
	}

	s.loaded = s.loaded.withProbes(probes)
	for path := range s.waves {
		if !set[path] {
			delete(s.waves, path)
		}
	}
	for _, p := range s.loaded.probes {
		s.addWave(p)
	}
	return ModifyProbedPointsResult{Req: req, Dut: s.loaded, Waves: s.snapshotWaves()}
}
