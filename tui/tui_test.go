package tui_test

import (
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/db47h/hwdbg"
	"github.com/db47h/hwdbg/bitvec"
	"github.com/db47h/hwdbg/dut"
	"github.com/db47h/hwdbg/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSim struct {
	mu   sync.Mutex
	reqs []hwdbg.Request
	ls   []hwdbg.Listener
	done chan struct{}
	err  error // returned by Submit when set
}

func newFakeSim() *fakeSim { return &fakeSim{done: make(chan struct{})} }

func (s *fakeSim) Submit(r hwdbg.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.reqs = append(s.reqs, r)
	if _, ok := r.(hwdbg.Terminate); ok {
		close(s.done)
	}
	return nil
}

func (s *fakeSim) Register(l hwdbg.Listener) {
	s.mu.Lock()
	s.ls = append(s.ls, l)
	s.mu.Unlock()
}

func (s *fakeSim) Done() <-chan struct{} { return s.done }

func (s *fakeSim) requests() []hwdbg.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]hwdbg.Request(nil), s.reqs...)
}

func (s *fakeSim) respond(r hwdbg.Response) {
	s.mu.Lock()
	ls := s.ls
	s.mu.Unlock()
	for _, l := range ls {
		l.OnResponse(r)
	}
}

var specialKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"backspace": tea.KeyBackspace,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	" ":         tea.KeySpace,
}

func keyMsg(s string) tea.KeyMsg {
	if t, ok := specialKeys[s]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText sends each rune of s as a key press.
func typeText(c tui.Component, s string) {
	for _, r := range s {
		c.HandleKey(keyMsg(string(r)))
	}
}

func testDut(t *testing.T, probes ...string) *hwdbg.LoadedDut {
	t.Helper()
	d, err := hwdbg.NewLoadedDut("design.so", []dut.Signal{
		{Path: "top.in", Width: 8, Readable: true, Writable: true},
		{Path: "top.out", Width: 8, Readable: true},
		{Path: "top.adder_inst.d", Width: 8, Readable: true},
	}, nil, probes)
	require.NoError(t, err)
	return d
}

func TestNotifier(t *testing.T) {
	n := tui.NewNotifier()
	for i := 0; i < 10; i++ {
		n.Render()
	}
	assert.Equal(t, tui.Render, n.Wait())
	select {
	case <-n.Done():
		t.Fatal("not quitting")
	default:
	}

	n.Render()
	n.Quit()
	n.Quit()
	assert.Equal(t, tui.Quit, n.Wait(), "quit wins over a pending render")
	assert.Equal(t, tui.Quit, n.Wait())

	n = tui.NewNotifier()
	got := make(chan tui.Message)
	go func() { got <- n.Wait() }()
	n.Quit()
	select {
	case m := <-got:
		assert.Equal(t, tui.Quit, m)
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return")
	}
}

func TestCommandLine(t *testing.T) {
	sim := newFakeSim()
	c := tui.NewCommandLine(tui.NewNotifier(), sim)
	sim.Register(c)

	assert.Equal(t, tui.NotHandled, c.HandleKey(keyMsg("x")))
	assert.Equal(t, tui.Handled, c.HandleKey(keyMsg(":")))
	assert.True(t, c.Active())
	typeText(c, "run 55")
	c.HandleKey(keyMsg("backspace"))
	assert.Contains(t, c.View(40, 1), ":run 5_")
	assert.Equal(t, tui.ReleaseFocus, c.HandleKey(keyMsg("enter")))
	assert.False(t, c.Active())
	assert.Equal(t, []hwdbg.Request{hwdbg.Run{Duration: 5}}, sim.requests())

	sim.respond(hwdbg.RunResult{Req: hwdbg.Run{Duration: 5}, Time: 5})
	h := c.History()
	require.Len(t, h, 2)
	assert.Equal(t, tui.Entry{Text: "executed: run 5"}, h[0])
	assert.Equal(t, tui.Entry{Text: "run: current time = 5"}, h[1])
	assert.Contains(t, c.View(40, 1), "run: current time = 5")

	// syntax errors are shown, nothing is submitted.
	c.HandleKey(keyMsg(":"))
	typeText(c, "jump 3")
	c.HandleKey(keyMsg("enter"))
	h = c.History()
	assert.True(t, h[len(h)-1].Err)
	assert.Contains(t, h[len(h)-1].Text, "unknown command")
	assert.Len(t, sim.requests(), 1)

	// esc cancels
	c.HandleKey(keyMsg(":"))
	typeText(c, "load x.so")
	assert.Equal(t, tui.ReleaseFocus, c.HandleKey(keyMsg("esc")))
	assert.Len(t, sim.requests(), 1)

	// recall
	c.HandleKey(keyMsg(":"))
	c.HandleKey(keyMsg("up"))
	c.HandleKey(keyMsg("enter"))
	assert.Equal(t, hwdbg.Run{Duration: 5}, sim.requests()[1])

	c.HandleKey(keyMsg(":"))
	typeText(c, "set in 10")
	c.HandleKey(keyMsg("enter"))
	assert.Equal(t, hwdbg.SetSignal{Name: "in", Value: bitvec.MustParse("10")}, sim.requests()[2])
}

func TestHierViewer(t *testing.T) {
	sim := newFakeSim()
	h := tui.NewHierViewer(tui.NewNotifier(), sim)
	assert.Contains(t, h.View(40, 3), "design not loaded")
	_, ok := h.Selected()
	assert.False(t, ok)

	h.OnResponse(hwdbg.LoadResult{Req: hwdbg.Load{Path: "design.so"}, Dut: testDut(t, "top.out")})
	r, ok := h.Selected()
	require.True(t, ok)
	assert.Equal(t, "top", r.Name)

	h.HandleKey(keyMsg("enter")) // expand top
	h.HandleKey(keyMsg("j"))     // top.in
	r, _ = h.Selected()
	assert.Equal(t, "top.in", r.Path)
	h.HandleKey(keyMsg("enter"))
	h.HandleKey(keyMsg("j")) // top.out
	h.HandleKey(keyMsg("enter"))
	assert.Equal(t, tui.NotHandled, h.HandleKey(keyMsg("x")))

	v := h.View(40, 10)
	assert.Contains(t, v, "in")
	assert.Contains(t, v, "adder_inst")

	h.HandleKey(keyMsg("a"))
	reqs := sim.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, hwdbg.ModifyProbedPoints{Add: []string{"top.in"}, Remove: []string{"top.out"}}, reqs[0])

	h.OnResponse(hwdbg.ModifyProbedPointsResult{Req: reqs[0].(hwdbg.ModifyProbedPoints), Dut: testDut(t, "top.in")})
	add, remove := h.Model().Pending()
	assert.Empty(t, add)
	assert.Empty(t, remove)
	id, _ := h.Model().Lookup("top.in")
	row, _ := h.Model().Row(id)
	assert.True(t, row.Probed)

	// nothing pending, nothing submitted.
	h.HandleKey(keyMsg("a"))
	assert.Len(t, sim.requests(), 1)
	assert.NoError(t, h.Err())

	// a rejected submission is shown, not dropped.
	sim.mu.Lock()
	sim.err = hwdbg.ErrTerminated
	sim.mu.Unlock()
	h.HandleKey(keyMsg("enter")) // top.out marked for add again
	h.HandleKey(keyMsg("a"))
	assert.Equal(t, hwdbg.ErrTerminated, h.Err())
	assert.Contains(t, h.View(60, 10), "probe: "+hwdbg.ErrTerminated.Error())
	assert.Contains(t, h.View(60, 2), "probe: ")
	assert.Len(t, sim.requests(), 1)

	h.OnResponse(hwdbg.LoadResult{Req: hwdbg.Load{Path: "design.so"}, Dut: testDut(t, "top.out")})
	assert.NoError(t, h.Err())
	assert.NotContains(t, h.View(60, 10), "probe: ")
}

func TestWaveViewer(t *testing.T) {
	w := tui.NewWaveViewer(tui.NewNotifier(), bitvec.Options{Format: bitvec.Binary})
	assert.Contains(t, w.View(60, 3), "no probe points")

	w.OnResponse(hwdbg.LoadResult{Dut: testDut(t, "top.out")})
	assert.Equal(t, []string{""}, w.Values())

	wave := hwdbg.Wave{Signal: "top.out", Width: 4, Samples: []bitvec.BitVec{
		bitvec.MustParse("0001"), bitvec.MustParse("1110"), bitvec.MustParse("10"),
	}}
	w.OnResponse(hwdbg.RunResult{Time: 3, Waves: []hwdbg.Wave{wave}})
	assert.Equal(t, 2, w.Cursor(), "follows the latest sample")
	assert.Equal(t, []string{"0010"}, w.Values())

	w.HandleKey(keyMsg("left"))
	assert.Equal(t, []string{"1110"}, w.Values())
	w.HandleKey(keyMsg("f"))
	assert.Equal(t, bitvec.Hex, w.Options().Format)
	assert.Equal(t, []string{"e"}, w.Values())
	w.HandleKey(keyMsg("f"))
	assert.Equal(t, []string{"14"}, w.Values())
	w.HandleKey(keyMsg("t"))
	assert.Equal(t, []string{"-2"}, w.Values())

	// not following: new samples keep the cursor.
	wave.Samples = append(wave.Samples[:3:3], bitvec.MustParse("0000"))
	w.OnResponse(hwdbg.RunResult{Time: 4, Waves: []hwdbg.Wave{wave}})
	assert.Equal(t, 1, w.Cursor())
	w.HandleKey(keyMsg("right"))
	w.HandleKey(keyMsg("right"))
	assert.Equal(t, 3, w.Cursor())

	v := w.View(60, 4)
	assert.Contains(t, v, "time 4")
	assert.Contains(t, v, "top.out")
	assert.Contains(t, v, "signed")

	// failures change nothing
	w.OnResponse(hwdbg.RunResult{Err: &hwdbg.Error{Kind: hwdbg.RunFailure}})
	assert.Equal(t, 3, w.Cursor())
}

func newApp(t *testing.T) (*tui.Root, *fakeSim, *tui.Notifier) {
	sim := newFakeSim()
	n := tui.NewNotifier()
	root := tui.NewRoot(n, tui.NewCommandLine(n, sim), tui.NewHierViewer(n, sim), tui.NewWaveViewer(n, bitvec.Options{}))
	return root, sim, n
}

func TestRootFocus(t *testing.T) {
	root, sim, n := newApp(t)
	assert.Equal(t, tui.HierPane, root.Focus())
	root.HandleKey(keyMsg("tab"))
	assert.Equal(t, tui.WavePane, root.Focus())

	root.HandleKey(keyMsg(":"))
	assert.Equal(t, tui.CommandPane, root.Focus())
	typeText(root, "run 2 q") // q goes to the command line
	root.HandleKey(keyMsg("backspace"))
	root.HandleKey(keyMsg("backspace"))
	root.HandleKey(keyMsg("enter"))
	assert.Equal(t, tui.WavePane, root.Focus(), "focus restored")
	assert.Equal(t, []hwdbg.Request{hwdbg.Run{Duration: 2}}, sim.requests())

	// cancelling the command line returns to the pane it was opened from.
	root.HandleKey(keyMsg("tab"))
	assert.Equal(t, tui.HierPane, root.Focus())
	root.HandleKey(keyMsg(":"))
	assert.Equal(t, tui.CommandPane, root.Focus())
	root.HandleKey(keyMsg("esc"))
	assert.Equal(t, tui.HierPane, root.Focus())
	assert.Equal(t, tui.NotHandled, root.HandleKey(keyMsg("x")), "unbound keys reach the focused pane")
	assert.Len(t, sim.requests(), 1)

	root.HandleKey(keyMsg("?"))
	root.Resize(100, 30)
	w, h := root.Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 30, h)
	f := root.Frame()
	assert.Contains(t, f, "hierarchy")
	assert.Contains(t, f, "waves")

	root.HandleKey(keyMsg("q"))
	select {
	case <-n.Done():
	default:
		t.Fatal("q did not quit")
	}
}

func TestRenderer(t *testing.T) {
	root, _, n := newApp(t)
	frames := make(chan string, 16)
	r := tui.NewRenderer(n, root, tui.ScreenFunc(func(f string) { frames <- f }))
	done := make(chan struct{})
	go func() {
		r.Run()
		close(done)
	}()

	wait := func() string {
		select {
		case f := <-frames:
			return f
		case <-time.After(5 * time.Second):
			t.Fatal("no frame")
		}
		return ""
	}
	assert.Contains(t, wait(), "hierarchy", "initial frame")
	n.Render()
	assert.NotEmpty(t, wait())
	n.Quit()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("renderer did not quit")
	}
}
