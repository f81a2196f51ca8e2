// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package tui implements the interactive terminal front end of the debugger.
//
// Three actors share the component tree: the input actor (the bubbletea event
// loop) dispatches keys down the focus path, the render actor (Renderer)
// draws frames when notified, and the simulator invokes the components'
// listeners with every response. Each component guards its own state with a
// read/write lock.
//
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/db47h/hwdbg"
	"github.com/db47h/hwdbg/bitvec"
	"github.com/db47h/hwdbg/internal/logging"
)

// Config configures an App.
//
type Config struct {
	// Display sets the initial wave format and two's complement mode.
	Display bitvec.Options
	// Load, if not empty, is loaded on startup.
	Load string
	Log  *logging.Logger
	// ProgramOptions are passed to bubbletea. Defaults to the alternate screen.
	ProgramOptions []tea.ProgramOption
}

// App is the assembled user interface.
//
type App struct {
	n    *Notifier
	sim  Simulator
	root *Root
	term *Terminal
	cfg  Config
}

// New builds the component tree and registers its listeners with sim.
//
func New(sim Simulator, cfg Config) *App {
	n := NewNotifier()
	cmd := NewCommandLine(n, sim)
	hv := NewHierViewer(n, sim)
	wv := NewWaveViewer(n, cfg.Display)
	sim.Register(cmd)
	sim.Register(hv)
	sim.Register(wv)
	root := NewRoot(n, cmd, hv, wv)
	return &App{
		n:    n,
		sim:  sim,
		root: root,
		term: NewTerminal(root, cfg.ProgramOptions...),
		cfg:  cfg,
	}
}

// Root returns the root component.
//
func (a *App) Root() *Root { return a.root }

// Run runs the user interface until the quit key is pressed, then shuts down
// in order: the renderer stops, the simulator terminates and drains, and the
// terminal is restored.
//
func (a *App) Run() error {
	log := a.cfg.Log
	termc := make(chan error, 1)
	go func() { termc <- a.term.Run() }()
	rendered := make(chan struct{})
	go func() {
		NewRenderer(a.n, a.root, a.term).Run()
		close(rendered)
	}()

	if a.cfg.Load != "" {
		if err := a.sim.Submit(hwdbg.Load{Path: a.cfg.Load}); err != nil {
			log.Errorf("load %s: %v", a.cfg.Load, err)
		}
	}

	var err error
	select {
	case <-rendered:
	case err = <-termc:
		// terminal failure or killed program.
		termc = nil
		a.n.Quit()
		<-rendered
	}
	log.Infof("user interface stopped")

	if serr := a.sim.Submit(hwdbg.Terminate{}); serr != nil {
		log.Warnf("terminate: %v", serr)
	}
	<-a.sim.Done()
	log.Infof("simulator stopped")

	if termc != nil {
		a.term.Quit()
		err = <-termc
	}
	return err
}
