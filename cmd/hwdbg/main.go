// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command hwdbg is an interactive debugger for hardware designs.
//
//	hwdbg [design]          start the terminal interface
//	hwdbg batch [script]    run debugger commands without a terminal
//
// A design is either a Go plugin (a .so file exporting NewDUT) or the name of
// a built-in design, like "sample.so".
//
package main

import (
	"os"

	"github.com/db47h/hwdbg"
	"github.com/db47h/hwdbg/tui"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cfg := new(Config)
	root := &cobra.Command{
		Use:   "hwdbg [design]",
		Short: "Interactive hardware design debugger",
		Long: `hwdbg browses the instance hierarchy of a design, probes signals, drives
simulation time and shows the resulting waves in the terminal.

Press : to enter a command (run, load, set, get, probe, unprobe), ? for help
and q to quit.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closer, err := cfg.Logger()
			if err != nil {
				return err
			}
			defer closer.Close()
			sim, err := cfg.Simulator(log)
			if err != nil {
				return err
			}
			sim.Start()
			c := tui.Config{Display: cfg.Display(), Log: log}
			if len(args) > 0 {
				c.Load = args[0]
			}
			return tui.New(sim, c).Run()
		},
	}
	cfg.bind(root.PersistentFlags())
	root.AddCommand(newBatchCmd(cfg))
	return root
}

var _ tui.Simulator = (*hwdbg.Simulator)(nil)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("hwdbg:", err)
		os.Exit(1)
	}
}
