// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/db47h/hwdbg"
	"github.com/db47h/hwdbg/interp"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newBatchCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "batch [script]",
		Short: "Run debugger commands from a script or stdin",
		Long: `batch reads one command per line, from script or from stdin, executes it
and prints the outcome. Empty lines and lines starting with # are skipped.
After a run, the probed waves are printed with the --format and --signed
settings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) > 0 {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(err, "open script")
				}
				defer f.Close()
				in = f
			}
			log, closer, err := cfg.Logger()
			if err != nil {
				return err
			}
			defer closer.Close()
			sim, err := cfg.Simulator(log)
			if err != nil {
				return err
			}
			return runBatch(sim, in, cmd.OutOrStdout(), cfg)
		},
	}
}

// runBatch executes the script read from r, one request at a time.
func runBatch(sim *hwdbg.Simulator, r io.Reader, w io.Writer, cfg *Config) error {
	resps := make(chan hwdbg.Response, 1)
	sim.Register(hwdbg.ListenerFunc(func(r hwdbg.Response) { resps <- r }))
	sim.Start()
	defer func() {
		_ = sim.Submit(hwdbg.Terminate{})
		<-sim.Done()
	}()

	display := cfg.Display()
	failed := 0
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sc.Text()), ":"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, err := interp.Parse(line)
		if err != nil {
			failed++
			fmt.Fprintf(w, "%d: %v\n", n, err)
			continue
		}
		req := hwdbg.RequestFor(cmd)
		if req == nil {
			continue
		}
		if err = sim.Submit(req); err != nil {
			return err
		}
		resp := <-resps
		if resp.Error() != nil {
			failed++
		}
		fmt.Fprintf(w, "%d: %s\n", n, hwdbg.Describe(resp))
		if rr, ok := resp.(hwdbg.RunResult); ok && rr.Err == nil {
			for _, wv := range rr.Waves {
				vals := make([]string, wv.Len())
				for i := range vals {
					vals[i] = wv.Format(i, display)
				}
				fmt.Fprintf(w, "   %s: %s\n", wv.Signal, strings.Join(vals, " "))
			}
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "read script")
	}
	if failed > 0 {
		return errors.Errorf("%d command(s) failed", failed)
	}
	return nil
}
