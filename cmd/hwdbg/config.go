// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"io"
	"os"

	"github.com/db47h/hwdbg"
	"github.com/db47h/hwdbg/bitvec"
	"github.com/db47h/hwdbg/design"
	"github.com/db47h/hwdbg/dut"
	"github.com/db47h/hwdbg/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Config holds the command line settings shared by every subcommand.
//
type Config struct {
	LogFile  string
	LogLevel string
	Workers  int
	Settle   int
	Format   string
	Signed   bool
}

func (c *Config) bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.LogFile, "log", "", "write logs to `file` (default: discard)")
	fs.StringVar(&c.LogLevel, "log-level", "info", "log level: error, warn, info or debug")
	fs.IntVar(&c.Workers, "workers", 0, "simulation kernel worker goroutines (0: GOMAXPROCS)")
	fs.IntVar(&c.Settle, "settle", 0, "max kernel steps per time unit (0: automatic)")
	fs.StringVar(&c.Format, "format", "bin", "initial wave display format: bin, hex or dec")
	fs.BoolVar(&c.Signed, "signed", false, "display waves as two's complement")
}

// Validate checks every setting.
//
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := bitvec.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Workers < 0 {
		return errors.Errorf("invalid worker count %d", c.Workers)
	}
	if c.Settle < 0 {
		return errors.Errorf("invalid settle bound %d", c.Settle)
	}
	return nil
}

// Display returns the initial wave display options.
//
func (c *Config) Display() bitvec.Options {
	f, _ := bitvec.ParseFormat(c.Format)
	return bitvec.Options{Format: f, TwosComplement: c.Signed}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Logger opens the log destination. The returned closer must be closed once
// logging is done.
//
func (c *Config) Logger() (*logging.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if c.LogFile == "" {
		return logging.Discard(), nopCloser{}, nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open log file")
	}
	return logging.New(f, level, "hwdbg "), f, nil
}

// Simulator returns a simulator, not started, loading plugins and the
// built-in sample designs.
//
func (c *Config) Simulator(log *logging.Logger) (*hwdbg.Simulator, error) {
	r := dut.NewRegistry(dut.Options{Workers: c.Workers, MaxSettle: c.Settle})
	if err := design.RegisterSamples(r); err != nil {
		return nil, err
	}
	return hwdbg.New(hwdbg.WithLoader(r), hwdbg.WithLogger(log)), nil
}
