// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dut

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Options are passed to design constructors.
//
type Options struct {
	// Workers is the number of goroutines used by simulation kernels that
	// support parallel evaluation. 0 means GOMAXPROCS.
	Workers int
	// MaxSettle bounds the number of kernel steps per time unit. 0 lets the
	// design pick a bound.
	MaxSettle int
}

// An OpenFunc instantiates a registered design.
//
type OpenFunc func(o Options) (DUT, error)

// Registry is a Loader that resolves paths to native plugins or to designs
// registered by name.
//
// Load resolves a path in this order:
//
//	1. an existing file with a ".so" extension is opened as a Go plugin
//	   (see OpenPlugin).
//	2. the file stem (base name without extension) is looked up in the
//	   registered designs: "build/sample.so" loads the design "sample".
//
type Registry struct {
	mu      sync.RWMutex
	designs map[string]OpenFunc
	opts    Options
}

// NewRegistry returns an empty registry passing o to design constructors.
//
func NewRegistry(o Options) *Registry {
	return &Registry{designs: make(map[string]OpenFunc), opts: o}
}

// Register registers a design constructor under the given name.
//
func (r *Registry) Register(name string, open OpenFunc) error {
	if name == "" || open == nil {
		return errors.New("invalid design registration")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.designs[name]; ok {
		return errors.Errorf("design %q already registered", name)
	}
	r.designs[name] = open
	return nil
}

// Names returns the sorted list of registered design names.
//
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.designs))
	for n := range r.designs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load implements Loader.
//
func (r *Registry) Load(path string) (DUT, error) {
	if path == "" {
		return nil, errors.New("empty design path")
	}
	if filepath.Ext(path) == ".so" {
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			return OpenPlugin(path)
		}
	}
	name := stem(path)
	r.mu.RLock()
	open := r.designs[name]
	r.mu.RUnlock()
	if open == nil {
		return nil, errors.Errorf("%s: no such plugin or registered design %q", path, name)
	}
	d, err := open(r.opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open design %q", name)
	}
	return d, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
