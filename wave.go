// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwdbg

import (
	"github.com/db47h/hwdbg/bitvec"
)

// A Wave is the recorded time series of samples of one probed signal, one
// sample per successful Run. Waves in responses are snapshots: their samples
// are never modified, and later samples are not visible through them.
//
type Wave struct {
	Signal  string
	Width   int
	Samples []bitvec.BitVec
}

// Len returns the number of samples in w.
//
func (w Wave) Len() int { return len(w.Samples) }

// Format returns sample i formatted with o. If o.Width is 0, the signal width
// is used. Out of range samples format as an empty string.
//
func (w Wave) Format(i int, o bitvec.Options) string {
	if i < 0 || i >= len(w.Samples) {
		return ""
	}
	if o.Width == 0 {
		o.Width = w.Width
	}
	return bitvec.Sprint(w.Samples[i], o)
}

func (w *Wave) append(v bitvec.BitVec) {
	w.Samples = append(w.Samples, v)
}

func (w *Wave) snapshot() Wave {
	return Wave{Signal: w.Signal, Width: w.Width, Samples: w.Samples[:len(w.Samples):len(w.Samples)]}
}
