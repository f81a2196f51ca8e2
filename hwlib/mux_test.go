package hwlib_test

import (
	"testing"

	hl "github.com/db47h/hwdbg/hwlib"
	hw "github.com/db47h/hwdbg/hwsim"
	"github.com/db47h/hwdbg/hwtest"
)

func TestMuxN(t *testing.T) {
	m, err := hw.Chip("myMux4", "a[4], b[4], sel", "out[4]",
		hl.Mux("a=a[0], b=b[0], sel=sel, out=out[0]"),
		hl.Mux("a=a[1], b=b[1], sel=sel, out=out[1]"),
		hl.Mux("a=a[2], b=b[2], sel=sel, out=out[2]"),
		hl.Mux("a=a[3], b=b[3], sel=sel, out=out[3]"),
	)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, hl.MuxN(4), m)
}

func TestDMuxN(t *testing.T) {
	dmux4, err := hw.Chip("myDMux4", "in[4], sel", "a[4], b[4]",
		hl.DMux("in=in[0], sel=sel, a=a[0], b=b[0]"),
		hl.DMux("in=in[1], sel=sel, a=a[1], b=b[1]"),
		hl.DMux("in=in[2], sel=sel, a=a[2], b=b[2]"),
		hl.DMux("in=in[3], sel=sel, a=a[3], b=b[3]"),
	)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, hl.DMuxN(4), dmux4)
}
