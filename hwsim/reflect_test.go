package hwsim_test

import (
	"fmt"
	"testing"

	hw "github.com/db47h/hwdbg/hwsim"
	hl "github.com/db47h/hwdbg/hwlib"
	"github.com/db47h/hwdbg/hwtest"
)

// mux4 is a custom 4 bits mux.
//
type mux4 struct {
	A   [4]int `hw:"in"`     // input bus "a"
	B   [4]int `hw:"in"`     // input bus "b"
	S   int    `hw:"in,sel"` // single pin, the second tag value forces the pin name to "sel"
	Out [4]int `hw:"out"`    // output bus "out"
}

func (m *mux4) Update(c *hw.Circuit) {
	src := m.A
	if c.Get(m.S) {
		src = m.B
	}
	for i, p := range src {
		c.Set(m.Out[i], c.Get(p))
	}
}

var mux4Spec = hw.MakePart((*mux4)(nil))

func Test_MakePart(t *testing.T) {
	if mux4Spec.Name != "mux4" {
		t.Fatalf("bad name %q", mux4Spec.Name)
	}
	if got := fmt.Sprint(mux4Spec.Inputs); got != "[a[0] a[1] a[2] a[3] b[0] b[1] b[2] b[3] sel]" {
		t.Fatalf("bad inputs %s", got)
	}
	hwtest.ComparePart(t, mux4Spec.NewPart, hl.MuxN(4))
}

type badTag struct {
	A int `hw:"inout"`
}

func (*badTag) Update(*hw.Circuit) {}

type badType struct {
	A bool `hw:"in"`
}

func (*badType) Update(*hw.Circuit) {}

type notStruct int

func (notStruct) Update(*hw.Circuit) {}

func TestMakePartPanics(t *testing.T) {
	for _, u := range []hw.Updater{(*badTag)(nil), (*badType)(nil), notStruct(0)} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%T: no panic", u)
				}
			}()
			hw.MakePart(u)
		}()
	}
}
