package bitvec_test

import (
	"math/rand"
	"testing"
	"testing/quick"

	"github.com/db47h/hwdbg/bitvec"
	"github.com/stretchr/testify/assert"
)

func TestResize_idempotent(t *testing.T) {
	f := func(seed int64, w uint8, twos bool) bool {
		r := rand.New(rand.NewSource(seed))
		width := int(w)
		v := bitvec.New(width)
		for i := 0; i < width; i++ {
			if r.Intn(2) == 1 {
				v = v.With(i, true)
			}
		}
		return bitvec.Resize(v, width, twos).Equal(v)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestSprint_binary(t *testing.T) {
	td := []struct {
		in    string
		width int
		twos  bool
		exp   string
	}{
		{"10", 4, true, "1110"},
		{"10", 4, false, "0010"},
		{"1", 4, false, "0001"},
		{"1", 4, true, "1111"},
		{"01", 4, true, "0001"},
		{"110101", 3, false, "101"},
		{"110101", 3, true, "101"},
		{"1", 0, false, ""},
		{"0110", 4, false, "0110"},
	}
	for _, d := range td {
		got := bitvec.Sprint(bitvec.MustParse(d.in), bitvec.Options{Format: bitvec.Binary, Width: d.width, TwosComplement: d.twos})
		assert.Equal(t, d.exp, got, "Sprint(%q, width=%d, twos=%v)", d.in, d.width, d.twos)
	}
}

func TestSprint_hex(t *testing.T) {
	td := []struct {
		in    string
		width int
		twos  bool
		exp   string
	}{
		{"10101010", 8, false, "aa"},
		{"11111010", 8, false, "fa"},
		{"10", 8, true, "fe"},
		{"10", 8, false, "02"},
		{"101", 3, false, "5"},
		{"1", 9, true, "1ff"},
	}
	for _, d := range td {
		got := bitvec.Sprint(bitvec.MustParse(d.in), bitvec.Options{Format: bitvec.Hex, Width: d.width, TwosComplement: d.twos})
		assert.Equal(t, d.exp, got, "hex %q width=%d twos=%v", d.in, d.width, d.twos)
	}
}

func TestSprint_decimal(t *testing.T) {
	td := []struct {
		in    string
		width int
		twos  bool
		exp   string
	}{
		{"10", 2, true, "-2"},
		{"10", 2, false, "2"},
		{"10", 4, true, "-2"},
		{"11111111", 8, true, "-1"},
		{"11111111", 8, false, "255"},
		{"01111111", 8, true, "127"},
		{"0", 0, false, ""},
	}
	for _, d := range td {
		got := bitvec.Sprint(bitvec.MustParse(d.in), bitvec.Options{Format: bitvec.Decimal, Width: d.width, TwosComplement: d.twos})
		assert.Equal(t, d.exp, got, "dec %q width=%d twos=%v", d.in, d.width, d.twos)
	}
}

func TestFormat_names(t *testing.T) {
	f := bitvec.Binary
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		p, err := bitvec.ParseFormat(f.String())
		assert.NoError(t, err)
		assert.Equal(t, f, p)
		seen[f.String()] = true
		f = f.Next()
	}
	assert.Equal(t, bitvec.Binary, f)
	assert.Len(t, seen, 3)
	_, err := bitvec.ParseFormat("oct")
	assert.Error(t, err)
}
