// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package bitvec implements fixed-width bit vectors and their display
// formatting.
//
// A BitVec is an ordered sequence of bits, bit 0 being the least significant
// one. Its logical width is independent of the storage granularity. BitVec
// values are immutable: every method that changes bits returns a new vector.
//
package bitvec

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

const wordBits = 64

// A BitVec is a fixed-width bit vector.
//
type BitVec struct {
	n     int
	words []uint64
}

func nwords(width int) int {
	return (width + wordBits - 1) / wordBits
}

// New returns a zero vector of the given width.
//
func New(width int) BitVec {
	if width < 0 {
		width = 0
	}
	return BitVec{n: width, words: make([]uint64, nwords(width))}
}

// FromUint64 returns a vector of the given width holding the low bits of v.
//
func FromUint64(v uint64, width int) BitVec {
	b := New(width)
	if len(b.words) > 0 {
		b.words[0] = v
		b.clearTail()
	}
	return b
}

// FromBits returns a vector built from the given bits, least significant bit
// first.
//
func FromBits(bits ...bool) BitVec {
	b := New(len(bits))
	for i, s := range bits {
		if s {
			b.words[i/wordBits] |= 1 << uint(i%wordBits)
		}
	}
	return b
}

// Parse parses a binary literal, most significant bit first. An optional "0b"
// prefix is accepted and underscores may be used as digit separators. The
// width of the returned vector is the number of digits.
//
func Parse(s string) (BitVec, error) {
	lit := strings.TrimPrefix(strings.TrimPrefix(s, "0b"), "0B")
	digits := make([]bool, 0, len(lit))
	for i := 0; i < len(lit); i++ {
		switch lit[i] {
		case '0':
			digits = append(digits, false)
		case '1':
			digits = append(digits, true)
		case '_':
		default:
			return BitVec{}, errors.Errorf("invalid binary digit %q in %q", lit[i], s)
		}
	}
	if len(digits) == 0 {
		return BitVec{}, errors.Errorf("empty binary literal %q", s)
	}
	// digits are MSB first
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return FromBits(digits...), nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level tables.
//
func MustParse(s string) BitVec {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Len returns the width of v in bits.
//
func (v BitVec) Len() int { return v.n }

// Bit returns the state of bit i. Out of range bits read as false.
//
func (v BitVec) Bit(i int) bool {
	if i < 0 || i >= v.n {
		return false
	}
	return v.words[i/wordBits]&(1<<uint(i%wordBits)) != 0
}

// MSB returns the most significant bit of v, false for an empty vector.
//
func (v BitVec) MSB() bool {
	return v.Bit(v.n - 1)
}

// With returns a copy of v with bit i set to s. It panics if i is out of
// range.
//
func (v BitVec) With(i int, s bool) BitVec {
	if i < 0 || i >= v.n {
		panic(errors.Errorf("bit index %d out of range [0, %d)", i, v.n))
	}
	b := v.clone()
	if s {
		b.words[i/wordBits] |= 1 << uint(i%wordBits)
	} else {
		b.words[i/wordBits] &^= 1 << uint(i%wordBits)
	}
	return b
}

// Resize returns v resized to width. If v is already width bits wide it is
// returned unchanged. A shorter vector is extended with fill bits; a longer
// one is truncated from the high end.
//
func (v BitVec) Resize(width int, fill bool) BitVec {
	if width == v.n {
		return v
	}
	b := New(width)
	copy(b.words, v.words)
	if width < v.n {
		b.clearTail()
		return b
	}
	// storage past the old width is zero.
	if fill {
		for i := v.n; i < width; i++ {
			b.words[i/wordBits] |= 1 << uint(i%wordBits)
		}
	}
	return b
}

// ZeroFrom reports whether every bit at index i and above is zero.
//
func (v BitVec) ZeroFrom(i int) bool {
	if i < 0 {
		i = 0
	}
	for ; i < v.n; i++ {
		if v.Bit(i) {
			return false
		}
	}
	return true
}

// Uint64 returns the low 64 bits of v as an unsigned integer.
//
func (v BitVec) Uint64() uint64 {
	if len(v.words) == 0 {
		return 0
	}
	return v.words[0]
}

// Int returns the unsigned value of v as a big.Int.
//
func (v BitVec) Int() *big.Int {
	z := new(big.Int)
	for i := len(v.words) - 1; i >= 0; i-- {
		z.Lsh(z, wordBits)
		z.Or(z, new(big.Int).SetUint64(v.words[i]))
	}
	return z
}

// Equal reports whether v and o have the same width and bits.
//
func (v BitVec) Equal(o BitVec) bool {
	if v.n != o.n {
		return false
	}
	for i := range v.words {
		if v.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// String returns v in binary, most significant bit first.
//
func (v BitVec) String() string {
	var b strings.Builder
	b.Grow(v.n)
	for i := v.n - 1; i >= 0; i-- {
		if v.Bit(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func (v BitVec) clone() BitVec {
	w := make([]uint64, len(v.words))
	copy(w, v.words)
	return BitVec{n: v.n, words: w}
}

// clearTail zeroes storage bits above the logical width.
func (v BitVec) clearTail() {
	if r := v.n % wordBits; r != 0 {
		v.words[len(v.words)-1] &= 1<<uint(r) - 1
	}
}
