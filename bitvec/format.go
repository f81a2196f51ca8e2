// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bitvec

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// Format selects the numeric convention used to display a vector.
//
type Format int

// Supported formats.
//
const (
	Binary Format = iota
	Hex
	Decimal
	formatCount
)

var formatNames = [...]string{
	Binary:  "bin",
	Hex:     "hex",
	Decimal: "dec",
}

func (f Format) String() string {
	if f < 0 || f >= formatCount {
		return "Format(?)"
	}
	return formatNames[f]
}

// Next returns the format following f, wrapping around.
//
func (f Format) Next() Format {
	return (f + 1) % formatCount
}

// ParseFormat returns the Format named s ("bin", "hex" or "dec").
//
func ParseFormat(s string) (Format, error) {
	for f, n := range formatNames {
		if n == s {
			return Format(f), nil
		}
	}
	return Binary, errors.Errorf("unknown format %q (valid: bin, hex, dec)", s)
}

// Options controls how a vector is rendered.
//
type Options struct {
	Format Format
	// Width is the display width in bits. The vector is resized to Width
	// before rendering.
	Width int
	// TwosComplement treats the most significant bit as a sign bit when
	// extending the vector, and selects signed output for Decimal.
	TwosComplement bool
}

// Resize resizes v to width. If v is shorter, it is extended with its most
// significant bit when twosComplement is set, with zeros otherwise. If v is
// longer, it is truncated from the high end.
//
func Resize(v BitVec, width int, twosComplement bool) BitVec {
	fill := false
	if twosComplement {
		fill = v.MSB()
	}
	return v.Resize(width, fill)
}

// Sprint renders v according to o.
//
func Sprint(v BitVec, o Options) string {
	v = Resize(v, o.Width, o.TwosComplement)
	switch o.Format {
	case Hex:
		return hex(v)
	case Decimal:
		return decimal(v, o.TwosComplement)
	default:
		return v.String()
	}
}

const hexDigits = "0123456789abcdef"

func hex(v BitVec) string {
	n := (v.Len() + 3) / 4
	var b strings.Builder
	b.Grow(n)
	for d := n - 1; d >= 0; d-- {
		var nibble int
		for i := 3; i >= 0; i-- {
			nibble <<= 1
			if v.Bit(d*4 + i) {
				nibble |= 1
			}
		}
		b.WriteByte(hexDigits[nibble])
	}
	return b.String()
}

func decimal(v BitVec, signed bool) string {
	if v.Len() == 0 {
		return ""
	}
	z := v.Int()
	if signed && v.MSB() {
		z.Sub(z, new(big.Int).Lsh(big.NewInt(1), uint(v.Len())))
	}
	return z.String()
}
