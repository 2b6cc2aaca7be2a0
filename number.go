package bitexpr

import (
	"math"
	"strconv"
)

// Number is the value of an expression. It carries the same quantity twice:
// once as an exact 64-bit unsigned integer with wraparound arithmetic, and
// once as a float64. Every operation updates both representations.
type Number struct {
	Int   uint64
	Float float64
}

// Uint creates a Number from an integer.
func Uint(x uint64) Number {
	return Number{Int: x, Float: float64(x)}
}

// Float creates a Number from a float. The integer representation is the
// float truncated toward zero; NaN becomes 0, and values beyond the range of
// a 64-bit integer saturate.
func Float(f float64) Number {
	return Number{Int: truncUint(f), Float: f}
}

// Bool creates 1 or 0.
func Bool(b bool) Number {
	if b {
		return Uint(1)
	}
	return Uint(0)
}

// String formats n as its integer and float representations.
func (n Number) String() string {
	return strconv.FormatUint(n.Int, 10) + " (" + strconv.FormatFloat(n.Float, 'g', -1, 64) + ")"
}

// Int64 returns the integer representation as a two's complement signed
// value.
func (n Number) Int64() int64 {
	return int64(n.Int)
}

const (
	// epsilon is the relative tolerance used for float equality and for
	// detecting zero divisors.
	epsilon = 0x1p-52
	two64   = 0x1p64
	two63   = 0x1p63
)

// truncUint converts a float to uint64 by truncating toward zero, following
// two's complement for negative values. It is defined for every input.
func truncUint(f float64) uint64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= two64:
		return math.MaxUint64
	case f >= 0:
		return uint64(f)
	case f < -two63:
		return 1 << 63
	default:
		return uint64(int64(f))
	}
}

// approxEqual reports whether two floats are equal within a relative epsilon.
func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	d := math.Abs(a - b)
	m := math.Max(math.Abs(a), math.Abs(b))
	if m < 1 {
		m = 1
	}
	return d <= epsilon*m
}

// nearZero reports whether f is within epsilon of zero.
func nearZero(f float64) bool {
	return math.Abs(f) <= epsilon
}
