package bitexpr

import (
	"math"
	"math/big"
	"math/bits"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Function is a function callable from expressions.
type Function struct {
	// Name is the name by which expressions call the function. It must be
	// nonempty and must not begin with a digit or an operator symbol.
	Name string
	// Min and Max give the half-open range [Min, Max) of argument counts the
	// function accepts.
	Min, Max int
	// Call evaluates the function. The arguments are passed in source order
	// in invoc, and len(invoc) is always in [Min, Max). Call may modify the
	// elements of invoc.
	Call func(invoc []Number) (Number, error)
}

// CanCall returns whether the function can be called with n arguments.
func (f *Function) CanCall(n int) bool {
	return f.Min <= n && n < f.Max
}

// unbounded is the Max of functions with no argument limit.
const unbounded = math.MaxInt32

// globalfuncs is the function registry. It is never modified.
var globalfuncs = [...]Function{
	{Name: "sum", Min: 2, Max: unbounded, Call: sum},
	{Name: "avg", Min: 1, Max: unbounded, Call: avg},
	{Name: "bits", Min: 2, Max: 3, Call: bitrange},
	{Name: "bit", Min: 1, Max: 2, Call: bit},
	{Name: "min", Min: 1, Max: unbounded, Call: extremum(-1)},
	{Name: "max", Min: 1, Max: unbounded, Call: extremum(1)},
	{Name: "pow", Min: 2, Max: 3, Call: pow},
	{Name: "popcnt", Min: 1, Max: 2, Call: func(invoc []Number) (Number, error) {
		return Uint(uint64(bits.OnesCount64(invoc[0].Int))), nil
	}},
}

// Funcs returns copies of the built-in functions.
func Funcs() []Function {
	return append([]Function(nil), globalfuncs[:]...)
}

func sum(invoc []Number) (Number, error) {
	var r Number
	for _, x := range invoc {
		r = add(r, x)
	}
	return r, nil
}

func avg(invoc []Number) (Number, error) {
	r, _ := sum(invoc)
	n := len(invoc)
	return Number{Int: r.Int / uint64(n), Float: r.Float / float64(n)}, nil
}

func bit(invoc []Number) (Number, error) {
	if err := checkBitIndex(invoc[0], 1, "bit"); err != nil {
		return Number{}, err
	}
	return Uint(1 << invoc[0].Int), nil
}

func bitrange(invoc []Number) (Number, error) {
	for i, x := range invoc {
		if err := checkBitIndex(x, i+1, "bits"); err != nil {
			return Number{}, err
		}
	}
	lo, hi := invoc[0].Int, invoc[1].Int
	if lo > hi {
		lo, hi = hi, lo
	}
	var r uint64
	for i := lo; i <= hi; i++ {
		r |= 1 << i
	}
	return Uint(r), nil
}

// extremum selects the argument which orders first when multiplied by dir.
func extremum(dir int) func([]Number) (Number, error) {
	return func(invoc []Number) (Number, error) {
		r := invoc[0]
		for _, x := range invoc[1:] {
			if cmp(x, r)*dir > 0 {
				r = x
			}
		}
		return r, nil
	}
}

func pow(invoc []Number) (Number, error) {
	x, y := invoc[0], invoc[1]
	// Integer power by squaring, wrapping at 64 bits.
	var r uint64 = 1
	b, e := x.Int, y.Int
	for e != 0 {
		if e&1 != 0 {
			r *= b
		}
		b *= b
		e >>= 1
	}
	return Number{Int: r, Float: fpow(x.Float, y.Float)}, nil
}

// fpow computes x^y to float64 precision. Positive finite bases with
// fractional exponents go through bigfloat, which rounds once at the end.
// Everything else uses math.Pow, which is exact for integer exponents when the
// result is representable.
func fpow(x, y float64) float64 {
	if x <= 0 || math.IsInf(x, 0) || math.IsNaN(x) || math.IsInf(y, 0) || math.IsNaN(y) || y == math.Trunc(y) {
		return math.Pow(x, y)
	}
	const prec = 64
	bx := new(big.Float).SetPrec(prec).SetFloat64(x)
	by := new(big.Float).SetPrec(prec).SetFloat64(y)
	r, _ := bigfloat.Pow(new(big.Float).SetPrec(prec), bx, by).Float64()
	return r
}

// DomainError is an error returned when a function or operator is called on
// arguments outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X Number
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function or operator.
	Func string
	// Reason describes the domain, if non-empty.
	Reason string
}

func (err *DomainError) Error() string {
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	if err.Reason != "" {
		r += ": " + err.Reason
	}
	return r
}
