package bitexpr

import "math"

type assoc int8

const (
	assocNone assoc = iota
	assocLeft
	assocRight
)

type opKind int8

const (
	opRegular opKind = iota
	opOpen
	opClose
	opSep
)

// operator describes an operator symbol. Several operators may share a
// symbol, but never with the same associativity.
type operator struct {
	// sym is the operator's spelling.
	sym string
	// prec is the precedence value. Lower is more binding.
	prec int8
	// arity is the number of operands: 0 for parentheses and the separator,
	// 1 for unary, 2 for binary operators.
	arity int8
	assoc assoc
	kind  opKind
	// eval computes the operator on exactly arity operands.
	eval func(x []Number) (Number, error)
}

// tighter reports whether p binds its operands before q does when p is
// already on the operator stack and q is the incoming operator.
func (p *operator) tighter(q *operator) bool {
	if p.prec != q.prec {
		return p.prec < q.prec
	}
	return p.assoc == assocLeft
}

func (p *operator) String() string {
	switch p.assoc {
	case assocRight:
		return "unary " + p.sym
	case assocLeft:
		if p.kind == opRegular {
			return "binary " + p.sym
		}
	}
	return p.sym
}

// operators is the operator registry. It is never modified.
var operators = [...]operator{
	{sym: "(", prec: 1, kind: opOpen},
	{sym: ")", prec: 1, kind: opClose},

	{sym: "+", prec: 2, arity: 1, assoc: assocRight, eval: unary(func(x Number) Number { return x })},
	{sym: "-", prec: 2, arity: 1, assoc: assocRight, eval: unary(neg)},
	{sym: "~", prec: 2, arity: 1, assoc: assocRight, eval: unary(func(x Number) Number { return Uint(^x.Int) })},

	{sym: "*", prec: 3, arity: 2, assoc: assocLeft, eval: binary(mul)},
	{sym: "/", prec: 3, arity: 2, assoc: assocLeft, eval: div},
	{sym: "%", prec: 3, arity: 2, assoc: assocLeft, eval: rem},

	{sym: "+", prec: 4, arity: 2, assoc: assocLeft, eval: binary(add)},
	{sym: "-", prec: 4, arity: 2, assoc: assocLeft, eval: binary(sub)},

	{sym: "<<", prec: 5, arity: 2, assoc: assocLeft, eval: shl},
	{sym: ">>", prec: 5, arity: 2, assoc: assocLeft, eval: shr},

	{sym: "<", prec: 6, arity: 2, assoc: assocLeft, eval: binary(func(x, y Number) Number { return Bool(cmp(x, y) < 0) })},
	{sym: "<=", prec: 6, arity: 2, assoc: assocLeft, eval: binary(func(x, y Number) Number { return Bool(cmp(x, y) <= 0) })},
	{sym: ">", prec: 6, arity: 2, assoc: assocLeft, eval: binary(func(x, y Number) Number { return Bool(cmp(x, y) > 0) })},
	{sym: ">=", prec: 6, arity: 2, assoc: assocLeft, eval: binary(func(x, y Number) Number { return Bool(cmp(x, y) >= 0) })},

	{sym: "==", prec: 7, arity: 2, assoc: assocLeft, eval: binary(func(x, y Number) Number { return Bool(equal(x, y)) })},
	{sym: "!=", prec: 7, arity: 2, assoc: assocLeft, eval: binary(func(x, y Number) Number { return Bool(!equal(x, y)) })},

	{sym: "&", prec: 8, arity: 2, assoc: assocLeft, eval: binary(func(x, y Number) Number { return Uint(x.Int & y.Int) })},
	{sym: "^", prec: 9, arity: 2, assoc: assocLeft, eval: binary(func(x, y Number) Number { return Uint(x.Int ^ y.Int) })},
	{sym: "|", prec: 10, arity: 2, assoc: assocLeft, eval: binary(func(x, y Number) Number { return Uint(x.Int | y.Int) })},

	{sym: ",", prec: 11, assoc: assocLeft, kind: opSep},
}

func unary(f func(x Number) Number) func([]Number) (Number, error) {
	return func(x []Number) (Number, error) {
		return f(x[0]), nil
	}
}

func binary(f func(x, y Number) Number) func([]Number) (Number, error) {
	return func(x []Number) (Number, error) {
		return f(x[0], x[1]), nil
	}
}

func neg(x Number) Number {
	return Number{Int: -x.Int, Float: -x.Float}
}

func add(x, y Number) Number {
	return Number{Int: x.Int + y.Int, Float: x.Float + y.Float}
}

func sub(x, y Number) Number {
	return Number{Int: x.Int - y.Int, Float: x.Float - y.Float}
}

func mul(x, y Number) Number {
	return Number{Int: x.Int * y.Int, Float: x.Float * y.Float}
}

// checkDivisor returns a DomainError if either representation of y is zero.
func checkDivisor(y Number, op string) error {
	if y.Int == 0 || nearZero(y.Float) {
		return &DomainError{X: y, Arg: 2, Func: op, Reason: "division by zero"}
	}
	return nil
}

func div(x []Number) (Number, error) {
	if err := checkDivisor(x[1], "/"); err != nil {
		return Number{}, err
	}
	return Number{Int: x[0].Int / x[1].Int, Float: x[0].Float / x[1].Float}, nil
}

func rem(x []Number) (Number, error) {
	if err := checkDivisor(x[1], "%"); err != nil {
		return Number{}, err
	}
	return Number{Int: x[0].Int % x[1].Int, Float: math.Mod(x[0].Float, x[1].Float)}, nil
}

// checkBitIndex returns a DomainError unless both representations of n are a
// bit position in [0, 63].
func checkBitIndex(n Number, arg int, fn string) error {
	if n.Int > 63 || !(n.Float >= 0 && n.Float < 64) {
		return &DomainError{X: n, Arg: arg, Func: fn, Reason: "bit index out of range [0, 63]"}
	}
	return nil
}

// maxShift bounds the shift counts accepted by << and >>.
const maxShift = 1 << 32

// checkShift returns a DomainError unless both representations of n are a
// usable shift count. Counts wrap to 64 bits when applied.
func checkShift(n Number, op string) error {
	if n.Int >= maxShift || !(n.Float >= 0 && n.Float < maxShift) {
		return &DomainError{X: n, Arg: 2, Func: op, Reason: "shift count out of range [0, 2^32)"}
	}
	return nil
}

func shl(x []Number) (Number, error) {
	if err := checkShift(x[1], "<<"); err != nil {
		return Number{}, err
	}
	return Uint(x[0].Int << (x[1].Int & 63)), nil
}

func shr(x []Number) (Number, error) {
	if err := checkShift(x[1], ">>"); err != nil {
		return Number{}, err
	}
	return Uint(x[0].Int >> (x[1].Int & 63)), nil
}

// equal reports whether the integer representations match and the float
// representations are within a relative epsilon.
func equal(x, y Number) bool {
	return x.Int == y.Int && approxEqual(x.Float, y.Float)
}

// cmp orders x and y by their float representations, falling back to the
// integer representations when the floats compare equal.
func cmp(x, y Number) int {
	switch {
	case x.Float < y.Float:
		return -1
	case x.Float > y.Float:
		return 1
	case x.Int < y.Int:
		return -1
	case x.Int > y.Int:
		return 1
	default:
		return 0
	}
}

// matchOperator finds the longest operator that prefixes src and is valid
// after prev. If there is none, the result is nil.
func matchOperator(src string, prev *token) *operator {
	var best *operator
	for i := range operators {
		op := &operators[i]
		if len(op.sym) > len(src) || src[:len(op.sym)] != op.sym {
			continue
		}
		if !op.validAfter(prev) {
			continue
		}
		switch {
		case best == nil, len(op.sym) > len(best.sym):
			best = op
		case len(op.sym) == len(best.sym):
			// Same spelling. Binary after an operand, unary otherwise.
			if prev.isOperand() == (op.assoc == assocLeft) {
				best = op
			}
		}
	}
	return best
}

// validAfter applies the lexical context rules for operators.
func (p *operator) validAfter(prev *token) bool {
	switch p.assoc {
	case assocLeft:
		if prev == nil {
			return false
		}
		if prev.kind == tokOp && (prev.op.assoc == assocLeft || prev.op.kind == opOpen) {
			return false
		}
	case assocRight:
		if prev != nil && prev.kind == tokOp && prev.op.assoc == assocRight {
			return false
		}
	}
	return true
}
