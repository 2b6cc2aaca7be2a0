// Package bitexpr implements the expression engine of a programmer's
// calculator.
//
// Expressions are one line of C-like arithmetic: "0x1f & ~bit(3)",
// "sum(1, 2, 3) << 4", "(1.5 + 2) * 0n101". Literals may be decimal, hex
// (0x), octal (0o), or binary (0n), and whitespace between digits is ignored,
// so "0n1010 0101" is one number. Every value is a Number, which carries an
// exact wrapping uint64 and a float64 side by side.
//
// Parse converts an expression to postfix order with a shunting-yard parser,
// and Expr.Eval evaluates it on a stack. Every error from either is an *Error
// carrying the byte offset of the offending token, so that a caller can point
// at it under the echoed input.
//
package bitexpr
