package bitexpr

import (
	"errors"
	"strconv"
	"strings"
)

type token struct {
	kind tokenKind
	// pos is the byte offset of the token in the source text.
	pos int
	// num is the value of a number token.
	num Number
	// op is the descriptor of an operator token.
	op *operator
	// fn is the descriptor of a function token.
	fn *Function
	// argc is the argument count of a function token. The parser
	// accumulates it while scanning the argument list.
	argc int
}

func (t *token) String() string {
	var s string
	switch t.kind {
	case tokNum:
		s = t.num.String()
	case tokOp:
		s = t.op.String()
	case tokFunc:
		s = t.fn.Name + "/" + strconv.Itoa(t.argc)
	default:
		s = "none"
	}
	return s + "@" + strconv.Itoa(t.pos)
}

// isOperand reports whether t ends an operand, i.e. is a number or a close
// parenthesis. A nil token is not an operand.
func (t *token) isOperand() bool {
	if t == nil {
		return false
	}
	return t.kind == tokNum || t.kind == tokOp && t.op.kind == opClose
}

// isRegular reports whether t is an operator which takes operands.
func (t *token) isRegular() bool {
	return t != nil && t.kind == tokOp && t.op.kind == opRegular
}

type tokenKind int8

const (
	tokNone tokenKind = iota
	// tokNum is a numeric literal.
	tokNum
	// tokOp is an operator, parenthesis, or argument separator.
	tokOp
	// tokFunc is a function name.
	tokFunc
)

// lexer scans tokens from a string. Scanning depends on the previous token
// the parser accepted, so the parser drives the lexer one token at a time.
type lexer struct {
	src   string
	pos   int
	funcs []*Function
}

func lex(src string, funcs []*Function) *lexer {
	return &lexer{src: src, funcs: funcs}
}

// skip advances past whitespace.
func (l *lexer) skip() {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
}

// eof reports whether only whitespace remains.
func (l *lexer) eof() bool {
	l.skip()
	return l.pos >= len(l.src)
}

// next scans the next token in the context of the previously accepted token,
// which is nil at the start of input. The lexer must not be at EOF.
func (l *lexer) next(prev *token) (token, error) {
	l.skip()
	start := l.pos
	rest := l.src[start:]
	n, k, err := scanNum(rest)
	if err != nil {
		return token{}, errAt(start, InvalidExpr, err.Error())
	}
	if k > 0 {
		l.pos += k
		return token{kind: tokNum, pos: start, num: n}, nil
	}
	if op := matchOperator(rest, prev); op != nil {
		l.pos += len(op.sym)
		return token{kind: tokOp, pos: start, op: op}, nil
	}
	if fn := l.matchFunc(rest); fn != nil {
		if prev != nil && prev.kind == tokFunc {
			return token{}, errAt(prev.pos, MissingParenthesis, "missing ( after "+prev.fn.Name)
		}
		l.pos += len(fn.Name)
		return token{kind: tokFunc, pos: start, fn: fn}, nil
	}
	return token{}, errAt(start, InvalidExpr, "invalid token "+strconv.Quote(firstToken(rest)))
}

// matchFunc finds the function with the longest name prefixing src.
func (l *lexer) matchFunc(src string) *Function {
	var best *Function
	for _, fn := range l.funcs {
		if !strings.HasPrefix(src, fn.Name) {
			continue
		}
		if best == nil || len(fn.Name) > len(best.Name) {
			best = fn
		}
	}
	return best
}

// firstToken returns a prefix of src suitable for an error message.
func firstToken(src string) string {
	for i := 0; i < len(src); i++ {
		if isSpace(src[i]) || strings.IndexByte("()+-*/%~&|^<>=!,", src[i]) >= 0 {
			if i == 0 {
				return src[:1]
			}
			return src[:i]
		}
	}
	return src
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// digitVal returns the value of c as a digit, or 255 if it is not one.
func digitVal(c byte) uint8 {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 255
}

// scanDigits scans a run of base digits starting at src[i], skipping
// whitespace between digits. It returns the digits without whitespace and the
// index just past the last digit.
func scanDigits(src string, i int, base uint8) (string, int) {
	var b strings.Builder
	end := i
	for j := i; j < len(src); j++ {
		c := src[j]
		if isSpace(c) {
			continue
		}
		if digitVal(c) >= base {
			break
		}
		b.WriteByte(c)
		end = j + 1
	}
	return b.String(), end
}

// scanNum scans a numeric literal at the start of src. The second result is
// the number of bytes consumed, which is zero if src does not begin with a
// complete literal. An error is returned for integer literals that do not
// fit in 64 bits.
func scanNum(src string) (Number, int, error) {
	if len(src) == 0 || src[0] < '0' || src[0] > '9' {
		return Number{}, 0, nil
	}
	var base uint8 = 10
	i := 0
	if src[0] == '0' && len(src) > 1 {
		switch src[1] {
		case 'x', 'X':
			base, i = 16, 2
		case 'n', 'N':
			base, i = 2, 2
		case 'o', 'O':
			base, i = 8, 2
		}
	}
	digits, end := scanDigits(src, i, base)
	if digits == "" {
		return Number{}, 0, nil
	}
	if base == 10 && end < len(src) && src[end] == '.' {
		return scanFrac(src, digits, end)
	}
	x, err := strconv.ParseUint(digits, int(base), 64)
	if err != nil {
		return Number{}, 0, &literalError{src[:end]}
	}
	return Uint(x), end, nil
}

// scanFrac scans the fractional part and optional exponent of a decimal
// literal. whole is the integer digits and dot is the index of the '.'.
func scanFrac(src, whole string, dot int) (Number, int, error) {
	frac, end := scanDigits(src, dot+1, 10)
	if frac == "" {
		// A literal ending in '.' is not a number.
		return Number{}, 0, nil
	}
	text := whole + "." + frac
	if end < len(src) && (src[end] == 'e' || src[end] == 'E') {
		j := end + 1
		sign := ""
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			sign = src[j : j+1]
			j++
		}
		if exp, k := scanDigits(src, j, 10); exp != "" {
			text += "e" + sign + exp
			end = k
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Number{}, 0, &literalError{src[:end]}
	}
	// Out of range literals are ±Inf or 0, which Float saturates.
	return Float(f), end, nil
}

type literalError struct {
	text string
}

func (err *literalError) Error() string {
	return "number " + strconv.Quote(err.text) + " out of range"
}
