package bitexpr

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Expr = number | func '(' [ Expr { ',' Expr } ] ')' | '(' Expr ')' | unop Expr | Expr binop Expr
// unop = '+' | '-' | '~'
// binop = '*' | '/' | '%' | '+' | '-' | '<<' | '>>' | '<' | '<=' | '>' | '>=' | '==' | '!=' | '&' | '^' | '|'

// Expr is a parsed expression. It holds the expression in postfix order and
// is never modified after parsing, so it may be evaluated any number of times
// from any number of goroutines.
type Expr struct {
	// rpn is the postfix token queue.
	rpn []token
	// log traces evaluation.
	log *zap.Logger
}

// parser holds the state of one shunting-yard parse.
type parser struct {
	scan *lexer
	// stack holds operators and function calls waiting for their operands.
	stack []token
	// out is the postfix output queue.
	out []token
	// prev is the last accepted token, used to disambiguate the next one.
	prev token
	// sep is set between a separator and the next token.
	sep bool
	log *zap.Logger
}

// Parse parses an expression so it can be evaluated. The given options are
// applied in order. Errors are of type *Error.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	var c parsectx
	for _, opt := range opts {
		opt.parseOption(&c)
	}
	c.fill()
	p := parser{
		scan: lex(src, c.funcs),
		log:  c.log,
	}
	p.log.Debug("parse", zap.String("src", src))
	for !p.scan.eof() {
		tok, err := p.scan.next(p.last())
		if err != nil {
			p.log.Debug("lex error", zap.Error(err))
			return nil, err
		}
		if err := p.accept(tok); err != nil {
			p.log.Debug("parse error", zap.Stringer("tok", &tok), zap.Error(err))
			return nil, err
		}
	}
	if err := p.finish(len(src)); err != nil {
		p.log.Debug("parse error", zap.Error(err))
		return nil, err
	}
	e := &Expr{rpn: p.out, log: c.log}
	p.log.Debug("parsed", zap.Stringer("rpn", e))
	return e, nil
}

// last returns the previous accepted token, or nil at the start of input.
func (p *parser) last() *token {
	if p.prev.kind == tokNone {
		return nil
	}
	return &p.prev
}

func (p *parser) push(tok token) {
	p.stack = append(p.stack, tok)
}

func (p *parser) pop() token {
	tok := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	return tok
}

// top returns the top of the operator stack, or nil if it is empty.
func (p *parser) top() *token {
	if len(p.stack) == 0 {
		return nil
	}
	return &p.stack[len(p.stack)-1]
}

func (p *parser) emit(tok token) {
	p.out = append(p.out, tok)
}

// accept processes one token.
func (p *parser) accept(tok token) error {
	prev := p.last()
	if prev != nil && prev.kind == tokFunc && !(tok.kind == tokOp && tok.op.kind == opOpen) {
		return errAt(prev.pos, MissingParenthesis, "missing ( after "+prev.fn.Name)
	}
	switch tok.kind {
	case tokNum:
		if prev.isOperand() {
			return errAt(tok.pos, MissingOperatorOrFunction, "missing operator before number")
		}
		p.emit(tok)
	case tokFunc:
		if prev.isOperand() {
			return errAt(tok.pos, MissingOperatorOrFunction, "missing operator before "+tok.fn.Name)
		}
		tok.argc = 0
		p.push(tok)
	case tokOp:
		switch tok.op.kind {
		case opOpen:
			if prev.isOperand() {
				return errAt(tok.pos, MissingOperatorOrFunction, "missing operator or function before (")
			}
			p.push(tok)
		case opClose:
			if err := p.close(tok); err != nil {
				return err
			}
		case opSep:
			// The separator leaves the open paren of the call as the previous
			// token, so the next argument lexes like the first.
			return p.separate(tok)
		case opRegular:
			if err := p.operator(tok); err != nil {
				return err
			}
		}
	default:
		panic("bitexpr: unknown token: " + tok.String())
	}
	p.prev = tok
	p.sep = false
	p.log.Debug("accept", zap.Stringer("tok", &tok), zap.Int("stack", len(p.stack)), zap.Int("out", len(p.out)))
	return nil
}

// unwind moves operators from the stack to the output until an open paren is
// on top. It returns false if the stack empties first.
func (p *parser) unwind() bool {
	for {
		t := p.top()
		if t == nil {
			return false
		}
		if t.kind == tokOp && t.op.kind == opOpen {
			return true
		}
		p.emit(p.pop())
	}
}

func (p *parser) close(tok token) error {
	if p.prev.isRegular() {
		return errAt(tok.pos, MissingOperand, "missing operand before )")
	}
	if !p.unwind() {
		return errAt(tok.pos, MismatchParenthesis, ") with no open parenthesis")
	}
	open := p.pop()
	// prev is the open paren itself when the group or argument is empty.
	empty := p.prev.kind == tokOp && p.prev.op.kind == opOpen && p.prev.pos == open.pos
	fn := p.top()
	if fn == nil || fn.kind != tokFunc {
		if empty {
			return errAt(tok.pos, EmptyExpr, "no expression up to )")
		}
		return nil
	}
	switch {
	case !empty:
		fn.argc++
	case fn.argc > 0:
		return errAt(tok.pos, MissingParenthesis, "missing argument before ) in call to "+fn.fn.Name)
	}
	if !fn.fn.CanCall(fn.argc) {
		return &Error{
			Offset: fn.pos,
			Kind:   InvalidParamCount,
			Msg:    "cannot call " + fn.fn.Name + " with " + strconv.Itoa(fn.argc) + " arguments",
		}
	}
	p.emit(p.pop())
	return nil
}

func (p *parser) separate(tok token) error {
	if p.prev.isRegular() {
		return errAt(tok.pos, MissingOperand, "missing operand before ,")
	}
	if !p.unwind() {
		return errAt(tok.pos, MissingParenthesis, ", outside parentheses")
	}
	if len(p.stack) < 2 || p.stack[len(p.stack)-2].kind != tokFunc {
		return errAt(tok.pos, MissingFunction, ", outside function call")
	}
	p.stack[len(p.stack)-2].argc++
	p.prev = p.stack[len(p.stack)-1]
	p.sep = true
	p.log.Debug("separate", zap.Stringer("fn", &p.stack[len(p.stack)-2]))
	return nil
}

func (p *parser) operator(tok token) error {
	switch tok.op.assoc {
	case assocLeft:
		if !p.prev.isOperand() {
			return errAt(tok.pos, MissingOperand, "missing operand before "+tok.op.sym)
		}
	case assocRight:
		if p.prev.isOperand() {
			return errAt(tok.pos, MissingOperatorOrFunction, "missing operator before "+tok.op.String())
		}
	}
	for {
		t := p.top()
		if t == nil || t.kind != tokOp || t.op.kind != opRegular || !t.op.tighter(tok.op) {
			break
		}
		p.emit(p.pop())
	}
	p.push(tok)
	return nil
}

// finish handles the end of input at byte offset end.
func (p *parser) finish(end int) error {
	prev := p.last()
	switch {
	case prev == nil:
		return errAt(0, EmptyExpr, "no expression")
	case prev.kind == tokFunc:
		return errAt(prev.pos, MissingParenthesis, "missing ( after "+prev.fn.Name)
	case prev.isRegular():
		return errAt(end, MissingOperand, "missing operand at end")
	case p.sep:
		return errAt(end, MissingParenthesis, "missing argument and ) at end")
	}
	for len(p.stack) > 0 {
		tok := p.pop()
		if tok.kind == tokOp && tok.op.kind == opOpen {
			return errAt(tok.pos, MismatchParenthesis, "( with no close parenthesis")
		}
		p.emit(tok)
	}
	if len(p.out) == 0 {
		return errAt(end, EmptyExpr, "no expression at end")
	}
	return nil
}

// String renders the expression in postfix order. Unary operators are marked
// with a leading u, and function calls show their argument counts.
func (e *Expr) String() string {
	var b strings.Builder
	for i := range e.rpn {
		if i > 0 {
			b.WriteByte(' ')
		}
		t := &e.rpn[i]
		switch t.kind {
		case tokNum:
			if float64(t.num.Int) == t.num.Float {
				b.WriteString(strconv.FormatUint(t.num.Int, 10))
			} else {
				b.WriteString(strconv.FormatFloat(t.num.Float, 'g', -1, 64))
			}
		case tokOp:
			if t.op.assoc == assocRight {
				b.WriteByte('u')
			}
			b.WriteString(t.op.sym)
		case tokFunc:
			b.WriteString(t.fn.Name)
			b.WriteByte('/')
			b.WriteString(strconv.Itoa(t.argc))
		}
	}
	return b.String()
}

// Len returns the number of tokens in the postfix form of the expression.
func (e *Expr) Len() int {
	return len(e.rpn)
}
