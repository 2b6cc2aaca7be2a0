package bitexpr

import (
	"strconv"

	"go.uber.org/zap"
)

// Eval evaluates the expression. Errors are of type *Error; evaluation
// failures in operators and functions have kind FailedEvaluation and wrap a
// *DomainError.
func (e *Expr) Eval() (Number, error) {
	log := e.log
	if log == nil {
		log = zap.NewNop()
	}
	stack := make([]Number, 0, len(e.rpn))
	for i := range e.rpn {
		t := &e.rpn[i]
		switch t.kind {
		case tokNum:
			stack = append(stack, t.num)
			continue
		case tokOp:
			r, err := call(stack, int(t.op.arity), t, t.op.eval)
			if err != nil {
				return Number{}, err
			}
			stack = append(stack[:len(stack)-int(t.op.arity)], r)
		case tokFunc:
			r, err := call(stack, t.argc, t, t.fn.Call)
			if err != nil {
				return Number{}, err
			}
			stack = append(stack[:len(stack)-t.argc], r)
		default:
			panic("bitexpr: invalid token in expression: " + t.String())
		}
		if ce := log.Check(zap.DebugLevel, "eval"); ce != nil {
			ce.Write(zap.Stringer("tok", t), zap.Stringer("result", stack[len(stack)-1]))
		}
	}
	if len(stack) != 1 {
		return Number{}, errAt(0, InvalidParamCount, strconv.Itoa(len(stack))+" values left after evaluation")
	}
	return stack[0], nil
}

// call invokes f on the top n values of the stack in source order.
func call(stack []Number, n int, t *token, f func([]Number) (Number, error)) (Number, error) {
	if n > len(stack) {
		return Number{}, errAt(t.pos, InvalidParamCount, t.String()+" needs "+strconv.Itoa(n)+" operands, have "+strconv.Itoa(len(stack)))
	}
	// Copy the arguments so that routines may modify them.
	invoc := make([]Number, n)
	copy(invoc, stack[len(stack)-n:])
	r, err := f(invoc)
	if err != nil {
		return Number{}, &Error{Offset: t.pos, Kind: FailedEvaluation, Msg: "evaluation failed", Err: err}
	}
	return r, nil
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ParseOption) (Number, error) {
	e, err := Parse(src, opts...)
	if err != nil {
		return Number{}, err
	}
	return e.Eval()
}
