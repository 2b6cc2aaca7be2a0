package bitexpr

import "strconv"

// ErrorKind classifies errors from parsing and evaluation.
type ErrorKind int8

const (
	kindNone ErrorKind = iota
	// EmptyExpr means there was no expression to parse.
	EmptyExpr
	// InvalidExpr means the input contained a character or token that is not
	// a number, operator, or function name in its context.
	InvalidExpr
	// MissingOperand means a binary operator lacked its left operand.
	MissingOperand
	// MissingOperatorOrFunction means two operands were adjacent with
	// nothing connecting them.
	MissingOperatorOrFunction
	// MissingParenthesis means a function call or group was not opened or
	// not closed.
	MissingParenthesis
	// MismatchParenthesis means a parenthesis had no partner.
	MismatchParenthesis
	// MissingFunction means an argument separator appeared outside a
	// function call.
	MissingFunction
	// InvalidParamCount means a function or operator received a number of
	// arguments outside its permitted range.
	InvalidParamCount
	// FailedEvaluation means a numeric operation failed during evaluation.
	FailedEvaluation
)

func (k ErrorKind) String() string {
	switch k {
	case EmptyExpr:
		return "EmptyExpr"
	case InvalidExpr:
		return "InvalidExpr"
	case MissingOperand:
		return "MissingOperand"
	case MissingOperatorOrFunction:
		return "MissingOperatorOrFunction"
	case MissingParenthesis:
		return "MissingParenthesis"
	case MismatchParenthesis:
		return "MismatchParenthesis"
	case MissingFunction:
		return "MissingFunction"
	case InvalidParamCount:
		return "InvalidParamCount"
	case FailedEvaluation:
		return "FailedEvaluation"
	default:
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Error is an error from parsing or evaluating an expression. It implements
// InputError.
type Error struct {
	// Offset is the byte offset in the source text of the token that caused
	// the error.
	Offset int
	// Kind classifies the error.
	Kind ErrorKind
	// Msg describes the error.
	Msg string
	// Err is the underlying error, if any. Evaluation failures wrap the
	// DomainError from the failing routine.
	Err error
}

func (err *Error) Error() string {
	msg := err.Msg
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return errpos(err.Offset, msg)
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Is reports whether target is an *Error of the same kind, so that e.g.
// errors.Is(err, ErrMissingOperand) works.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == err.Kind && t.Offset < 0
}

func (err *Error) Pos() int {
	return err.Offset
}

// Errors to compare against with errors.Is. Each matches any *Error of its
// kind, regardless of position.
var (
	ErrEmptyExpr                 = &Error{Offset: -1, Kind: EmptyExpr, Msg: "no expression"}
	ErrInvalidExpr               = &Error{Offset: -1, Kind: InvalidExpr, Msg: "invalid expression"}
	ErrMissingOperand            = &Error{Offset: -1, Kind: MissingOperand, Msg: "missing operand"}
	ErrMissingOperatorOrFunction = &Error{Offset: -1, Kind: MissingOperatorOrFunction, Msg: "missing operator or function"}
	ErrMissingParenthesis        = &Error{Offset: -1, Kind: MissingParenthesis, Msg: "missing parenthesis"}
	ErrMismatchParenthesis       = &Error{Offset: -1, Kind: MismatchParenthesis, Msg: "mismatched parenthesis"}
	ErrMissingFunction           = &Error{Offset: -1, Kind: MissingFunction, Msg: "separator outside function call"}
	ErrInvalidParamCount         = &Error{Offset: -1, Kind: InvalidParamCount, Msg: "invalid argument count"}
	ErrFailedEvaluation          = &Error{Offset: -1, Kind: FailedEvaluation, Msg: "evaluation failed"}
)

// errAt is a shortcut to create an *Error.
func errAt(pos int, kind ErrorKind, msg string) *Error {
	return &Error{Offset: pos, Kind: kind, Msg: msg}
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the byte offset of the start of the token that caused the
	// error.
	Pos() int
}

var _ InputError = (*Error)(nil)
