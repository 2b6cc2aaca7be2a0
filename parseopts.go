package bitexpr

import (
	"go.uber.org/zap"
)

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(*parsectx)
}

type (
	funcsopt  []Function
	nofuncopt struct{}
	traceopt  struct{ log *zap.Logger }
)

// parsectx holds general data for parsing. It is also a ParseOption.
type parsectx struct {
	// funcs is the set of functions recognized by the lexer. A nil funcs
	// means the defaults.
	funcs []*Function
	// nodefaults indicates that the default functions must not be added.
	nodefaults bool
	// log receives parse and evaluation traces.
	log *zap.Logger
}

// defaultFuncs points into the global function registry.
var defaultFuncs = func() []*Function {
	r := make([]*Function, len(globalfuncs))
	for i := range globalfuncs {
		r[i] = &globalfuncs[i]
	}
	return r
}()

// fill sets defaults for anything the options did not set.
func (p *parsectx) fill() {
	if p.log == nil {
		p.log = zap.NewNop()
	}
	switch {
	case p.funcs == nil && !p.nodefaults:
		p.funcs = defaultFuncs
	case !p.nodefaults:
		// Only add default functions that aren't already set.
		for _, fn := range defaultFuncs {
			if p.find(fn.Name) < 0 {
				p.funcs = append(p.funcs, fn)
			}
		}
		p.nodefaults = true
	}
}

func (p *parsectx) find(name string) int {
	for i, fn := range p.funcs {
		if fn.Name == name {
			return i
		}
	}
	return -1
}

// ParseFunc adds a function for parsing. It replaces any function, including
// a default one, with the same name. ParseFunc panics if the function's name
// is not a valid identifier, if its argument range is empty, or if it has no
// Call routine.
func ParseFunc(fn Function) ParseOption {
	return funcsopt{checkFunc(fn)}
}

// ParseFuncs adds a group of functions for parsing, as if by ParseFunc on
// each.
func ParseFuncs(fns ...Function) ParseOption {
	o := make(funcsopt, len(fns))
	for i, fn := range fns {
		o[i] = checkFunc(fn)
	}
	return o
}

func checkFunc(fn Function) Function {
	if fn.Name == "" || !isIdentStart(fn.Name[0]) {
		panic("bitexpr: invalid function name " + fn.Name)
	}
	for i := 1; i < len(fn.Name); i++ {
		if !isIdentStart(fn.Name[i]) && !('0' <= fn.Name[i] && fn.Name[i] <= '9') {
			panic("bitexpr: invalid function name " + fn.Name)
		}
	}
	if fn.Min < 0 || fn.Max <= fn.Min {
		panic("bitexpr: empty argument range for " + fn.Name)
	}
	if fn.Call == nil {
		panic("bitexpr: no routine for " + fn.Name)
	}
	return fn
}

func isIdentStart(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func (o funcsopt) parseOption(p *parsectx) {
	// Always make a copy so that options and presets are never aliased.
	funcs := make([]*Function, len(p.funcs), len(p.funcs)+len(o))
	copy(funcs, p.funcs)
	p.funcs = funcs
	for i := range o {
		fn := &o[i]
		if k := p.find(fn.Name); k >= 0 {
			p.funcs[k] = fn
		} else {
			p.funcs = append(p.funcs, fn)
		}
	}
}

// DisableDefaultFuncs disables all default functions during parsing. Only
// functions added with ParseFunc or ParseFuncs are recognized.
func DisableDefaultFuncs() ParseOption {
	return nofuncopt{}
}

func (nofuncopt) parseOption(p *parsectx) {
	p.nodefaults = true
	if p.funcs == nil {
		p.funcs = []*Function{}
	}
}

// Trace sends debug-level traces of parsing and evaluation to a logger.
func Trace(log *zap.Logger) ParseOption {
	return traceopt{log}
}

func (o traceopt) parseOption(p *parsectx) {
	p.log = o.log
}

// ParsingPreset creates a parsing preset that may be more efficient when using
// the same non-default parsing options for many calls to Parse. A preset
// panics when it would change any option from the default, but it is safe to
// apply other options after a preset.
func ParsingPreset(opts ...ParseOption) ParseOption {
	var p parsectx
	for _, opt := range opts {
		opt.parseOption(&p)
	}
	log := p.log
	p.fill()
	p.log = log
	return &p
}

func (o *parsectx) parseOption(p *parsectx) {
	if p.funcs != nil || p.nodefaults || p.log != nil {
		panic("bitexpr: preset applied to non-default parse config")
	}
	*p = *o
}
