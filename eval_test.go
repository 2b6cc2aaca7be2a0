package bitexpr_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/zephyrtronium/bitexpr"
)

func TestEval(t *testing.T) {
	cases := []struct {
		name string
		src  string
		i    uint64
		f    float64
	}{
		{"num", "1", 1, 1},
		{"hex", "0x128", 0x128, 0x128},
		{"bin", "0n111", 7, 7},
		{"oct", "0o777", 0777, 0777},
		{"spaced", "0x1 0", 16, 16},
		{"frac", "1.5", 1, 1.5},
		{"exp", "1.5e3", 1500, 1500},

		{"prec", "1+2*3", 7, 7},
		{"group", "(1+2)*3", 9, 9},
		{"nested-div", "5/(5/(5/(5)))", 1, 1},
		{"nested", "212 + (1 * (3 - (4 * 5)))", 195, 195},
		{"radix-sum", "((0x128)) + 0n111", 303, 303},
		{"mixed-unary", "+8 + -2", 6, 6},
		{"neg", "-1", math.MaxUint64, -1},
		{"negneg-paren", "-(-2)", 2, 2},
		{"sub-wrap", "1-2", math.MaxUint64, -1},
		{"mul-wrap", "0x100000000*0x100000000", 0, 0x1p64},
		{"div", "7/2", 3, 3.5},
		{"rem", "7%3", 1, 1},
		{"frac-add", "1.5+1.5", 2, 3},

		{"shl", "1<<4", 16, 16},
		{"shl-63", "1<<63", 1 << 63, 0x1p63},
		{"shr", "0x80>>3", 16, 16},
		{"shl-64", "1<<64", 1, 1},
		{"shl-65", "1<<65", 2, 2},
		{"shr-64", "0x80>>64", 0x80, 0x80},
		{"shr-67", "0x80>>67", 16, 16},
		{"shl-frac", "1<<2.5", 4, 4},
		{"and", "0xff & 0x0f", 0x0f, 0x0f},
		{"or", "0xf0 | 0x0f", 0xff, 0xff},
		{"xor", "0xff ^ 0x0f", 0xf0, 0xf0},
		{"not", "~0", math.MaxUint64, 0x1p64},
		{"not-prec", "~0 >> 60", 15, 15},

		{"lt", "1<2", 1, 1},
		{"lt-neg", "-1<0", 1, 1},
		{"le", "2<=2", 1, 1},
		{"gt", "1>2", 0, 0},
		{"ge", "3>=2", 1, 1},
		{"gt-big", "0xffffffffffffffff > 0xfffffffffffffffe", 1, 1},
		{"eq", "2==2", 1, 1},
		{"eq-frac", "1.5==1.7", 0, 0},
		{"eq-eps", "0.1+0.2 == 0.3", 1, 1},
		{"ne", "2!=2", 0, 0},
		{"cmp-chain", "1 < 2 == 1", 1, 1},

		{"sum", "sum(1, 2, 3)", 6, 6},
		{"sum-wrap", "sum(0xffffffffffffffff, 2)", 1, 0x1p64},
		{"avg", "avg(1, 2)", 1, 1.5},
		{"avg1", "avg(5)", 5, 5},
		{"bit", "bit(3)", 8, 8},
		{"bit63", "bit(63)", 1 << 63, 0x1p63},
		{"bits", "bits(0, 3)", 15, 15},
		{"bits-rev", "bits(7, 4)", 0xf0, 0xf0},
		{"bits-all", "bits(0, 63)", math.MaxUint64, 0x1p64},
		{"min", "min(3, 1, 2)", 1, 1},
		{"max", "max(3, 1, 2)", 3, 3},
		{"max-neg", "max(-1, 0)", 0, 0},
		{"pow", "pow(2, 10)", 1024, 1024},
		{"pow-zero", "pow(0, 0)", 1, 1},
		{"pow-neg", "pow(-2, 3)", math.MaxUint64 - 7, -8},
		{"popcnt", "popcnt(0xff)", 8, 8},
		{"nested-calls", "sum(bit(1), bits(2, 3), avg(4, 4))", 18, 18},
		{"call-expr", "bit(1+2) | bit(0)", 9, 9},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := bitexpr.Parse(c.src)
			if err != nil {
				t.Fatal(c.src, "failed to parse:", err)
			}
			r, err := a.Eval()
			if err != nil {
				t.Fatal("evaluation error:", err)
			}
			if r.Int != c.i {
				t.Errorf("wrong integer result: want %d, got %d", c.i, r.Int)
			}
			if r.Float != c.f {
				t.Errorf("wrong float result: want %g, got %g", c.f, r.Float)
			}
		})
	}
}

func TestEvalIdempotent(t *testing.T) {
	srcs := []string{"1+2*3", "sum(1, 2, bit(3))", "avg(7, 8, 9) << 2", "-1.5 * 4"}
	for _, src := range srcs {
		a, err := bitexpr.Parse(src)
		if err != nil {
			t.Fatalf("%q failed to parse: %v", src, err)
		}
		want, err := a.Eval()
		if err != nil {
			t.Fatalf("%q failed to evaluate: %v", src, err)
		}
		for i := 0; i < 3; i++ {
			if got, err := a.Eval(); err != nil || got != want {
				t.Errorf("%q evaluation %d: want %v, got %v, %v", src, i, want, got, err)
			}
			if got, err := bitexpr.EvalString(src); err != nil || got != want {
				t.Errorf("%q reparse %d: want %v, got %v, %v", src, i, want, got, err)
			}
		}
	}
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind bitexpr.ErrorKind
		pos  int
	}{
		{"div-zero", "1/0", bitexpr.FailedEvaluation, 1},
		{"div-frac", "1/0.5", bitexpr.FailedEvaluation, 1},
		{"div-float-zero", "1/(0.5*0.0)", bitexpr.FailedEvaluation, 1},
		{"rem-zero", "1%0", bitexpr.FailedEvaluation, 1},
		{"div-float-only-zero", "1/(2-1.5-0.5)", bitexpr.FailedEvaluation, 1},
		{"rem-float-only-zero", "1%(2-1.5-0.5)", bitexpr.FailedEvaluation, 1},
		{"shl-huge", "1<<0x100000000", bitexpr.FailedEvaluation, 1},
		{"shr-huge", "1>>4294967296.5", bitexpr.FailedEvaluation, 1},
		{"shr-neg", "1>>-1", bitexpr.FailedEvaluation, 1},
		{"bit64", "bit(64)", bitexpr.FailedEvaluation, 0},
		{"bit-neg", "bit(-1)", bitexpr.FailedEvaluation, 0},
		{"bits64", "bits(0,64)", bitexpr.FailedEvaluation, 0},
		{"bits-neg", "1 + bits(-1, 3)", bitexpr.FailedEvaluation, 4},
		{"nested", "sum(1, 2/0)", bitexpr.FailedEvaluation, 8},

		{"avg0", "avg()", bitexpr.InvalidParamCount, 0},
		{"sum1", "sum(1)", bitexpr.InvalidParamCount, 0},
		{"bit2", "bit(1, 2)", bitexpr.InvalidParamCount, 0},
		{"negneg", "- -2", bitexpr.MissingOperand, 2},
		{"plus3", "2+++4", bitexpr.MissingOperand, 3},
		{"empty", "", bitexpr.EmptyExpr, 0},
		{"emptyparen", "()", bitexpr.EmptyExpr, 1},
		{"open", "(", bitexpr.MismatchParenthesis, 0},
		{"close", ")", bitexpr.MismatchParenthesis, 0},
		{"sep", ",2", bitexpr.InvalidExpr, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := bitexpr.EvalString(c.src)
			if err == nil {
				t.Fatalf("%q evaluated to %v", c.src, r)
			}
			var e *bitexpr.Error
			if !errors.As(err, &e) {
				t.Fatalf("%#v is not *bitexpr.Error", err)
			}
			if e.Kind != c.kind {
				t.Errorf("%q: want %v, got %v (%v)", c.src, c.kind, e.Kind, err)
			}
			if e.Pos() != c.pos {
				t.Errorf("%q: want position %d, got %d (%v)", c.src, c.pos, e.Pos(), err)
			}
			if c.kind == bitexpr.FailedEvaluation {
				var d *bitexpr.DomainError
				if !errors.As(err, &d) {
					t.Errorf("%#v does not wrap *bitexpr.DomainError", err)
				}
			}
		})
	}
}

func TestEvalParsesBeforeFailing(t *testing.T) {
	// Out of range bit indices are evaluation errors, not parse errors.
	for _, src := range []string{"bit(64)", "bit(-1)", "bits(0,64)", "1/0"} {
		a, err := bitexpr.Parse(src)
		if err != nil {
			t.Errorf("%q failed to parse: %v", src, err)
			continue
		}
		if _, err := a.Eval(); !errors.Is(err, bitexpr.ErrFailedEvaluation) {
			t.Errorf("%q: want FailedEvaluation, got %v", src, err)
		}
	}
}

func TestEvalZeroExpr(t *testing.T) {
	var a bitexpr.Expr
	_, err := a.Eval()
	if !errors.Is(err, bitexpr.ErrInvalidParamCount) {
		t.Errorf("want InvalidParamCount, got %v", err)
	}
}

func BenchmarkEval(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"nums", "2+3+4"},
		{"bits", "(0xff00 >> 4) & ~bits(0, 3) | bit(12)"},
		{"calls", "sum(1, 2, 3, 4, 5, 6, 7, 8) + avg(1, 2, 3)"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			a, err := bitexpr.Parse(c.src)
			if err != nil {
				b.Fatal(err)
			}
			for i := 0; i < b.N; i++ {
				a.Eval()
			}
		})
	}
}

func Example() {
	for _, src := range []string{"1+2*3", "0x80 | bit(2)", "avg(1, 2)", "-1", "bits(0, 64)"} {
		r, err := bitexpr.EvalString(src)
		if err != nil {
			fmt.Printf("%-14s error at %d: %v\n", src, err.(bitexpr.InputError).Pos(), err)
			continue
		}
		fmt.Printf("%-14s %d %#x %g\n", src, r.Int, r.Int, r.Float)
	}

	// Output:
	// 1+2*3          7 0x7 7
	// 0x80 | bit(2)  132 0x84 132
	// avg(1, 2)      1 0x1 1.5
	// -1             18446744073709551615 0xffffffffffffffff -1
	// bits(0, 64)    error at 0: 0: evaluation failed: 64 (64) outside domain of bits (argument 2): bit index out of range [0, 63]
}
