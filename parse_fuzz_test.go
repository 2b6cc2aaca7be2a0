//go:build go1.18
// +build go1.18

package bitexpr_test

import (
	"errors"
	"testing"

	"github.com/zephyrtronium/bitexpr"
)

func FuzzParse(f *testing.F) {
	f.Add("1+2*3")
	f.Add("bits(0, 0x3f) & ~bit(7)")
	f.Add("- -2")
	f.Add("five(1,")
	f.Add("0n10 1.5e+")
	f.Fuzz(func(t *testing.T, s string) {
		_, err := bitexpr.Parse(s)
		if err == nil {
			return
		}
		var e *bitexpr.Error
		if !errors.As(err, &e) {
			t.Fatalf("%q: error %#v is not *bitexpr.Error", s, err)
		}
		if e.Pos() < 0 || e.Pos() > len(s) {
			t.Errorf("%q: error position %d out of range: %v", s, e.Pos(), err)
		}
	})
}
