package main

import (
	"strconv"
	"strings"

	"github.com/zephyrtronium/bitexpr"
)

// Render formats a result as decimal, hex, octal, and binary lines. If the
// high bit is set, the decimal line also shows the signed value. The float
// representation is shown when it differs from the integer.
func Render(n bitexpr.Number) []string {
	dec := "dec " + separate(strconv.FormatUint(n.Int, 10), ",", 3)
	if n.Int>>63 != 0 {
		dec += " (" + strconv.FormatInt(n.Int64(), 10) + ")"
	}
	r := []string{
		dec,
		"hex 0x" + separate(strconv.FormatUint(n.Int, 16), "_", 4),
		"oct 0o" + strconv.FormatUint(n.Int, 8),
		"bin 0n" + separate(strconv.FormatUint(n.Int, 2), "_", 8),
	}
	if n.Float != float64(n.Int) && n.Float != float64(n.Int64()) {
		r = append(r, "flt "+strconv.FormatFloat(n.Float, 'g', -1, 64))
	}
	return r
}

// Ruler draws the integer representation as bytes of binary digits under
// the index of each byte's top bit.
func Ruler(x uint64) []string {
	k := 1
	for k < 8 && x>>(8*k) != 0 {
		k++
	}
	var idx, bin strings.Builder
	for i := k - 1; i >= 0; i-- {
		s := strconv.Itoa(8*i + 7)
		idx.WriteString(s)
		b := strconv.FormatUint(x>>(8*i)&0xff, 2)
		bin.WriteString(strings.Repeat("0", 8-len(b)))
		bin.WriteString(b)
		if i > 0 {
			idx.WriteString(strings.Repeat(" ", 9-len(s)))
			bin.WriteByte(' ')
		}
	}
	return []string{idx.String(), bin.String()}
}

// Caret marks byte offset pos of a line that starts at column indent.
func Caret(indent, pos int) string {
	return strings.Repeat(" ", indent+pos) + "^"
}

// separate inserts sep between every group of n digits, counting from the
// right.
func separate(num, sep string, n int) string {
	var b strings.Builder
	for i := 0; i < len(num); i++ {
		if i > 0 && (len(num)-i)%n == 0 {
			b.WriteString(sep)
		}
		b.WriteByte(num[i])
	}
	return b.String()
}
