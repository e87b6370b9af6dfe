// Package pattern serializes rectangle covers as Vim search patterns.
//
// A rectangle becomes four positional atoms, columns first:
//
//	\%>{c0}c\%<{c1+1}c\%>{r0}l\%<{r1+1}l
//
// Vim counts lines and columns from 1 and both atoms are exclusive, so the
// half-open 0-based range [lo, hi) is written as "> lo" and "< hi+1".
// Rectangles are joined with the branch separator \|.
package pattern

import (
	"strconv"
	"strings"

	"github.com/ivlev/rect2query/internal/decompose"
)

// Or is the branch separator placed between rectangles.
const Or = `\|`

// Encode returns the pattern matching exactly the cells of rects, or "" for
// an empty list.
func Encode(rects []decompose.Rect) string {
	var sb strings.Builder
	sb.Grow(len(rects) * 32)
	for i, r := range rects {
		if i > 0 {
			sb.WriteString(Or)
		}
		writeRect(&sb, r)
	}
	return sb.String()
}

// encodeRect returns the pattern for a single rectangle.
func encodeRect(r decompose.Rect) string {
	var sb strings.Builder
	writeRect(&sb, r)
	return sb.String()
}

// Len returns len(Encode(rects)) without building the string.
func Len(rects []decompose.Rect) int {
	if len(rects) == 0 {
		return 0
	}
	n := (len(rects) - 1) * len(Or)
	for _, r := range rects {
		n += 4*4 + digits(r.Col0) + digits(r.Col1+1) + digits(r.Row0) + digits(r.Row1+1)
	}
	return n
}

func writeRect(sb *strings.Builder, r decompose.Rect) {
	writeAtom(sb, '>', r.Col0, 'c')
	writeAtom(sb, '<', r.Col1+1, 'c')
	writeAtom(sb, '>', r.Row0, 'l')
	writeAtom(sb, '<', r.Row1+1, 'l')
}

func writeAtom(sb *strings.Builder, op byte, n int, unit byte) {
	sb.WriteString(`\%`)
	sb.WriteByte(op)
	sb.WriteString(strconv.Itoa(n))
	sb.WriteByte(unit)
}

func digits(n int) int {
	d := 1
	if n < 0 {
		d++
		n = -n
	}
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}
