package pattern

import (
	"math/rand"
	"regexp"
	"strconv"
	"testing"

	"github.com/stvp/assert"

	"github.com/ivlev/rect2query/internal/decompose"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		rects []decompose.Rect
		want  string
	}{
		{"empty", nil, ""},
		{
			"single cell",
			[]decompose.Rect{{Row0: 0, Row1: 1, Col0: 0, Col1: 1}},
			`\%>0c\%<2c\%>0l\%<2l`,
		},
		{
			"two rects",
			[]decompose.Rect{
				{Row0: 0, Row1: 3, Col0: 1, Col1: 3},
				{Row0: 89, Row1: 90, Col0: 9, Col1: 120},
			},
			`\%>1c\%<4c\%>0l\%<4l\|\%>9c\%<121c\%>89l\%<91l`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.rects)
			assert.Equal(t, got, tt.want)
			assert.Equal(t, Len(tt.rects), len(got))
		})
	}
}

func randomRect(r *rand.Rand) decompose.Rect {
	row0, col0 := r.Intn(200), r.Intn(200)
	return decompose.Rect{
		Row0: row0,
		Row1: row0 + 1 + r.Intn(50),
		Col0: col0,
		Col1: col0 + 1 + r.Intn(50),
	}
}

func TestLenMatchesEncode(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for n := 0; n < 100; n++ {
		rects := make([]decompose.Rect, r.Intn(10))
		for i := range rects {
			rects[i] = randomRect(r)
		}
		assert.Equal(t, Len(rects), len(Encode(rects)))
	}
}

// atomRe pulls the positional atoms out of a branch without going through
// Parse, so the check below does not share code with the decoder.
var atomRe = regexp.MustCompile(`\\%([<>])(\d+)([cl])`)

func refMatches(branch string, line, col int) bool {
	atoms := atomRe.FindAllStringSubmatch(branch, -1)
	if len(atoms) != 4 {
		return false
	}
	for _, a := range atoms {
		n, _ := strconv.Atoi(a[2])
		pos := col
		if a[3] == "l" {
			pos = line
		}
		if a[1] == ">" && !(pos > n) || a[1] == "<" && !(pos < n) {
			return false
		}
	}
	return true
}

func TestPredicateRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for n := 0; n < 50; n++ {
		rect := randomRect(r)
		branch := encodeRect(rect)

		preds, err := Parse(branch)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", branch, err)
		}
		assert.Equal(t, len(preds), 1)
		assert.Equal(t, preds[0].Rect(), rect)

		for k := 0; k < 200; k++ {
			row, col := r.Intn(260), r.Intn(260)
			want := rect.Contains(row, col)
			if got := refMatches(branch, row+1, col+1); got != want {
				t.Fatalf("%s: reference match at (%d,%d) = %v, want %v", branch, row, col, got, want)
			}
			if got := preds[0].Matches(row+1, col+1); got != want {
				t.Fatalf("%s: predicate match at (%d,%d) = %v, want %v", branch, row, col, got, want)
			}
		}
	}
}

func TestMatchSelectsForeground(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	for n := 0; n < 20; n++ {
		h, w := 1+r.Intn(15), 1+r.Intn(15)
		g := make(decompose.Grid, h)
		for y := range g {
			g[y] = make([]uint8, w)
			for x := range g[y] {
				if r.Intn(2) == 0 {
					g[y][x] = 1
				}
			}
		}

		preds, err := Parse(Encode(decompose.Horizontal(g)))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if got := Match(preds, y, x); got != (g[y][x] == 1) {
					t.Fatalf("grid #%d: Match(%d,%d) = %v, cell is %d", n, y, x, got, g[y][x])
				}
			}
		}
	}
}

func TestDecode(t *testing.T) {
	rects := []decompose.Rect{
		{Row0: 0, Row1: 1, Col0: 0, Col1: 1},
		{Row0: 1, Row1: 2, Col0: 3, Col1: 4},
		{Row0: 0, Row1: 3, Col0: 1, Col1: 3},
	}
	got, err := Decode(Encode(rects))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	assert.Equal(t, got, rects)

	got, err = Decode("")
	if err != nil {
		t.Fatalf("Decode of empty query failed: %v", err)
	}
	assert.Equal(t, len(got), 0)

	// atom order does not matter
	preds, err := Parse(`\%>0l\%<2l\%>4c\%<7c`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	assert.Equal(t, preds[0], Predicate{ColAfter: 4, ColBefore: 7, LineAfter: 0, LineBefore: 2})
}

func TestParseErrors(t *testing.T) {
	for _, q := range []string{
		`\%>0c\%<2c\%>0l`,
		`\%>0c\%<2c\%>0l\%<2l\%<3l`,
		`\%>0c\%<2c\%>0l\%<xl`,
		`\%=0c\%<2c\%>0l\%<2l`,
		`foo`,
		`\%>0c\%<2c\%>0l\%<2l\|`,
	} {
		t.Run(q, func(t *testing.T) {
			if _, err := Parse(q); err == nil {
				t.Errorf("Expected error for %q", q)
			}
		})
	}
}
