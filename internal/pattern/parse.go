package pattern

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ivlev/rect2query/internal/decompose"
)

// Predicate is one branch of a pattern, kept in Vim's own terms: 1-based
// positions with exclusive bounds on both sides.
type Predicate struct {
	ColAfter   int // \%>Nc
	ColBefore  int // \%<Nc
	LineAfter  int // \%>Nl
	LineBefore int // \%<Nl
}

// Matches reports whether the 1-based position (line, col) satisfies p.
func (p Predicate) Matches(line, col int) bool {
	return col > p.ColAfter && col < p.ColBefore && line > p.LineAfter && line < p.LineBefore
}

// Rect converts p back to 0-based half-open coordinates.
func (p Predicate) Rect() decompose.Rect {
	return decompose.Rect{
		Row0: p.LineAfter,
		Row1: p.LineBefore - 1,
		Col0: p.ColAfter,
		Col1: p.ColBefore - 1,
	}
}

// Match reports whether the 0-based cell (row, col) is selected by any of
// preds, the way Vim evaluates the alternation.
func Match(preds []Predicate, row, col int) bool {
	for _, p := range preds {
		if p.Matches(row+1, col+1) {
			return true
		}
	}
	return false
}

// Parse splits a pattern produced by Encode into its predicates. Every
// branch must carry exactly one atom of each kind, in any order.
func Parse(query string) ([]Predicate, error) {
	if query == "" {
		return nil, nil
	}

	branches := strings.Split(query, Or)
	preds := make([]Predicate, 0, len(branches))
	for i, b := range branches {
		p, err := parseBranch(b)
		if err != nil {
			return nil, fmt.Errorf("branch %d: %w", i, err)
		}
		preds = append(preds, p)
	}
	return preds, nil
}

// Decode parses query and returns the rectangles it describes.
func Decode(query string) ([]decompose.Rect, error) {
	preds, err := Parse(query)
	if err != nil {
		return nil, err
	}
	rects := make([]decompose.Rect, len(preds))
	for i, p := range preds {
		rects[i] = p.Rect()
	}
	return rects, nil
}

func parseBranch(s string) (Predicate, error) {
	var p Predicate
	seen := map[string]bool{}

	for s != "" {
		if !strings.HasPrefix(s, `\%`) || len(s) < 4 {
			return p, fmt.Errorf("malformed atom %q", s)
		}
		op := s[2]
		s = s[3:]

		end := strings.IndexAny(s, "cl")
		if end <= 0 {
			return p, fmt.Errorf("missing position in %q", s)
		}
		n, err := strconv.Atoi(s[:end])
		if err != nil {
			return p, fmt.Errorf("bad position %q: %w", s[:end], err)
		}
		unit := s[end]
		s = s[end+1:]

		key := string([]byte{op, unit})
		if seen[key] {
			return p, fmt.Errorf("duplicate atom %%%c%c", op, unit)
		}
		seen[key] = true

		switch key {
		case ">c":
			p.ColAfter = n
		case "<c":
			p.ColBefore = n
		case ">l":
			p.LineAfter = n
		case "<l":
			p.LineBefore = n
		default:
			return p, fmt.Errorf("unsupported atom %%%c%c", op, unit)
		}
	}

	if len(seen) != 4 {
		return p, fmt.Errorf("expected 4 atoms, got %d", len(seen))
	}
	return p, nil
}
