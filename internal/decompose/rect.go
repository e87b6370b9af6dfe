package decompose

import "fmt"

// Run is a maximal span of foreground cells along one line, [Start, End).
type Run struct {
	Start int
	End   int
}

// Len returns the number of cells in the run.
func (r Run) Len() int {
	return r.End - r.Start
}

// Rect is an axis-aligned rectangle of cells, half-open on both axes:
// rows [Row0, Row1) and columns [Col0, Col1). A Rect is never empty.
type Rect struct {
	Row0 int `yaml:"row0"`
	Row1 int `yaml:"row1"`
	Col0 int `yaml:"col0"`
	Col1 int `yaml:"col1"`
}

// Width returns the number of columns.
func (r Rect) Width() int {
	return r.Col1 - r.Col0
}

// Height returns the number of rows.
func (r Rect) Height() int {
	return r.Row1 - r.Row0
}

// Area returns the number of cells covered.
func (r Rect) Area() int {
	return r.Width() * r.Height()
}

// Contains reports whether cell (row, col) lies inside r.
func (r Rect) Contains(row, col int) bool {
	return row >= r.Row0 && row < r.Row1 && col >= r.Col0 && col < r.Col1
}

// Overlaps reports whether r and o share at least one cell.
func (r Rect) Overlaps(o Rect) bool {
	return r.Row0 < o.Row1 && o.Row0 < r.Row1 && r.Col0 < o.Col1 && o.Col0 < r.Col1
}

func (r Rect) String() string {
	return fmt.Sprintf("R: (%dx%d) %d:%d, %d:%d", r.Width(), r.Height(), r.Row0, r.Row1, r.Col0, r.Col1)
}

// box is a rectangle in sweep coordinates: primary range [a0, a1) along the
// line index, secondary range [b0, b1) within a line.
type box struct {
	a0, a1 int
	b0, b1 int
}
