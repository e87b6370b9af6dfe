package decompose

// Axis gives the merge sweep its view of a raster: the lines along the
// primary axis and how to turn sweep coordinates back into a Rect.
type Axis interface {
	// Len returns the number of lines along the primary axis.
	Len() int
	// Line returns line i. Implementations may fill and return buf.
	Line(i int, buf []uint8) []uint8
	// Build maps a primary and a secondary range to a raster rectangle.
	Build(primary, secondary Run) Rect
}

// Rows sweeps a grid top to bottom, one row per line.
type Rows Grid

func (r Rows) Len() int {
	return len(r)
}

func (r Rows) Line(i int, _ []uint8) []uint8 {
	return r[i]
}

func (r Rows) Build(primary, secondary Run) Rect {
	return Rect{Row0: primary.Start, Row1: primary.End, Col0: secondary.Start, Col1: secondary.End}
}

// Columns sweeps a grid left to right, one column per line.
type Columns Grid

func (c Columns) Len() int {
	return Grid(c).Width()
}

func (c Columns) Line(i int, buf []uint8) []uint8 {
	buf = buf[:0]
	for _, row := range c {
		buf = append(buf, row[i])
	}
	return buf
}

func (c Columns) Build(primary, secondary Run) Rect {
	return Rect{Row0: secondary.Start, Row1: secondary.End, Col0: primary.Start, Col1: primary.End}
}
