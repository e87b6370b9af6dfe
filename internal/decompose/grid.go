package decompose

import "fmt"

// Grid is a binary raster stored row-major: Grid[row][col] is 1 for a
// foreground cell and 0 for background.
type Grid [][]uint8

// Height returns the number of rows.
func (g Grid) Height() int {
	return len(g)
}

// Width returns the number of columns of the first row (0 for an empty grid).
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Validate reports ragged rows and non-binary cells. The decomposition
// itself trusts its input, so callers should validate before decomposing.
func (g Grid) Validate() error {
	w := g.Width()
	for y, row := range g {
		if len(row) != w {
			return fmt.Errorf("row %d has width %d, expected %d", y, len(row), w)
		}
		for x, v := range row {
			if v > 1 {
				return fmt.Errorf("cell (%d,%d) has non-binary value %d", y, x, v)
			}
		}
	}
	return nil
}

// Count returns the number of foreground cells.
func (g Grid) Count() int {
	n := 0
	for _, row := range g {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}
