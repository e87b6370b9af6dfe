package decompose

import "fmt"

// Verify checks that rects are non-empty, lie inside g, do not overlap and
// cover exactly the foreground cells of g.
func Verify(g Grid, rects []Rect) error {
	h, w := g.Height(), g.Width()
	owner := make([]int, h*w)

	for k, r := range rects {
		if r.Row0 >= r.Row1 || r.Col0 >= r.Col1 {
			return fmt.Errorf("rect %d (%v) is empty", k, r)
		}
		if r.Row0 < 0 || r.Col0 < 0 || r.Row1 > h || r.Col1 > w {
			return fmt.Errorf("rect %d (%v) is outside the %dx%d grid", k, r, w, h)
		}
		for y := r.Row0; y < r.Row1; y++ {
			for x := r.Col0; x < r.Col1; x++ {
				if g[y][x] == 0 {
					return fmt.Errorf("rect %d (%v) covers background cell (%d,%d)", k, r, y, x)
				}
				if o := owner[y*w+x]; o != 0 {
					return fmt.Errorf("rects %d and %d overlap at (%d,%d)", o-1, k, y, x)
				}
				owner[y*w+x] = k + 1
			}
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g[y][x] != 0 && owner[y*w+x] == 0 {
				return fmt.Errorf("foreground cell (%d,%d) is not covered", y, x)
			}
		}
	}
	return nil
}
