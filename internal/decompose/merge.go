package decompose

// openSet holds the rectangles still eligible for extension. Removal only
// clears the liveness flag so indexes stay stable and the scan order is the
// insertion order.
type openSet struct {
	boxes []box
	live  []bool
}

func (s *openSet) reset() {
	s.boxes = s.boxes[:0]
	s.live = s.live[:0]
}

func (s *openSet) push(b box) {
	s.boxes = append(s.boxes, b)
	s.live = append(s.live, true)
}

func (s *openSet) remove(k int) {
	s.live[k] = false
}

func (s *openSet) appendLive(dst []box) []box {
	for k, b := range s.boxes {
		if s.live[k] {
			dst = append(dst, b)
		}
	}
	return dst
}

// Merge decomposes the foreground of ax into disjoint rectangles that cover
// it exactly. Runs on each line are merged greedily into the rectangles
// still open from the previous line; a rectangle is completed on the first
// line that does not extend it. The result is in completion order.
func Merge(ax Axis) []Rect {
	var (
		open, next openSet
		completed  []box
		runs       []Run
		buf        []uint8
	)

	n := ax.Len()
	for i := 0; i < n; i++ {
		buf = ax.Line(i, buf)
		runs = appendRuns(runs[:0], buf)

		next.reset()
		for _, run := range runs {
			mergeRun(&open, &next, run, i)
		}

		completed = open.appendLive(completed)
		open, next = next, open
	}
	completed = open.appendLive(completed)

	rects := make([]Rect, len(completed))
	for k, b := range completed {
		rects[k] = ax.Build(Run{Start: b.a0, End: b.a1}, Run{Start: b.b0, End: b.b1})
	}
	return rects
}

// mergeRun places run (on line i) either into the best-scoring open
// rectangle or into a fresh one-line rectangle.
func mergeRun(open, next *openSet, run Run, i int) {
	best, bestScore := -1, 0
	for k, r := range open.boxes {
		if !open.live[k] || run.End <= r.b0 || run.Start >= r.b1 {
			continue
		}
		score := (min(run.End, r.b1) - max(run.Start, r.b0)) * (i + 1 - r.a0)
		if best < 0 || score > bestScore {
			best, bestScore = k, score
		}
	}

	// A merge has to beat a one-line rectangle of the whole run outright.
	if best < 0 || bestScore <= run.Len() {
		next.push(box{a0: i, a1: i + 1, b0: run.Start, b1: run.End})
		return
	}

	r := open.boxes[best]
	open.remove(best)
	lo, hi := max(run.Start, r.b0), min(run.End, r.b1)

	// Slices of r outside the overlap stop at line i but may still be
	// picked up by a later run on this line.
	if lo > r.b0 {
		open.push(box{a0: r.a0, a1: i, b0: r.b0, b1: lo})
	}
	if hi < r.b1 {
		open.push(box{a0: r.a0, a1: i, b0: hi, b1: r.b1})
	}

	next.push(box{a0: r.a0, a1: i + 1, b0: lo, b1: hi})
	if lo > run.Start {
		next.push(box{a0: i, a1: i + 1, b0: run.Start, b1: lo})
	}
	if hi < run.End {
		next.push(box{a0: i, a1: i + 1, b0: hi, b1: run.End})
	}
}

// RunLength emits one single-row rectangle per run, without merging.
func RunLength(g Grid) []Rect {
	var rects []Rect
	var runs []Run
	for y, row := range g {
		runs = appendRuns(runs[:0], row)
		for _, run := range runs {
			rects = append(rects, Rect{Row0: y, Row1: y + 1, Col0: run.Start, Col1: run.End})
		}
	}
	return rects
}

// Horizontal merges row runs top to bottom.
func Horizontal(g Grid) []Rect {
	return Merge(Rows(g))
}

// Vertical merges column runs left to right.
func Vertical(g Grid) []Rect {
	return Merge(Columns(g))
}
