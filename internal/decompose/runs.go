package decompose

// Runs returns the maximal runs of non-zero cells in line, left to right.
func Runs(line []uint8) []Run {
	return appendRuns(nil, line)
}

func appendRuns(runs []Run, line []uint8) []Run {
	start := -1
	for i, v := range line {
		switch {
		case v != 0 && start < 0:
			start = i
		case v == 0 && start >= 0:
			runs = append(runs, Run{Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, Run{Start: start, End: len(line)})
	}
	return runs
}
