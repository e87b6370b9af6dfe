package selector

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/rect2query/internal/decompose"
	"github.com/ivlev/rect2query/internal/pattern"
)

// Strategy names one way of decomposing a raster.
type Strategy int

const (
	Horizontal Strategy = iota // merge rows top to bottom
	Vertical                   // merge columns left to right
	RunLength                  // one rectangle per row run
	numStrategies
)

// Auto is the pseudo-strategy that tries all of them and keeps the shortest.
const Auto Strategy = -1

func (s Strategy) String() string {
	switch s {
	case Auto:
		return "auto"
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case RunLength:
		return "runlength"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy resolves a strategy name. The empty string means Auto.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "auto", "":
		return Auto, nil
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	case "runlength", "rle":
		return RunLength, nil
	default:
		return Auto, fmt.Errorf("unknown strategy: %s", name)
	}
}

// Decompose runs a single strategy on g.
func (s Strategy) Decompose(g decompose.Grid) []decompose.Rect {
	switch s {
	case Horizontal:
		return decompose.Horizontal(g)
	case Vertical:
		return decompose.Vertical(g)
	case RunLength:
		return decompose.RunLength(g)
	default:
		panic(fmt.Sprintf("selector: cannot decompose with %v", s))
	}
}

// Result is the decomposition chosen for one raster.
type Result struct {
	Strategy Strategy
	Rects    []decompose.Rect
	Query    string
	// Lengths holds the encoded length of every strategy that was run,
	// indexed by Strategy.
	Lengths map[Strategy]int
}

// Select decomposes g with every strategy concurrently and keeps the one
// with the shortest encoding. Ties go to Horizontal, then Vertical, then
// RunLength. A raster without foreground yields an empty Query.
func Select(ctx context.Context, g decompose.Grid) (*Result, error) {
	var candidates [numStrategies][]decompose.Rect

	eg, ctx := errgroup.WithContext(ctx)
	for s := Horizontal; s < numStrategies; s++ {
		s := s
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			candidates[s] = s.Decompose(g)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Strategy: Horizontal, Lengths: make(map[Strategy]int, numStrategies)}
	best := -1
	for s := Horizontal; s < numStrategies; s++ {
		n := pattern.Len(candidates[s])
		res.Lengths[s] = n
		if best < 0 || n < best {
			best = n
			res.Strategy = s
		}
	}
	res.Rects = candidates[res.Strategy]
	res.Query = pattern.Encode(res.Rects)
	return res, nil
}

// Run decomposes g with s, or with Select when s is Auto.
func Run(ctx context.Context, g decompose.Grid, s Strategy) (*Result, error) {
	if s == Auto {
		return Select(ctx, g)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rects := s.Decompose(g)
	query := pattern.Encode(rects)
	return &Result{
		Strategy: s,
		Rects:    rects,
		Query:    query,
		Lengths:  map[Strategy]int{s: len(query)},
	}, nil
}
