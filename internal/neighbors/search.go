package neighbors

import (
	"math"

	"github.com/san-kum/fragdyn/internal/boxgrid"
	"github.com/san-kum/fragdyn/internal/embed"
)

// Outcome classifies a single-best query.
type Outcome int

const (
	// NoCandidate means no admissible point was found in the box block.
	NoCandidate Outcome = iota
	// Rejected means a nearest point exists but lies beyond the radius or limit.
	Rejected
	// Accepted means the nearest point passed the radius and limit checks.
	Accepted
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "none"
	}
}

// Best is the nearest admissible neighbor of an anchor.
type Best struct {
	Index int
	Dist  float64
}

// Searcher answers neighbor queries against a built grid. It holds no
// per-query state and may be reused for every anchor of a radius pass.
type Searcher struct {
	emb    *embed.Embedding
	grid   *boxgrid.Grid
	window int
}

// New returns a Searcher excluding candidates within window indices of the anchor.
func New(emb *embed.Embedding, grid *boxgrid.Grid, window int) *Searcher {
	return &Searcher{emb: emb, grid: grid, window: window}
}

func (s *Searcher) excluded(i, j int) bool {
	d := i - j
	if d < 0 {
		d = -d
	}
	return d <= s.window
}

// Sets collects, per embedding dimension, the candidates admitted by Batch.
// Dimension 1 is never filled: the grid filters on two coordinates, so a
// one-coordinate neighborhood cannot be found completely through it.
type Sets struct {
	lists [][]int
}

func NewSets(maxDim int) *Sets {
	return &Sets{lists: make([][]int, maxDim+1)}
}

// Found returns the candidates whose dim-dimensional distance is within the radius.
func (s *Sets) Found(dim int) []int {
	if dim <= 0 || dim >= len(s.lists) {
		return nil
	}
	return s.lists[dim]
}

func (s *Sets) reset() {
	for i := range s.lists {
		s.lists[i] = s.lists[i][:0]
	}
}

// Batch fills sets with every neighbor of anchor within eps (Euclidean) for
// each dimension 2..maxDim. The squared distance only grows as coordinates
// are added, so a candidate is dropped for good at the first dimension where
// it leaves the radius.
func (s *Searcher) Batch(anchor int, eps float64, maxDim int, sets *Sets) {
	sets.reset()
	eps2 := eps * eps

	s.grid.Scan(s.emb, anchor, func(j int) bool {
		if s.excluded(anchor, j) {
			return true
		}
		d := 0.0
		for k := 0; k < maxDim; k++ {
			diff := s.emb.Coord(anchor, k) - s.emb.Coord(j, k)
			d += diff * diff
			if d > eps2 {
				break
			}
			if k > 0 {
				sets.lists[k+1] = append(sets.lists[k+1], j)
			}
		}
		return true
	})
}

// Nearest finds the candidate with the smallest non-zero Chebyshev distance
// to anchor over dim coordinates. Ties keep the first point met in scan
// order. The result is Accepted only if its distance is within both eps and
// limit.
func (s *Searcher) Nearest(anchor, dim int, eps, limit float64) (Best, Outcome) {
	best := Best{Index: -1, Dist: math.Inf(1)}

	s.grid.Scan(s.emb, anchor, func(j int) bool {
		if s.excluded(anchor, j) {
			return true
		}
		d := s.emb.Chebyshev(anchor, j, dim)
		if d < best.Dist && d > 0 {
			best.Index = j
			best.Dist = d
		}
		return true
	})

	switch {
	case best.Index < 0:
		return best, NoCandidate
	case best.Dist <= eps && best.Dist <= limit:
		return best, Accepted
	default:
		return best, Rejected
	}
}
