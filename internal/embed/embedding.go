package embed

import (
	"math"

	"github.com/san-kum/fragdyn/internal/dynamo"
)

// Embedding exposes delay vectors of a series without materializing them.
// The vector at anchor i in dimension d is (x[i], x[i+τ], ..., x[i+(d-1)τ]).
type Embedding struct {
	x     dynamo.Series
	delay int
}

func New(x dynamo.Series, delay int) *Embedding {
	return &Embedding{x: x, delay: delay}
}

func (e *Embedding) Delay() int { return e.delay }

// Coord returns coordinate k of the vector anchored at i.
func (e *Embedding) Coord(i, k int) float64 {
	return e.x[i+k*e.delay]
}

// At returns the raw sample at index i.
func (e *Embedding) At(i int) float64 {
	return e.x[i]
}

// Span is the index distance between the first and last coordinate of a
// vector with dim coordinates.
func (e *Embedding) Span(dim int) int {
	return (dim - 1) * e.delay
}

// Anchors is the number of valid anchors for vectors up to maxDim that must
// also be followed for horizon steps.
func (e *Embedding) Anchors(maxDim, horizon int) int {
	n := len(e.x) - e.Span(maxDim) - horizon
	if n < 0 {
		return 0
	}
	return n
}

// Dist2 is the squared Euclidean distance between the dim-dimensional
// vectors anchored at i and j.
func (e *Embedding) Dist2(i, j, dim int) float64 {
	d := 0.0
	for k := 0; k < dim; k++ {
		off := k * e.delay
		diff := e.x[i+off] - e.x[j+off]
		d += diff * diff
	}
	return d
}

// Chebyshev is the maximum coordinate distance between the dim-dimensional
// vectors anchored at i and j.
func (e *Embedding) Chebyshev(i, j, dim int) float64 {
	d := 0.0
	for k := 0; k < dim; k++ {
		off := k * e.delay
		if diff := math.Abs(e.x[i+off] - e.x[j+off]); diff > d {
			d = diff
		}
	}
	return d
}
