package boxgrid

import (
	"math"

	"github.com/san-kum/fragdyn/internal/dynamo"
	"github.com/san-kum/fragdyn/internal/embed"
)

const (
	// SizeLyapunov is the grid side used by the divergence estimator.
	SizeLyapunov = 128
	// SizeFNN is the grid side used by the false-neighbor estimator.
	SizeFNN = 1024

	empty int32 = -1
)

// Grid is a toroidal box grid over a 2-D projection of delay vectors:
// x[i] on one axis and x[i+offset] on the other. Buckets are chains kept in
// an arena: heads holds the last inserted index per bucket and next links
// each index to the one inserted before it.
//
// A Grid is built for a single radius. Build discards everything from the
// previous radius.
type Grid struct {
	size   int
	mask   int
	heads  []int32
	next   []int32
	eps    float64
	offset int
	n      int
}

// New allocates a size×size grid. size must be a power of two no smaller than 4.
func New(size int) (*Grid, error) {
	if size < 4 || size&(size-1) != 0 {
		return nil, dynamo.InvalidParam("grid size", float64(size), "must be a power of two >= 4")
	}
	return &Grid{
		size:  size,
		mask:  size - 1,
		heads: make([]int32, size*size),
	}, nil
}

func (g *Grid) Size() int   { return g.size }
func (g *Grid) Points() int { return g.n }

// Key returns the wrapped box coordinate of v at the current radius.
func (g *Grid) Key(v float64) int {
	return int(math.Floor(v/g.eps)) & g.mask
}

func (g *Grid) bucket(x, y int) int {
	return (x&g.mask)*g.size + (y & g.mask)
}

// Build clears the grid and inserts anchors 0..n-1 of e in increasing order,
// keyed by (x[i], x[i+offset]) at radius eps.
func (g *Grid) Build(e *embed.Embedding, eps float64, offset, n int) {
	g.eps = eps
	g.offset = offset
	g.n = n

	for i := range g.heads {
		g.heads[i] = empty
	}
	if cap(g.next) < n {
		g.next = make([]int32, n)
	}
	g.next = g.next[:n]

	for i := 0; i < n; i++ {
		b := g.bucket(g.Key(e.At(i)), g.Key(e.At(i+offset)))
		g.next[i] = g.heads[b]
		g.heads[b] = int32(i)
	}
}

// Scan visits every point stored in the 3×3 block of boxes around anchor i.
// Within a box points are visited from the most recently inserted one.
// Scanning stops as soon as fn returns false.
func (g *Grid) Scan(e *embed.Embedding, i int, fn func(j int) bool) {
	x := g.Key(e.At(i))
	y := g.Key(e.At(i + g.offset))

	for x1 := x - 1; x1 <= x+1; x1++ {
		for y1 := y - 1; y1 <= y+1; y1++ {
			for j := g.heads[g.bucket(x1, y1)]; j != empty; j = g.next[j] {
				if !fn(int(j)) {
					return
				}
			}
		}
	}
}

// Bucket lists the indices stored in box (x, y), most recent first.
func (g *Grid) Bucket(x, y int) []int {
	var out []int
	for j := g.heads[g.bucket(x, y)]; j != empty; j = g.next[j] {
		out = append(out, int(j))
	}
	return out
}
