package lyapunov

import (
	"math"

	"github.com/san-kum/fragdyn/internal/embed"
	"github.com/san-kum/fragdyn/internal/neighbors"
)

// tracker follows each anchor and its neighbors forward in time and turns
// their mean squared separation into log divergences.
type tracker struct {
	emb     *embed.Embedding
	minDim  int
	maxDim  int
	horizon int
	sum     []float64
	count   []int
}

func newTracker(emb *embed.Embedding, minDim, maxDim, horizon int) *tracker {
	return &tracker{
		emb:     emb,
		minDim:  minDim,
		maxDim:  maxDim,
		horizon: horizon,
		sum:     make([]float64, horizon+1),
		count:   make([]int, horizon+1),
	}
}

// observe accumulates anchor's divergence against every neighbor in sets and
// returns the number of (anchor, neighbor) pairs seen.
func (t *tracker) observe(anchor int, sets *neighbors.Sets, acc *Accumulator) int {
	pairs := 0
	for dim := t.minDim; dim <= t.maxDim; dim++ {
		for h := range t.sum {
			t.sum[h] = 0
			t.count[h] = 0
		}

		found := sets.Found(dim)
		pairs += len(found)
		for _, j := range found {
			for h := 0; h <= t.horizon; h++ {
				// zero separation carries no log information
				if d := t.emb.Dist2(anchor+h, j+h, dim); d > 0 {
					t.sum[h] += d
					t.count[h]++
				}
			}
		}

		for h := 0; h <= t.horizon; h++ {
			if t.count[h] > 0 {
				acc.Add(dim, h, 0.5*math.Log(t.sum[h]/float64(t.count[h])))
			}
		}
	}
	return pairs
}
