package lyapunov

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fragdyn/internal/boxgrid"
	"github.com/san-kum/fragdyn/internal/dynamo"
	"github.com/san-kum/fragdyn/internal/embed"
	"github.com/san-kum/fragdyn/internal/neighbors"
)

const (
	MinDimension = 2
	MaxDimension = 50

	// NoEstimate marks a dimension without enough divergence data for a fit.
	NoEstimate = -1.0
)

const (
	DefaultDelay        = 1
	DefaultEpsilonMin   = 1e-3
	DefaultEpsilonMax   = 1e-2
	DefaultEpsilonCount = 5
	DefaultHorizon      = 10
)

// Params configures Exponents. Radii are fractions of the data range unless
// AbsoluteEpsilon is set, in which case they are in data units.
type Params struct {
	MinDim          int
	MaxDim          int
	Delay           int
	Window          int
	EpsilonMin      float64
	EpsilonMax      float64
	EpsilonCount    int
	Horizon         int
	Reference       int // anchors to use; 0 or too many means all available
	AbsoluteEpsilon bool
	Workers         int
	Progress        dynamo.ProgressFunc
}

func DefaultParams() Params {
	return Params{
		MinDim:       MinDimension,
		MaxDim:       MinDimension,
		Delay:        DefaultDelay,
		EpsilonMin:   DefaultEpsilonMin,
		EpsilonMax:   DefaultEpsilonMax,
		EpsilonCount: DefaultEpsilonCount,
		Horizon:      DefaultHorizon,
		Workers:      1,
	}
}

func (p Params) Validate() error {
	switch {
	case p.MinDim < MinDimension || p.MinDim > MaxDimension:
		return dynamo.InvalidParam("min_dim", float64(p.MinDim), "must be in [2,50]")
	case p.MaxDim < MinDimension || p.MaxDim > MaxDimension:
		return dynamo.InvalidParam("max_dim", float64(p.MaxDim), "must be in [2,50]")
	case p.MaxDim < p.MinDim:
		return dynamo.InvalidParam("max_dim", float64(p.MaxDim), "must not be below min_dim")
	case p.Delay < 1:
		return dynamo.InvalidParam("delay", float64(p.Delay), "must be positive")
	case p.Window < 0:
		return dynamo.InvalidParam("window", float64(p.Window), "must not be negative")
	case p.Horizon < 0:
		return dynamo.InvalidParam("horizon", float64(p.Horizon), "must not be negative")
	case p.Reference < 0:
		return dynamo.InvalidParam("reference", float64(p.Reference), "must not be negative")
	case p.EpsilonCount < 1:
		return dynamo.InvalidParam("epsilon_count", float64(p.EpsilonCount), "must be positive")
	case !(p.EpsilonMin > 0) || math.IsInf(p.EpsilonMin, 0):
		return dynamo.InvalidParam("epsilon_min", p.EpsilonMin, "must be positive and finite")
	case p.EpsilonCount > 1 && (!(p.EpsilonMax > 0) || math.IsInf(p.EpsilonMax, 0)):
		return dynamo.InvalidParam("epsilon_max", p.EpsilonMax, "must be positive and finite")
	}
	return nil
}

// Ladder returns count radii spaced geometrically from lo to hi. A single
// radius is lo itself.
func Ladder(lo, hi float64, count int) []float64 {
	if count <= 1 {
		return []float64{lo}
	}
	fak := math.Pow(hi/lo, 1.0/float64(count-1))
	out := make([]float64, count)
	for l := range out {
		out[l] = lo * math.Pow(fak, float64(l))
	}
	return out
}

// Exponents estimates the maximal Lyapunov exponent of series for every
// embedding dimension in [p.MinDim, p.MaxDim] with the method of Kantz.
//
// For each radius of the ladder every reference anchor is compared with its
// neighbors, and the mean log separation after h steps is accumulated. The
// accumulator is shared by the whole ladder; after each radius the slope of
// its first three steps is fitted and the largest slope is kept. Dimensions
// that never reach three usable steps report NoEstimate.
func Exponents(ctx context.Context, series dynamo.Series, p Params) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	x, rng, err := embed.Rescale(series)
	if err != nil {
		return nil, fmt.Errorf("lyapunov: %w", err)
	}

	epsMin, epsMax, count := p.EpsilonMin, p.EpsilonMax, p.EpsilonCount
	if count == 1 {
		epsMax = epsMin
	}
	if p.AbsoluteEpsilon {
		epsMin /= rng.Interval
		epsMax /= rng.Interval
	}
	if epsMin >= epsMax {
		epsMax = epsMin
		count = 1
	}

	emb := embed.New(x, p.Delay)
	if p.Horizon+emb.Span(p.MaxDim) >= len(x) {
		return nil, fmt.Errorf("lyapunov: %d samples for horizon %d and dimension %d: %w",
			len(x), p.Horizon, p.MaxDim, dynamo.ErrInsufficientLength)
	}

	available := emb.Anchors(p.MaxDim, p.Horizon)
	reference := p.Reference
	if reference == 0 || reference > available {
		reference = available
	}

	est := &kantz{
		emb:       emb,
		p:         p,
		points:    available,
		reference: reference,
		ladder:    Ladder(epsMin, epsMax, count),
		interval:  rng.Interval,
	}
	return est.run(ctx)
}

type kantz struct {
	emb       *embed.Embedding
	p         Params
	points    int
	reference int
	ladder    []float64
	interval  float64
	done      atomic.Int32
}

func (k *kantz) run(ctx context.Context) ([]float64, error) {
	partials := make([]*Accumulator, len(k.ladder))

	workers := k.p.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, eps := range k.ladder {
		g.Go(func() error {
			acc, err := k.pass(gctx, eps)
			if err != nil {
				return err
			}
			partials[i] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]float64, k.p.MaxDim-k.p.MinDim+1)
	for i := range out {
		out[i] = NoEstimate
	}

	total := NewAccumulator(k.p.MinDim, k.p.MaxDim, k.p.Horizon)
	for _, partial := range partials {
		total.Merge(partial)
		for dim := k.p.MinDim; dim <= k.p.MaxDim; dim++ {
			if slope, ok := total.Fit(dim); ok && slope > out[dim-k.p.MinDim] {
				out[dim-k.p.MinDim] = slope
			}
		}
	}
	return out, nil
}

// pass runs every reference anchor at one radius on its own grid.
func (k *kantz) pass(ctx context.Context, eps float64) (*Accumulator, error) {
	grid, err := boxgrid.New(boxgrid.SizeLyapunov)
	if err != nil {
		return nil, err
	}
	grid.Build(k.emb, eps, k.emb.Delay(), k.points)

	search := neighbors.New(k.emb, grid, k.p.Window)
	sets := neighbors.NewSets(k.p.MaxDim)
	tr := newTracker(k.emb, k.p.MinDim, k.p.MaxDim, k.p.Horizon)
	acc := NewAccumulator(k.p.MinDim, k.p.MaxDim, k.p.Horizon)

	pairs := 0
	for i := 0; i < k.reference; i++ {
		if err := ctx.Err(); err != nil {
			return nil, dynamo.Canceled(err)
		}
		search.Batch(i, eps, k.p.MaxDim, sets)
		pairs += tr.observe(i, sets, acc)
	}

	slog.Debug("lyapunov radius pass",
		slog.Float64("epsilon", eps*k.interval),
		slog.Int("anchors", k.reference),
		slog.Int("pairs", pairs))

	k.p.Progress.Report(dynamo.Progress{
		Stage: "epsilon",
		Step:  int(k.done.Add(1)),
		Total: len(k.ladder),
		Value: eps * k.interval,
	})
	return acc, nil
}
