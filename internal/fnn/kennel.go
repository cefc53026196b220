package fnn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/fragdyn/internal/boxgrid"
	"github.com/san-kum/fragdyn/internal/dynamo"
	"github.com/san-kum/fragdyn/internal/embed"
	"github.com/san-kum/fragdyn/internal/neighbors"
)

const (
	MinOrder = 1
	MaxOrder = 50

	DefaultDelay    = 1
	DefaultEpsilon0 = 1e-5
	DefaultRatio    = 2.0
)

// Params configures Fractions.
type Params struct {
	MinEmb   int
	MaxEmb   int
	Ratio    float64
	Delay    int
	Theiler  int
	Epsilon0 float64 // first search radius, as a fraction of the data range
	Progress dynamo.ProgressFunc
}

func DefaultParams() Params {
	return Params{
		MinEmb:   MinOrder,
		MaxEmb:   5,
		Ratio:    DefaultRatio,
		Delay:    DefaultDelay,
		Epsilon0: DefaultEpsilon0,
	}
}

func (p Params) Validate() error {
	switch {
	case p.MinEmb < MinOrder || p.MinEmb > MaxOrder:
		return dynamo.InvalidParam("min_emb", float64(p.MinEmb), "must be in [1,50]")
	case p.MaxEmb < p.MinEmb || p.MaxEmb > MaxOrder:
		return dynamo.InvalidParam("max_emb", float64(p.MaxEmb), "must be in [min_emb,50]")
	case !(p.Ratio > 0) || math.IsInf(p.Ratio, 0):
		return dynamo.InvalidParam("ratio", p.Ratio, "must be positive and finite")
	case p.Delay < 1:
		return dynamo.InvalidParam("delay", float64(p.Delay), "must be positive")
	case p.Theiler < 0:
		return dynamo.InvalidParam("theiler", float64(p.Theiler), "must not be negative")
	case !(p.Epsilon0 > 0) || math.IsInf(p.Epsilon0, 0):
		return dynamo.InvalidParam("epsilon0", p.Epsilon0, "must be positive and finite")
	}
	return nil
}

// Row is the false-neighbor statistic of one embedding order. Sizes are in
// data units.
type Row struct {
	Order         int     `json:"order"`
	FalseFraction float64 `json:"false_fraction"`
	MeanSize      float64 `json:"mean_size"`
	RMSSize       float64 `json:"rms_size"`
}

// Fractions computes the fraction of false nearest neighbors (Kennel, Brown
// and Abarbanel, Phys. Rev. A 45, 3403, 1992) for every embedding order in
// [p.MinEmb, p.MaxEmb].
//
// The nearest neighbor of each point is searched in the maximum norm with a
// radius that grows by √2 per round until every point is resolved or the
// radius reaches 2·σ/Ratio. A neighbor is false when one more delay
// coordinate stretches its distance by more than Ratio.
func Fractions(ctx context.Context, series dynamo.Series, p Params) ([]Row, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(series) < (p.MaxEmb+1)*p.Delay {
		return nil, fmt.Errorf("fnn: %d samples for order %d: %w",
			len(series), p.MaxEmb, dynamo.ErrInsufficientLength)
	}

	x, rng, err := embed.Rescale(series)
	if err != nil {
		if errors.Is(err, dynamo.ErrDegenerateRange) {
			return nil, fmt.Errorf("fnn: %w: %w", dynamo.ErrDegenerateVariance, err)
		}
		return nil, fmt.Errorf("fnn: %w", err)
	}
	_, dev, err := embed.Deviation(x)
	if err != nil {
		return nil, fmt.Errorf("fnn: %w", err)
	}

	grid, err := boxgrid.New(boxgrid.SizeFNN)
	if err != nil {
		return nil, err
	}

	emb := embed.New(x, p.Delay)
	k := &kennel{
		emb:      emb,
		p:        p,
		grid:     grid,
		search:   neighbors.New(emb, grid, p.Theiler),
		points:   len(x) - (p.MaxEmb+1)*p.Delay,
		resolved: make([]bool, len(x)-p.MaxEmb*p.Delay),
		dev:      dev,
		interval: rng.Interval,
		eps0:     p.Epsilon0,
	}

	rows := make([]Row, 0, p.MaxEmb-p.MinEmb+1)
	for m := p.MinEmb; m <= p.MaxEmb; m++ {
		row, err := k.order(ctx, m)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)

		p.Progress.Report(dynamo.Progress{
			Stage: "embedding",
			Step:  m - p.MinEmb + 1,
			Total: p.MaxEmb - p.MinEmb + 1,
			Value: float64(m),
		})
	}
	return rows, nil
}

type kennel struct {
	emb      *embed.Embedding
	p        Params
	grid     *boxgrid.Grid
	search   *neighbors.Searcher
	points   int
	resolved []bool
	dev      float64
	interval float64
	eps0     float64
}

// order resolves the neighbors of every anchor in m dimensions.
func (k *kennel) order(ctx context.Context, m int) (Row, error) {
	for i := range k.resolved {
		k.resolved[i] = false
	}

	limit := k.dev / k.p.Ratio
	var (
		done, falses int
		sum, sq      float64
		rejected     int
	)

	eps := k.eps0
	allDone := false
	for !allDone && eps < 2*limit {
		allDone = true
		k.grid.Build(k.emb, eps, k.emb.Span(m), k.points)

		for i := range k.resolved {
			if k.resolved[i] {
				continue
			}
			if err := ctx.Err(); err != nil {
				return Row{}, dynamo.Canceled(err)
			}

			best, out := k.search.Nearest(i, m, eps, limit)
			if out != neighbors.Accepted {
				if out == neighbors.Rejected {
					rejected++
				}
				allDone = false
				continue
			}

			k.resolved[i] = true
			done++
			sum += best.Dist
			sq += best.Dist * best.Dist
			if k.stretch(i, best, m) > k.p.Ratio {
				falses++
			}
		}

		eps *= math.Sqrt2
		if done == 0 {
			k.eps0 = eps
		}
	}

	slog.Debug("fnn embedding order",
		slog.Int("order", m),
		slog.Float64("epsilon", eps*k.interval),
		slog.Int("resolved", done),
		slog.Int("rejected", rejected),
		slog.Int("false", falses))

	if done == 0 {
		return Row{}, fmt.Errorf("fnn: order %d: %w", m, dynamo.ErrInsufficientNeighbors)
	}

	n := float64(done)
	return Row{
		Order:         m,
		FalseFraction: float64(falses) / n,
		MeanSize:      sum / n * k.interval,
		RMSSize:       math.Sqrt(sq/n) * k.interval,
	}, nil
}

// stretch is the distance gained by adding coordinate m, relative to the
// m-dimensional neighbor distance.
func (k *kennel) stretch(i int, best neighbors.Best, m int) float64 {
	return math.Abs(k.emb.Coord(i, m)-k.emb.Coord(best.Index, m)) / best.Dist
}
