package features

import (
	"context"
	"fmt"

	"github.com/san-kum/fragdyn/internal/config"
	"github.com/san-kum/fragdyn/internal/dynamo"
	"github.com/san-kum/fragdyn/internal/fnn"
	"github.com/san-kum/fragdyn/internal/lyapunov"
)

// Feature is one named scalar of a fragment's feature vector.
type Feature struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ExtractFunc computes a group of features from a series.
type ExtractFunc func(ctx context.Context, x dynamo.Series, cfg *config.Config, progress dynamo.ProgressFunc) ([]Feature, error)

type Registry struct {
	extractors map[string]ExtractFunc
	order      []string
}

func NewRegistry() *Registry {
	r := &Registry{extractors: make(map[string]ExtractFunc)}
	r.Register("lyap", extractLyapunov)
	r.Register("fnn", extractFNN)
	return r
}

// Register adds or replaces an extractor. New names run after existing ones.
func (r *Registry) Register(name string, fn ExtractFunc) {
	if _, ok := r.extractors[name]; !ok {
		r.order = append(r.order, name)
	}
	r.extractors[name] = fn
}

func (r *Registry) Get(name string) (ExtractFunc, error) {
	fn, ok := r.extractors[name]
	if !ok {
		return nil, fmt.Errorf("unknown extractor: %s (available: %v)", name, r.List())
	}
	return fn, nil
}

// List returns extractor names in registration order.
func (r *Registry) List() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Extract runs the named extractors, or all of them when names is empty,
// and concatenates their features. The first failing extractor aborts the
// extraction.
func (r *Registry) Extract(ctx context.Context, x dynamo.Series, cfg *config.Config, names []string, progress dynamo.ProgressFunc) ([]Feature, error) {
	if len(names) == 0 {
		names = r.order
	}

	var out []Feature
	for _, name := range names {
		fn, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		feats, err := fn(ctx, x, cfg, progress)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, feats...)
	}
	return out, nil
}

func extractLyapunov(ctx context.Context, x dynamo.Series, cfg *config.Config, progress dynamo.ProgressFunc) ([]Feature, error) {
	p := cfg.LyapunovParams()
	p.Progress = progress
	exps, err := lyapunov.Exponents(ctx, x, p)
	if err != nil {
		return nil, err
	}

	out := make([]Feature, len(exps))
	for i, v := range exps {
		out[i] = Feature{Name: fmt.Sprintf("lyap_d%d", p.MinDim+i), Value: v}
	}
	return out, nil
}

func extractFNN(ctx context.Context, x dynamo.Series, cfg *config.Config, progress dynamo.ProgressFunc) ([]Feature, error) {
	p := cfg.FNNParams()
	p.Progress = progress
	rows, err := fnn.Fractions(ctx, x, p)
	if err != nil {
		return nil, err
	}

	out := make([]Feature, 0, 3*len(rows))
	for _, row := range rows {
		out = append(out,
			Feature{Name: fmt.Sprintf("fnn_false_m%d", row.Order), Value: row.FalseFraction},
			Feature{Name: fmt.Sprintf("fnn_size_m%d", row.Order), Value: row.MeanSize},
			Feature{Name: fmt.Sprintf("fnn_rms_m%d", row.Order), Value: row.RMSSize},
		)
	}
	return out, nil
}
