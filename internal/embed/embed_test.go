package embed

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/fragdyn/internal/dynamo"
)

func TestRescale(t *testing.T) {
	s := dynamo.Series{2, 4, 6, 10}
	out, rng, err := Rescale(s)
	if err != nil {
		t.Fatal(err)
	}

	want := dynamo.Series{0, 0.25, 0.5, 1}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
	if rng.Min != 2 || rng.Interval != 8 {
		t.Errorf("expected range {2 8}, got %+v", rng)
	}
	if rng.Restore(0.5) != 4 {
		t.Errorf("expected restore 4, got %v", rng.Restore(0.5))
	}
	if s[0] != 2 || s[3] != 10 {
		t.Error("input was modified")
	}
}

func TestRescaleDegenerate(t *testing.T) {
	tests := []struct {
		name string
		s    dynamo.Series
	}{
		{"empty", nil},
		{"constant", dynamo.Series{3, 3, 3}},
		{"single", dynamo.Series{7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Rescale(tt.s); !errors.Is(err, dynamo.ErrDegenerateRange) {
				t.Errorf("expected ErrDegenerateRange, got %v", err)
			}
		})
	}
}

func TestRescaleRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name string
		s    dynamo.Series
	}{
		{"nan first", dynamo.Series{math.NaN(), 1, 2}},
		{"inf middle", dynamo.Series{0, math.Inf(1), 2}},
		{"negative inf", dynamo.Series{0, 1, math.Inf(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, rng, err := Rescale(tt.s)
			if !errors.Is(err, dynamo.ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
			var pe *dynamo.ParameterError
			if !errors.As(err, &pe) || pe.Name != "series" {
				t.Errorf("expected series ParameterError, got %v", err)
			}
			if out != nil || rng != (Range{}) {
				t.Errorf("expected empty result, got %v %+v", out, rng)
			}
		})
	}
}

func TestDeviation(t *testing.T) {
	mean, dev, err := Deviation(dynamo.Series{0, 1, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if mean != 0.5 || dev != 0.5 {
		t.Errorf("expected mean 0.5 dev 0.5, got %v %v", mean, dev)
	}

	if _, _, err := Deviation(dynamo.Series{0.25, 0.25}); !errors.Is(err, dynamo.ErrDegenerateVariance) {
		t.Errorf("expected ErrDegenerateVariance, got %v", err)
	}
}

func TestEmbeddingCoordinates(t *testing.T) {
	e := New(dynamo.Series{0, 1, 2, 3, 4, 5, 6, 7}, 2)

	if got := e.Coord(1, 2); got != 5 {
		t.Errorf("Coord(1,2) = %v, want 5", got)
	}
	if got := e.Span(3); got != 4 {
		t.Errorf("Span(3) = %d, want 4", got)
	}
	if got := e.Anchors(3, 2); got != 2 {
		t.Errorf("Anchors(3,2) = %d, want 2", got)
	}
	if got := e.Anchors(4, 5); got != 0 {
		t.Errorf("Anchors(4,5) = %d, want 0", got)
	}
}

func TestEmbeddingDistances(t *testing.T) {
	e := New(dynamo.Series{0, 0.5, 0.1, 0.9, 0.4, 0.3}, 1)

	// vectors (0, 0.5, 0.1) and (0.9, 0.4, 0.3)
	if got, want := e.Dist2(0, 3, 3), 0.81+0.01+0.04; math.Abs(got-want) > 1e-12 {
		t.Errorf("Dist2 = %v, want %v", got, want)
	}
	if got := e.Chebyshev(0, 3, 3); math.Abs(got-0.9) > 1e-12 {
		t.Errorf("Chebyshev = %v, want 0.9", got)
	}
	if got := e.Chebyshev(0, 3, 1); math.Abs(got-0.9) > 1e-12 {
		t.Errorf("Chebyshev dim 1 = %v, want 0.9", got)
	}
}
