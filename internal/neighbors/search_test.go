package neighbors

import (
	"math"
	"testing"

	"github.com/san-kum/fragdyn/internal/boxgrid"
	"github.com/san-kum/fragdyn/internal/dynamo"
	"github.com/san-kum/fragdyn/internal/embed"
)

func build(t *testing.T, x dynamo.Series, eps float64, n, window int) *Searcher {
	t.Helper()
	g, err := boxgrid.New(16)
	if err != nil {
		t.Fatal(err)
	}
	e := embed.New(x, 1)
	g.Build(e, eps, 1, n)
	return New(e, g, window)
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func TestBatchPrunesByDimension(t *testing.T) {
	// Anchor 0 = (0.50, 0.50, 0.50). Point 3 stays close in every coordinate,
	// point 6 drifts away in the third.
	x := dynamo.Series{0.50, 0.50, 0.50, 0.51, 0.51, 0.51, 0.52, 0.52, 0.90, 0.10}
	s := build(t, x, 0.05, 7, 0)
	sets := NewSets(3)

	s.Batch(0, 0.05, 3, sets)

	if !contains(sets.Found(2), 3) || !contains(sets.Found(3), 3) {
		t.Errorf("point 3 should be admitted in all dimensions: %v %v",
			sets.Found(2), sets.Found(3))
	}
	if len(sets.Found(1)) != 0 {
		t.Errorf("dimension 1 should stay empty, got %v", sets.Found(1))
	}
	if !contains(sets.Found(2), 6) {
		t.Errorf("point 6 should be admitted in dimension 2: %v", sets.Found(2))
	}
	if contains(sets.Found(3), 6) {
		t.Errorf("point 6 should be pruned in dimension 3: %v", sets.Found(3))
	}
	for dim := 2; dim <= 3; dim++ {
		if contains(sets.Found(dim), 0) {
			t.Errorf("anchor admitted as its own neighbor in dimension %d", dim)
		}
	}
}

func TestBatchMatchesFullDistance(t *testing.T) {
	x := make(dynamo.Series, 400)
	for i := range x {
		x[i] = 0.5 + 0.5*math.Sin(0.37*float64(i))
	}
	eps := 0.08
	maxDim := 4
	n := len(x) - maxDim
	s := build(t, x, eps, n, 2)
	sets := NewSets(maxDim)
	e := embed.New(x, 1)

	for anchor := 0; anchor < n; anchor += 17 {
		s.Batch(anchor, eps, maxDim, sets)
		for dim := 2; dim <= maxDim; dim++ {
			want := 0
			for j := 0; j < n; j++ {
				if abs(j-anchor) > 2 && e.Dist2(anchor, j, dim) <= eps*eps {
					want++
				}
			}
			if got := len(sets.Found(dim)); got != want {
				t.Errorf("anchor %d dim %d: got %d neighbors, brute force %d", anchor, dim, got, want)
			}
		}
	}
}

func TestTheilerWindowExcludesClosest(t *testing.T) {
	// Points 1 and 2 are the metrically closest to anchor 0 but sit inside the window.
	x := dynamo.Series{0.500, 0.501, 0.502, 0.9, 0.1, 0.53, 0.53, 0.2}
	s := build(t, x, 0.1, 6, 2)

	best, out := s.Nearest(0, 1, 0.1, 1)
	if out != Accepted {
		t.Fatalf("expected accepted outcome, got %v", out)
	}
	if best.Index != 5 {
		t.Errorf("expected neighbor 5 outside window, got %d", best.Index)
	}

	sets := NewSets(2)
	s.Batch(0, 0.1, 2, sets)
	if !contains(sets.Found(2), 5) {
		t.Errorf("expected 5 in batch result, got %v", sets.Found(2))
	}
	for _, j := range sets.Found(2) {
		if abs(j) <= 2 {
			t.Errorf("batch admitted %d inside window", j)
		}
	}
}

func TestNearestOutcomes(t *testing.T) {
	x := dynamo.Series{0.50, 0.30, 0.56, 0.30, 0.50, 0.30}

	s := build(t, x, 0.2, 5, 0)
	// Index 2 is 0.06 away; index 4 repeats the anchor (distance 0) and is
	// skipped.
	best, out := s.Nearest(0, 1, 0.2, 1)
	if out != Accepted || best.Index != 2 {
		t.Errorf("expected accepted neighbor 2, got %d (%v)", best.Index, out)
	}

	_, out = s.Nearest(0, 1, 0.2, 0.01)
	if out != Rejected {
		t.Errorf("expected rejection by limit, got %v", out)
	}

	lonely := build(t, dynamo.Series{0.0, 0.3, 0.3, 0.7}, 0.01, 3, 0)
	_, out = lonely.Nearest(0, 1, 0.01, 1)
	if out != NoCandidate {
		t.Errorf("expected no candidate, got %v", out)
	}
}

func TestNearestTieKeepsFirstScanned(t *testing.T) {
	// Points 2 and 4 are equally far from anchor 0; both share one box, and
	// the box chain is walked from the most recent insertion.
	x := dynamo.Series{0.50, 0.90, 0.52, 0.90, 0.52, 0.90}
	s := build(t, x, 0.1, 5, 0)

	best, out := s.Nearest(0, 1, 0.1, 1)
	if out != Accepted {
		t.Fatalf("expected accepted, got %v", out)
	}
	if best.Index != 4 {
		t.Errorf("expected first scanned candidate 4, got %d", best.Index)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
