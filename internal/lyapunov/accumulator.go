package lyapunov

// Accumulator holds, per embedding dimension and forward step, the running
// sum of per-anchor log divergences and the number of anchors that
// contributed. It spans the whole radius ladder of one estimation.
type Accumulator struct {
	minDim  int
	maxDim  int
	horizon int
	logs    [][]float64
	counts  [][]int
}

func NewAccumulator(minDim, maxDim, horizon int) *Accumulator {
	n := maxDim - minDim + 1
	a := &Accumulator{
		minDim:  minDim,
		maxDim:  maxDim,
		horizon: horizon,
		logs:    make([][]float64, n),
		counts:  make([][]int, n),
	}
	for i := 0; i < n; i++ {
		a.logs[i] = make([]float64, horizon+1)
		a.counts[i] = make([]int, horizon+1)
	}
	return a
}

// Add records one anchor's log divergence for dimension dim at step h.
func (a *Accumulator) Add(dim, h int, logDiv float64) {
	d := dim - a.minDim
	a.logs[d][h] += logDiv
	a.counts[d][h]++
}

// Merge adds every cell of b into a. Both must share the same shape.
func (a *Accumulator) Merge(b *Accumulator) {
	for d := range a.logs {
		for h := range a.logs[d] {
			a.logs[d][h] += b.logs[d][h]
			a.counts[d][h] += b.counts[d][h]
		}
	}
}

// Count is the number of anchors that contributed to (dim, h).
func (a *Accumulator) Count(dim, h int) int {
	return a.counts[dim-a.minDim][h]
}

// Mean is the average log divergence at (dim, h), or 0 without contributions.
func (a *Accumulator) Mean(dim, h int) float64 {
	d := dim - a.minDim
	if a.counts[d][h] == 0 {
		return 0
	}
	return a.logs[d][h] / float64(a.counts[d][h])
}

// Fit fits a line through the first three steps of dim that have
// contributions and returns its slope. ok is false with fewer than three
// such steps.
func (a *Accumulator) Fit(dim int) (slope float64, ok bool) {
	var xs, ys [fitPoints]float64
	n := 0
	for h := 0; h <= a.horizon && n < fitPoints; h++ {
		if a.Count(dim, h) == 0 {
			continue
		}
		xs[n] = float64(h)
		ys[n] = a.Mean(dim, h)
		n++
	}
	if n < fitPoints {
		return 0, false
	}
	return Slope(xs[:], ys[:])
}
