package dynamo

import "math"

// Series is an ordered sequence of samples.
type Series []float64

// IsValid reports whether every sample is finite.
func (s Series) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// State is the state vector of a continuous system.
type State []float64

type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// Progress reports how far an estimator has advanced through its outer loop.
// Stage names the loop ("epsilon" or "embedding"), Step and Total count its
// iterations, Value carries the radius or order of the current iteration.
type Progress struct {
	Stage string
	Step  int
	Total int
	Value float64
}

// ProgressFunc receives Progress updates. Implementations must be safe for
// concurrent use when an estimator runs with more than one worker.
type ProgressFunc func(Progress)

func (f ProgressFunc) Report(p Progress) {
	if f != nil {
		f(p)
	}
}
