package embed

import (
	"fmt"
	"math"

	"github.com/san-kum/fragdyn/internal/dynamo"
)

// Range records the affine map applied by Rescale.
type Range struct {
	Min      float64
	Interval float64
}

// Restore maps a rescaled length back to data units.
func (r Range) Restore(v float64) float64 {
	return v * r.Interval
}

// Rescale returns a copy of s mapped onto [0,1] by (x-min)/(max-min). NaN
// or infinite samples are rejected as an invalid parameter.
func Rescale(s dynamo.Series) (dynamo.Series, Range, error) {
	if len(s) == 0 {
		return nil, Range{}, dynamo.ErrDegenerateRange
	}
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, Range{}, dynamo.InvalidParam("series", v, fmt.Sprintf("non-finite sample at index %d", i))
		}
	}

	lo, hi := s[0], s[0]
	for _, v := range s[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	interval := hi - lo
	if interval == 0 {
		return nil, Range{Min: lo}, dynamo.ErrDegenerateRange
	}

	out := make(dynamo.Series, len(s))
	for i, v := range s {
		out[i] = (v - lo) / interval
	}
	return out, Range{Min: lo, Interval: interval}, nil
}

// Deviation returns the mean and population standard deviation of s.
func Deviation(s dynamo.Series) (mean, dev float64, err error) {
	if len(s) == 0 {
		return 0, 0, dynamo.ErrDegenerateVariance
	}

	var sum, sq float64
	for _, v := range s {
		sum += v
		sq += v * v
	}
	n := float64(len(s))
	mean = sum / n
	dev = math.Sqrt(math.Abs(sq/n - mean*mean))
	if dev == 0 {
		return mean, 0, dynamo.ErrDegenerateVariance
	}
	return mean, dev, nil
}
