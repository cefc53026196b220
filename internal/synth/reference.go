package synth

import (
	"fmt"
	"math"

	"github.com/san-kum/fragdyn/internal/dynamo"
)

// FlowExponent estimates the largest Lyapunov exponent of a known flow, per
// unit time, by following a companion trajectory at distance d0 and pulling
// it back to d0 after every step.
func FlowExponent(dyn dynamo.System, integ dynamo.Integrator, x0 dynamo.State, dt float64, steps int, d0 float64) (float64, error) {
	if len(x0) != dyn.StateDim() {
		return 0, dynamo.InvalidParam("state", float64(len(x0)), "does not match the system")
	}
	if steps < 1 {
		return 0, dynamo.InvalidParam("steps", float64(steps), "must be positive")
	}
	if d0 <= 0 {
		return 0, dynamo.InvalidParam("separation", d0, "must be positive")
	}

	ctrl := make(dynamo.Control, dyn.ControlDim())
	x := make(dynamo.State, len(x0))
	xp := make(dynamo.State, len(x0))
	copy(x, x0)
	copy(xp, x0)
	xp[0] += d0

	t := 0.0
	sumLog := 0.0
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, ctrl, t, dt)
		xp = integ.Step(dyn, xp, ctrl, t, dt)
		t += dt

		sep := 0.0
		for k := range x {
			d := xp[k] - x[k]
			sep += d * d
		}
		sep = math.Sqrt(sep)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			return 0, fmt.Errorf("synth: separation collapsed at t=%g", t)
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for k := range xp {
			xp[k] = x[k] + (xp[k]-x[k])*scale
		}
	}
	return sumLog / (float64(steps) * dt), nil
}

// HenonExponent returns the largest Lyapunov exponent of the Hénon map, per
// iteration, from its tangent map.
func HenonExponent(steps int) float64 {
	const a, b = 1.4, 0.3
	x, y := 0.0, 0.0
	for i := 0; i < 100; i++ {
		x, y = 1-a*x*x+y, b*x
	}

	vx, vy := 1.0, 0.0
	sumLog := 0.0
	for i := 0; i < steps; i++ {
		vx, vy = -2*a*x*vx+vy, b*vx
		x, y = 1-a*x*x+y, b*x
		norm := math.Hypot(vx, vy)
		sumLog += math.Log(norm)
		vx /= norm
		vy /= norm
	}
	return sumLog / float64(steps)
}

// ReferenceExponent returns the largest exponent of a named signal per
// sample, computed from its generating equations with the same options as
// Generate. ok is false for signals without a known system.
func ReferenceExponent(name string, o Options) (value float64, ok bool, err error) {
	o = o.withDefaults()
	switch name {
	case "henon":
		return HenonExponent(100000), true, nil
	case "logistic":
		return LogisticExponent(o.R, logisticSeed, 100000), true, nil
	case "lorenz":
		l := NewLorenz(o.Rho)
		v, err := FlowExponent(l, NewRK4(), warm(l, lorenzStep), lorenzStep, 50000, 1e-8)
		return v * lorenzStep, err == nil, err
	case "rossler":
		r := NewRossler(o.C)
		v, err := FlowExponent(r, NewRK4(), warm(r, rosslerStep), rosslerStep, 20000, 1e-8)
		return v * rosslerStep, err == nil, err
	}
	return 0, false, nil
}

// LogisticExponent averages ln|f'(x)| along an orbit of the logistic map.
func LogisticExponent(r, x0 float64, steps int) float64 {
	x := x0
	for i := 0; i < 100; i++ {
		x = r * x * (1 - x)
	}
	sum := 0.0
	for i := 0; i < steps; i++ {
		sum += math.Log(math.Abs(r * (1 - 2*x)))
		x = r * x * (1 - x)
	}
	return sum / float64(steps)
}

// warm moves the flow from flowStart onto its attractor.
func warm(dyn dynamo.System, dt float64) dynamo.State {
	integ := NewRK4()
	ctrl := make(dynamo.Control, dyn.ControlDim())
	x := make(dynamo.State, len(flowStart))
	copy(x, flowStart)
	for i := 0; i < flowTransient; i++ {
		x = integ.Step(dyn, x, ctrl, float64(i)*dt, dt)
	}
	return x
}
