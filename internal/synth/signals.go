package synth

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/fragdyn/internal/dynamo"
)

// Sine samples sin(omega·i).
func Sine(n int, omega float64) dynamo.Series {
	x := make(dynamo.Series, n)
	for i := range x {
		x[i] = math.Sin(omega * float64(i))
	}
	return x
}

// Logistic iterates x → r·x·(1−x) from x0.
func Logistic(n int, r, x0 float64) dynamo.Series {
	x := make(dynamo.Series, n)
	v := x0
	for i := range x {
		v = r * v * (1 - v)
		x[i] = v
	}
	return x
}

// Henon returns the x component of the Hénon map with a=1.4, b=0.3 after a
// short transient.
func Henon(n int) dynamo.Series {
	const (
		a         = 1.4
		b         = 0.3
		transient = 100
	)
	x := make(dynamo.Series, n)
	u, v := 0.1, 0.1
	for i := -transient; i < n; i++ {
		u, v = 1-a*u*u+v, b*u
		if i >= 0 {
			x[i] = u
		}
	}
	return x
}

// Flow integrates dyn from x0 and samples component every dt after
// discarding transient samples.
func Flow(dyn dynamo.System, integ dynamo.Integrator, x0 dynamo.State, dt float64, n, component, transient int) (dynamo.Series, error) {
	if component < 0 || component >= dyn.StateDim() {
		return nil, dynamo.InvalidParam("component", float64(component), "outside the state")
	}
	if len(x0) != dyn.StateDim() {
		return nil, dynamo.InvalidParam("state", float64(len(x0)), "does not match the system")
	}

	out := make(dynamo.Series, n)
	ctrl := make(dynamo.Control, dyn.ControlDim())
	x := make(dynamo.State, len(x0))
	copy(x, x0)
	t := 0.0
	for i := -transient; i < n; i++ {
		x = integ.Step(dyn, x, ctrl, t, dt)
		t += dt
		if i >= 0 {
			out[i] = x[component]
		}
	}
	if !out.IsValid() {
		return nil, fmt.Errorf("synth: flow diverged at dt=%g", dt)
	}
	return out, nil
}

// Options tunes the reference signals. Zero fields take the defaults.
type Options struct {
	Omega float64 // sine phase step per sample
	R     float64 // logistic map parameter
	Rho   float64 // Lorenz Rayleigh number
	C     float64 // Rössler c
}

func DefaultOptions() Options {
	return Options{Omega: 0.1, R: 3.9, Rho: 28, C: 5.7}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Omega == 0 {
		o.Omega = d.Omega
	}
	if o.R == 0 {
		o.R = d.R
	}
	if o.Rho == 0 {
		o.Rho = d.Rho
	}
	if o.C == 0 {
		o.C = d.C
	}
	return o
}

const (
	lorenzStep    = 0.01
	rosslerStep   = 0.05
	flowTransient = 1000
	logisticSeed  = 0.4
	observedCoord = 0
)

// Generator builds a reference series of length n.
type Generator func(n int, o Options) (dynamo.Series, error)

var generators = map[string]Generator{
	"sine": func(n int, o Options) (dynamo.Series, error) { return Sine(n, o.Omega), nil },
	"logistic": func(n int, o Options) (dynamo.Series, error) {
		return Logistic(n, o.R, logisticSeed), nil
	},
	"henon": func(n int, _ Options) (dynamo.Series, error) { return Henon(n), nil },
	"lorenz": func(n int, o Options) (dynamo.Series, error) {
		return Flow(NewLorenz(o.Rho), NewRK4(), flowStart, lorenzStep, n, observedCoord, flowTransient)
	},
	"rossler": func(n int, o Options) (dynamo.Series, error) {
		return Flow(NewRossler(o.C), NewRK4(), flowStart, rosslerStep, n, observedCoord, flowTransient)
	},
}

// Generate builds the named reference series.
func Generate(name string, n int, o Options) (dynamo.Series, error) {
	gen, ok := generators[name]
	if !ok {
		return nil, fmt.Errorf("unknown signal: %s (available: %v)", name, Names())
	}
	if n < 1 {
		return nil, dynamo.InvalidParam("length", float64(n), "must be positive")
	}
	return gen(n, o.withDefaults())
}

func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
