package synth

import "github.com/san-kum/fragdyn/internal/dynamo"

// autonomous3 supplies the dimensions shared by the three-variable flows,
// which take no control input.
type autonomous3 struct{}

func (autonomous3) StateDim() int   { return 3 }
func (autonomous3) ControlDim() int { return 0 }

// flowStart is where every reference flow is released before its transient.
var flowStart = dynamo.State{1, 1, 1}

// Lorenz is the Lorenz-63 convection model. Rho is the Rayleigh number:
// below about 24.74 trajectories settle on a fixed point, at 28 they are
// chaotic.
type Lorenz struct {
	autonomous3
	Sigma, Rho, Beta float64
}

func NewLorenz(rho float64) *Lorenz {
	return &Lorenz{Sigma: 10, Rho: rho, Beta: 8.0 / 3.0}
}

func (l *Lorenz) Derive(s dynamo.State, _ dynamo.Control, _ float64) dynamo.State {
	x, y, z := s[0], s[1], s[2]
	return dynamo.State{
		l.Sigma * (y - x),
		x*(l.Rho-z) - y,
		x*y - l.Beta*z,
	}
}

// Rossler is the Rössler band. C controls the period-doubling route:
// C=2.3 is a simple limit cycle, C=5.7 the classic chaotic band.
type Rossler struct {
	autonomous3
	A, B, C float64
}

func NewRossler(c float64) *Rossler {
	return &Rossler{A: 0.2, B: 0.2, C: c}
}

func (r *Rossler) Derive(s dynamo.State, _ dynamo.Control, _ float64) dynamo.State {
	x, y, z := s[0], s[1], s[2]
	return dynamo.State{
		-y - z,
		x + r.A*y,
		r.B + z*(x-r.C),
	}
}
