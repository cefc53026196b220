package lyapunov

// fitPoints is the number of leading steps used for the exponent fit.
const fitPoints = 3

// Slope returns the unweighted least-squares slope of y against x.
// ok is false for mismatched or fewer than two points, or when x is constant.
func Slope(x, y []float64) (slope float64, ok bool) {
	n := len(x)
	if n < 2 || n != len(y) {
		return 0, false
	}

	var mx, my float64
	for i := 0; i < n; i++ {
		mx += x[i]
		my += y[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var sxy, sxx float64
	for i := 0; i < n; i++ {
		dx := x[i] - mx
		sxy += dx * (y[i] - my)
		sxx += dx * dx
	}
	if sxx == 0 {
		return 0, false
	}
	return sxy / sxx, true
}
