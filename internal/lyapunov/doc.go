// Package lyapunov estimates the maximal Lyapunov exponent of a scalar
// series from its delay embedding, following Kantz (Phys. Lett. A 185, 77,
// 1994).
//
// Neighbors of each reference point are collected with box-assisted search
// for a geometric ladder of radii. Their separation is followed for
// Params.Horizon steps and the mean log separation is fitted against time:
//
//	p := lyapunov.DefaultParams()
//	p.MaxDim = 5
//	exps, err := lyapunov.Exponents(ctx, series, p)
//	// exps[d-p.MinDim] is the estimate for dimension d, or NoEstimate
//
// # Concurrency
//
// Radii are independent until their accumulators are folded, so
// Params.Workers > 1 evaluates them concurrently. Folding happens in ladder
// order and the result does not depend on the number of workers.
package lyapunov
