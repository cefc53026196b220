// Package dynamo provides the shared primitives for nonlinear invariant
// estimation:
//
//   - [Series]: a scalar sample sequence, read-only once rescaled
//   - [System] and [Integrator]: continuous models used to synthesize series
//   - [Progress]: outer-loop progress reporting for long estimations
//   - sentinel errors ([ErrDegenerateRange], [ErrInsufficientLength], ...)
//
// # Errors
//
// Every failure is a deterministic function of the input. Callers match
// error kinds with errors.Is:
//
//	if errors.Is(err, dynamo.ErrInsufficientLength) {
//	    // fragment too short for this embedding
//	}
package dynamo
