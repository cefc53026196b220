package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for invariant estimation.
var (
	// ErrDegenerateRange indicates a series whose maximum equals its minimum.
	ErrDegenerateRange = errors.New("dynamo: data range is zero")

	// ErrDegenerateVariance indicates a series component with zero variance.
	ErrDegenerateVariance = errors.New("dynamo: variance of the data is zero")

	// ErrInsufficientLength indicates the series is too short for the embedding and horizon.
	ErrInsufficientLength = errors.New("dynamo: series too short for these parameters")

	// ErrInsufficientNeighbors indicates no anchor found an acceptable neighbor.
	ErrInsufficientNeighbors = errors.New("dynamo: not enough neighbors found")

	// ErrInvalidParameter indicates a parameter value is outside its valid range.
	ErrInvalidParameter = errors.New("dynamo: parameter out of valid bounds")

	// ErrCanceled indicates the computation was interrupted by its context.
	ErrCanceled = errors.New("dynamo: computation canceled by context")
)

// ParameterError wraps ErrInvalidParameter with the offending parameter.
type ParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s=%g %s", ErrInvalidParameter, e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// InvalidParam builds a *ParameterError.
func InvalidParam(name string, value float64, reason string) error {
	return &ParameterError{Name: name, Value: value, Reason: reason}
}

// Canceled wraps a context error so both ErrCanceled and the context error match.
func Canceled(err error) error {
	return fmt.Errorf("%w: %w", ErrCanceled, err)
}
