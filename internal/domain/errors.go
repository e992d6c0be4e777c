package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a rejected argument: a required numeric input was
// non-positive (or negative where only non-negative is allowed). Raised
// before any computation and surfaced verbatim to the caller.
var ErrInvalidInput = errors.New("invalid input")

// ErrComputation marks a calculation that is mathematically undefined for
// the given configuration, e.g. a total sell-side fee rate of 100% or more.
// Fatal for the call; retrying with the same inputs cannot succeed.
var ErrComputation = errors.New("computation error")

// ValidatePositive returns ErrInvalidInput when value <= 0.
func ValidatePositive(value float64, name string) error {
	if value <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidInput, name, value)
	}
	return nil
}

// ValidateNonNegative returns ErrInvalidInput when value < 0.
func ValidateNonNegative(value float64, name string) error {
	if value < 0 {
		return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidInput, name, value)
	}
	return nil
}
