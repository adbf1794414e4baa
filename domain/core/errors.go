package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Shape and input errors
	ErrDimensionMismatch  = errors.New("dimension mismatch")
	ErrInvalidPermutation = errors.New("invalid permutation")
	ErrInvalidMethod      = errors.New("invalid screening method")

	// Lookup errors
	ErrNotFound       = errors.New("resource not found")
	ErrSampleNotFound = fmt.Errorf("%w: sample", ErrNotFound)
	ErrGeneNotFound   = fmt.Errorf("%w: gene", ErrNotFound)

	// Numerical errors
	ErrDegenerateRegression = errors.New("degenerate regression: empty support")
	ErrNotPositiveDefinite  = errors.New("covariance not positive definite")
)

// Error constructors with context
func NewDimensionError(what string, got, want int) error {
	return fmt.Errorf("%w: %s has length %d, want %d", ErrDimensionMismatch, what, got, want)
}

func NewShapeError(what string, gotRows, gotCols, wantRows, wantCols int) error {
	return fmt.Errorf("%w: %s is %dx%d, want %dx%d", ErrDimensionMismatch, what, gotRows, gotCols, wantRows, wantCols)
}

func NewPermutationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidPermutation, reason)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewMethodError(method string) error {
	return fmt.Errorf("%w: %q", ErrInvalidMethod, method)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, resource, id)
}

func NewDegenerateRegressionError(candidate int) error {
	return fmt.Errorf("%w for candidate column %d", ErrDegenerateRegression, candidate)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsShapeError(err error) bool {
	return errors.Is(err, ErrDimensionMismatch) ||
		errors.Is(err, ErrInvalidPermutation)
}

func IsNumericalError(err error) bool {
	return errors.Is(err, ErrDegenerateRegression) ||
		errors.Is(err, ErrNotPositiveDefinite)
}
