// Package matrix: sentinel error set.
// All functions return these sentinels (possibly wrapped with method context);
// tests check them via errors.Is. Nothing in this package panics on user input.

package matrix

import "errors"

var (
	// ErrBadShape is returned when a requested shape is negative.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrNilMatrix indicates that a nil Matrix was passed where one is required.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrNaNInf signals a NaN or ±Inf similarity value.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNegativeWeight signals a negative similarity value; similarities are
	// bounded below by zero.
	ErrNegativeWeight = errors.New("matrix: negative similarity")
)
