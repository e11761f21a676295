package structeval

import "errors"

// The two roots of the error taxonomy. Every package-level sentinel in this
// module wraps exactly one of them, so callers can branch on the class with
// errors.Is and on the precise cause with the package sentinel.
var (
	// ErrConfig marks malformed configuration: unknown constraint or normalizer
	// tokens, non-positive β, negative search budgets, duplicate names.
	// It is always returned at construction time, before any data is scored.
	ErrConfig = errors.New("structeval: invalid configuration")

	// ErrTypeMismatch marks a disagreement between the declared shape of a
	// metric tree and the data it is applied to (missing field, undeclared
	// union case, wrong dynamic type). It is returned at scoring time.
	ErrTypeMismatch = errors.New("structeval: type mismatch")
)
