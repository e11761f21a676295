package matrix

import (
	"fmt"
	"math"
)

// Gram builds an m×n similarity matrix by evaluating f(i, j) for every cell.
//
// Contract:
//   - f is called exactly once per cell, row by row.
//   - The first error returned by f aborts the build and is returned as-is,
//     so scoring errors (e.g. type mismatches) reach the caller unchanged.
//   - Values must be finite and ≥ 0; otherwise ErrNaNInf / ErrNegativeWeight
//     wrapped with the offending cell.
//
// Complexity: O(m·n) calls to f.
func Gram(m, n int, f func(i, j int) (float64, error)) (*Dense, error) {
	g, err := NewDense(m, n)
	if err != nil {
		return nil, err
	}

	var (
		i, j int
		v    float64
	)
	for i = 0; i < m; i++ {
		for j = 0; j < n; j++ {
			v, err = f(i, j)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("Gram(%d,%d): %w", i, j, ErrNaNInf)
			}
			if v < 0 {
				return nil, fmt.Errorf("Gram(%d,%d): %w", i, j, ErrNegativeWeight)
			}
			g.data[i*n+j] = v
		}
	}

	return g, nil
}

// FromRows builds a Dense from a rectangular [][]float64 literal. It is a
// convenience for tests and callers holding precomputed similarities; ragged
// input returns ErrBadShape.
func FromRows(rows [][]float64) (*Dense, error) {
	r := len(rows)
	c := 0
	if r > 0 {
		c = len(rows[0])
	}

	return Gram(r, c, func(i, j int) (float64, error) {
		if len(rows[i]) != c {
			return 0, fmt.Errorf("FromRows: row %d has %d cols, want %d: %w", i, len(rows[i]), c, ErrBadShape)
		}
		return rows[i][j], nil
	})
}

// AsDense returns m itself when it is a *Dense, and otherwise a Dense copy
// built through Gram, so foreign matrices are held to the same numeric
// policy (finite, ≥ 0). A nil m returns ErrNilMatrix.
func AsDense(m Matrix) (*Dense, error) {
	switch d := m.(type) {
	case nil:
		return nil, ErrNilMatrix
	case *Dense:
		if d == nil {
			return nil, ErrNilMatrix
		}
		return d, nil
	}

	return Gram(m.Rows(), m.Cols(), m.At)
}
