// Package matrix provides the dense Gram matrices that every solver in
// structeval works on.
//
// A Gram matrix G for two collections xs (m elements) and ys (n elements)
// holds G[i][j] = φ(xs[i], ys[j]) for a similarity metric φ. Solvers read it
// row-major; empty sides are legal (0×n, m×0 and 0×0 shapes exist and sum
// to zero), because an empty prediction or reference set is ordinary data in
// evaluation, not an error.
//
// Numeric policy: entries written through Gram must be finite and
// non-negative (ErrNaNInf, ErrNegativeWeight). Dense values are immutable
// once built; AsDense copies any other Matrix through the same checks.
//
// Complexity: At O(1); RowMax/ColMax/Transpose/AsDense O(r·c).
package matrix
