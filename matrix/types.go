package matrix

// Matrix is a read-only two-dimensional array of float64 similarities.
// The solvers in assign and align accept any Matrix; implementations other
// than Dense are copied once through AsDense, which applies the same
// numeric policy as Gram.
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)
}
