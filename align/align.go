// Package align - monotone alignment by dynamic programming.
//
// Design:
//  1. rows[i][j] is the best total aligning the first i predicted and the
//     first j reference elements without crossing pairs.
//  2. Skips are tried before matches, so a match must strictly improve the
//     cell; zero-score and out-of-band cells never produce a pair.
//  3. OneToMany lets a reference element be reused by consecutive predicted
//     elements, ManyToOne the reverse; Unconstrained allows both.
//  4. RollingArray keeps two rows and no step table; FullMatrix keeps every
//     row and, with ReturnPath, the step table walked by backtrack.
//
// Contracts:
//   - w holds finite similarities >= 0.
//   - Window 0 disables the band; otherwise |i-j| <= Window.
//   - Pairs are ordered by (Pred, Ref) and carry the cell score.
//
// Complexity:
//   - Time: O(m·n).
//   - Memory: O(n) rolling, O(m·n) full.

package align

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/matrix"
)

// step records which transition produced a DP cell.
type step uint8

const (
	stepNone     step = iota
	stepDiag          // match (i,j), both advance
	stepSkipPred      // predicted element i unmatched
	stepSkipRef       // reference element j unmatched
	stepReuseRef      // match (i,j), reference j already used by i-1
	stepReusePred     // match (i,j), predicted i already used by j-1
)

// Solve returns the best monotone alignment total of w under c.
// Pairs are filled only when opts.ReturnPath is set; zero-score pairs are
// never reported.
func Solve(src matrix.Matrix, c assign.Constraint, opts Options) (assign.Result, error) {
	w, err := matrix.AsDense(src)
	if err != nil {
		return assign.Result{}, err
	}
	if !c.Valid() {
		return assign.Result{}, fmt.Errorf("%w: %d", assign.ErrUnknownConstraint, int(c))
	}
	if err = opts.Validate(); err != nil {
		return assign.Result{}, err
	}
	m, n := w.Rows(), w.Cols()
	if m == 0 || n == 0 {
		return assign.Result{}, nil
	}

	reuseRef := c == assign.OneToMany || c == assign.Unconstrained
	reusePred := c == assign.ManyToOne || c == assign.Unconstrained
	inBand := func(i, j int) bool {
		return opts.Window == 0 || abs(i-j) <= opts.Window
	}

	// rows[k] is the DP row of prefix length k (mod 2 when rolling).
	var rows [][]float64
	var steps [][]step
	if opts.MemoryMode == FullMatrix {
		rows = make([][]float64, m+1)
		for i := range rows {
			rows[i] = make([]float64, n+1)
		}
		if opts.ReturnPath {
			steps = make([][]step, m+1)
			for i := range steps {
				steps[i] = make([]step, n+1)
			}
		}
	} else {
		rows = [][]float64{make([]float64, n+1), make([]float64, n+1)}
	}
	row := func(i int) []float64 {
		if opts.MemoryMode == RollingArray {
			return rows[i%2]
		}
		return rows[i]
	}

	for i := 1; i <= m; i++ {
		prev, cur := row(i-1), row(i)
		wi := w.Row(i - 1)
		cur[0] = 0
		for j := 1; j <= n; j++ {
			g := 0.0
			if inBand(i, j) {
				g = wi[j-1]
			}

			// Skips first: a match must strictly beat them, so zero-score
			// and out-of-band cells never produce a pair.
			best, how := prev[j], stepSkipPred
			if cur[j-1] > best {
				best, how = cur[j-1], stepSkipRef
			}
			if prev[j-1]+g > best {
				best, how = prev[j-1]+g, stepDiag
			}
			if reuseRef && prev[j]+g > best {
				best, how = prev[j]+g, stepReuseRef
			}
			if reusePred && cur[j-1]+g > best {
				best, how = cur[j-1]+g, stepReusePred
			}
			cur[j] = best
			if steps != nil {
				steps[i][j] = how
			}
		}
	}

	res := assign.Result{Total: row(m)[n]}
	if steps != nil {
		res.Pairs = backtrack(w, steps, m, n)
	}

	return res, nil
}

// backtrack walks the step table from (m,n) to the border.
func backtrack(w *matrix.Dense, steps [][]step, m, n int) []assign.Pair {
	var pairs []assign.Pair
	emit := func(i, j int) {
		v, _ := w.At(i-1, j-1)
		if v > 0 {
			pairs = append(pairs, assign.Pair{Pred: i - 1, Ref: j - 1, Score: v})
		}
	}
	for i, j := m, n; i > 0 && j > 0; {
		switch steps[i][j] {
		case stepDiag:
			emit(i, j)
			i, j = i-1, j-1
		case stepReuseRef:
			emit(i, j)
			i--
		case stepReusePred:
			emit(i, j)
			j--
		case stepSkipPred:
			i--
		default:
			j--
		}
	}
	slices.Reverse(pairs)

	return pairs
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
