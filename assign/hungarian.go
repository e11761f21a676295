package assign

import (
	"math"

	"github.com/katalvlaran/structeval/matrix"
)

// Hungarian computes a maximum-weight assignment on a rectangular matrix.
//
// Algorithm (shortest augmenting path with dual potentials u, v):
//  1. Work on k×K with k ≤ K (transpose if needed), minimising c = −w.
//  2. For each row i, grow an alternating tree from a virtual column 0,
//     maintaining minv[j] = min reduced cost to reach column j and way[j],
//     its predecessor column.
//  3. Shift potentials by the smallest slack δ until a free column is hit,
//     then flip the path recorded in way.
//
// The result assigns every row of the smaller side; weights are ≥ 0 so this
// is also an optimal partial matching. Pairs with zero weight are dropped
// from the witness.
//
// Complexity: O(k²·K) time, O(k·K) memory for the prefetched weights.
func Hungarian(src matrix.Matrix) (Result, error) {
	w, err := matrix.AsDense(src)
	if err != nil {
		return Result{}, err
	}

	return hungarian(w), nil
}

// PrefixTotals returns, for every k in [0, Rows()), the best one-to-one
// total achievable when only rows 0..k may be matched.
//
// Design: the augmenting-path solver processes rows in order and its
// matching after row k is optimal for rows 0..k, so a single run yields the
// whole curve. When rows outnumber columns the matrix is padded with zero
// columns instead of being transposed, which keeps row order intact.
//
// Complexity: O(r²·max(r,c)) time.
func PrefixTotals(src matrix.Matrix) ([]float64, error) {
	w, err := matrix.AsDense(src)
	if err != nil {
		return nil, err
	}
	n, m := w.Rows(), w.Cols()
	if n == 0 {
		return nil, nil
	}
	if m == 0 {
		return make([]float64, n), nil
	}

	width := max(m, n)
	a := make([]float64, n*width)
	for i := 0; i < n; i++ {
		copy(a[i*width:], w.Row(i))
	}
	totals := make([]float64, 0, n)
	solveRows(a, n, width, func(_ int, p []int) {
		var t float64
		for j := 1; j <= width; j++ {
			if p[j] != 0 {
				t += a[(p[j]-1)*width+(j-1)]
			}
		}
		totals = append(totals, t)
	})

	return totals, nil
}

func hungarian(w *matrix.Dense) Result {
	if w.Rows() == 0 || w.Cols() == 0 {
		return Result{}
	}

	transposed := false
	src := w
	if src.Rows() > src.Cols() {
		src = src.Transpose()
		transposed = true
	}
	n, m := src.Rows(), src.Cols()

	// Flat 1-indexed view keeps the hot loop free of bounds-checked
	// accessors: cost(i,j) = -a[(i-1)*m + (j-1)].
	a := make([]float64, n*m)
	for i := 0; i < n; i++ {
		copy(a[i*m:], src.Row(i))
	}
	p := solveRows(a, n, m, nil)

	var res Result
	for j := 1; j <= m; j++ {
		if p[j] == 0 {
			continue
		}
		s := a[(p[j]-1)*m+(j-1)]
		res.Total += s
		if s <= 0 {
			continue
		}
		if transposed {
			res.Pairs = append(res.Pairs, Pair{Pred: j - 1, Ref: p[j] - 1, Score: s})
		} else {
			res.Pairs = append(res.Pairs, Pair{Pred: p[j] - 1, Ref: j - 1, Score: s})
		}
	}
	sortPairs(res.Pairs)

	return res
}

// solveRows runs the augmenting-path phases over the n×m weights a (n ≤ m)
// and returns p, where p[j] is the 1-based row matched to column j (0 =
// free). When visit is non-nil it is called after each row with the
// current p.
func solveRows(a []float64, n, m int, visit func(row int, p []int)) []int {
	cost := func(i, j int) float64 { return -a[(i-1)*m+(j-1)] }

	var (
		u    = make([]float64, n+1)
		v    = make([]float64, m+1)
		p    = make([]int, m+1)
		way  = make([]int, m+1)
		minv = make([]float64, m+1)
		used = make([]bool, m+1)
	)
	inf := math.Inf(1)

	var i, j, j0, j1, i0 int
	var delta, cur float64
	for i = 1; i <= n; i++ {
		p[0] = i
		j0 = 0
		for j = 0; j <= m; j++ {
			minv[j] = inf
			used[j] = false
		}
		for {
			used[j0] = true
			i0 = p[j0]
			delta = inf
			j1 = 0
			for j = 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur = cost(i0, j) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j = 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		// Augment along the alternating path back to the virtual root.
		for {
			j1 = way[j0]
			p[j0] = p[j1]
			j0 = j1
			if j0 == 0 {
				break
			}
		}
		if visit != nil {
			visit(i-1, p)
		}
	}

	return p
}
