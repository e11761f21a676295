package assign

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/structeval/matrix"
)

// Solve returns the best achievable overlap of w under constraint c.
//
// Contract:
//   - src is the m×n Gram matrix of predicted (rows) vs reference (cols)
//     elements with entries ≥ 0. Any matrix.Matrix is accepted; non-Dense
//     inputs are copied through matrix.AsDense and validated there.
//   - An empty side yields Result{Total: 0}.
//   - Unknown constraints return ErrUnknownConstraint.
func Solve(src matrix.Matrix, c Constraint) (Result, error) {
	w, err := matrix.AsDense(src)
	if err != nil {
		return Result{}, err
	}
	if !c.Valid() {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownConstraint, int(c))
	}
	if w.Rows() == 0 || w.Cols() == 0 {
		return Result{}, nil
	}

	switch c {
	case OneToOne:
		return hungarian(w), nil
	case OneToMany:
		vals, idx := w.RowMax()
		return fromBest(vals, idx, false), nil
	case ManyToOne:
		vals, idx := w.ColMax()
		return fromBest(vals, idx, true), nil
	default:
		return crossProduct(w), nil
	}
}

// fromBest turns per-element best choices into a Result. When byRef is set,
// vals/idx are indexed by reference element and idx holds predicted indices.
func fromBest(vals []float64, idx []int, byRef bool) Result {
	var res Result
	for k, v := range vals {
		res.Total += v
		if v <= 0 || idx[k] < 0 {
			continue
		}
		if byRef {
			res.Pairs = append(res.Pairs, Pair{Pred: idx[k], Ref: k, Score: v})
		} else {
			res.Pairs = append(res.Pairs, Pair{Pred: k, Ref: idx[k], Score: v})
		}
	}
	sortPairs(res.Pairs)

	return res
}

// crossProduct sums every cell; every positive cell is part of the witness.
func crossProduct(w *matrix.Dense) Result {
	var res Result
	var i, j int
	for i = 0; i < w.Rows(); i++ {
		row := w.Row(i)
		for j = 0; j < len(row); j++ {
			res.Total += row[j]
			if row[j] > 0 {
				res.Pairs = append(res.Pairs, Pair{Pred: i, Ref: j, Score: row[j]})
			}
		}
	}

	return res
}

func sortPairs(ps []Pair) {
	slices.SortFunc(ps, func(a, b Pair) int {
		if a.Pred != b.Pred {
			return a.Pred - b.Pred
		}
		return a.Ref - b.Ref
	})
}
