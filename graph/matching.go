package graph

import (
	"fmt"

	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/matrix"
	"github.com/katalvlaran/structeval/metric"
	"github.com/katalvlaran/structeval/normalize"
)

// Matching scores two graphs by their best reachability-preserving node
// alignment under a cardinality constraint.
type Matching[T any] struct {
	inner      metric.Metric[T]
	constraint assign.Constraint
	norm       normalize.Normalizer
	opts       Options
}

var (
	_ metric.Metric[Graph[int]]     = (*Matching[int])(nil)
	_ metric.Overlapper[Graph[int]] = (*Matching[int])(nil)
	_ metric.Explainer[Graph[int]]  = (*Matching[int])(nil)
)

// NewMatching validates and builds a graph-matching node.
func NewMatching[T any](inner metric.Metric[T], c assign.Constraint, n normalize.Normalizer, opts Options) (*Matching[T], error) {
	if inner == nil {
		return nil, metric.ErrNilMetric
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", assign.ErrUnknownConstraint, int(c))
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Matching[T]{inner: inner, constraint: c, norm: n, opts: opts}, nil
}

func (m *Matching[T]) Kind() metric.Kind { return metric.KindGraphMatching }

func (m *Matching[T]) Label() string {
	return fmt.Sprintf("graph(%s, %s)", m.constraint, m.norm)
}

func (m *Matching[T]) Children() []metric.Child {
	return []metric.Child{{Name: "[*]", Node: m.inner}}
}

// Solve aligns x onto y.
func (m *Matching[T]) Solve(x, y Graph[T]) (Solution, error) {
	if err := x.Validate(); err != nil {
		return Solution{}, err
	}
	if err := y.Validate(); err != nil {
		return Solution{}, err
	}
	if len(x.Nodes) == 0 || len(y.Nodes) == 0 {
		return Solution{Exact: true}, nil
	}
	w, err := metric.GramMatrix(m.inner, x.Nodes, y.Nodes)
	if err != nil {
		return Solution{}, err
	}

	return solve(w, x.Reachability(), y.Reachability(), m.constraint, m.opts), nil
}

// SelfOverlap is the aligned total of x against itself. The identity
// alignment is always admissible, so the result is never below Σ inner(u, u)
// even when the search stops early.
func (m *Matching[T]) SelfOverlap(x Graph[T]) (float64, error) {
	sol, err := m.Solve(x, x)
	if err != nil {
		return 0, err
	}
	var identity float64
	for _, u := range x.Nodes {
		s, err := m.inner.Score(u, u)
		if err != nil {
			return 0, err
		}
		identity += s
	}

	return max(sol.Total, identity), nil
}

// Overlaps computes (Σ(x,y), Σ(x,x), Σ(y,y)).
func (m *Matching[T]) Overlaps(x, y Graph[T]) (metric.Overlaps, error) {
	xy, err := m.Solve(x, y)
	if err != nil {
		return metric.Overlaps{}, err
	}
	xx, err := m.SelfOverlap(x)
	if err != nil {
		return metric.Overlaps{}, err
	}
	yy, err := m.SelfOverlap(y)
	if err != nil {
		return metric.Overlaps{}, err
	}

	return metric.Overlaps{XY: xy.Total, XX: xx, YY: yy, Pairs: xy.Pairs}, nil
}

// Score returns the normalized aligned total.
func (m *Matching[T]) Score(x, y Graph[T]) (float64, error) {
	if m.norm.Kind() == normalize.KindNone {
		sol, err := m.Solve(x, y)
		return sol.Total, err
	}
	o, err := m.Overlaps(x, y)
	if err != nil {
		return 0, err
	}

	return m.norm.Apply(o.XY, o.XX, o.YY), nil
}

// Explain reports the root match and, under the node indices, the nested
// matches of every aligned node pair.
func (m *Matching[T]) Explain(x, y Graph[T]) ([]metric.Match, error) {
	o, err := m.Overlaps(x, y)
	if err != nil {
		return nil, err
	}
	root := o.XY
	if m.norm.Kind() != normalize.KindNone {
		root = m.norm.Apply(o.XY, o.XX, o.YY)
	}
	ms, err := metric.PairMatches(m.inner, x.Nodes, y.Nodes, root, o.Pairs)
	if err != nil {
		return nil, err
	}
	if len(ms) > 0 && len(ms[0].PredPath) == 0 {
		ms[0].Pred, ms[0].Ref = x, y
	}

	return ms, nil
}

// SolveMatrix is Solve over a precomputed similarity matrix and the two
// reachability tables (see Graph.Reachability).
func SolveMatrix(w matrix.Matrix, rx, ry [][]bool, c assign.Constraint, opts Options) (Solution, error) {
	d, err := matrix.AsDense(w)
	if err != nil {
		return Solution{}, err
	}
	if !c.Valid() {
		return Solution{}, fmt.Errorf("%w: %d", assign.ErrUnknownConstraint, int(c))
	}
	if err = opts.Validate(); err != nil {
		return Solution{}, err
	}
	if !square(rx, d.Rows()) || !square(ry, d.Cols()) {
		return Solution{}, fmt.Errorf("%w: reachability tables do not fit a %d×%d matrix", matrix.ErrBadShape, d.Rows(), d.Cols())
	}

	return solve(d, rx, ry, c, opts), nil
}

func square(r [][]bool, n int) bool {
	if len(r) != n {
		return false
	}
	for _, row := range r {
		if len(row) != n {
			return false
		}
	}

	return true
}
