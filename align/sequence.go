package align

import (
	"fmt"

	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/metric"
	"github.com/katalvlaran/structeval/normalize"
)

// SequenceMatching scores two sequences by their best monotone alignment.
type SequenceMatching[T any] struct {
	inner      metric.Metric[T]
	constraint assign.Constraint
	norm       normalize.Normalizer
	opts       Options
}

var (
	_ metric.Metric[[]int]     = (*SequenceMatching[int])(nil)
	_ metric.Overlapper[[]int] = (*SequenceMatching[int])(nil)
	_ metric.Explainer[[]int]  = (*SequenceMatching[int])(nil)
)

// NewSequenceMatching validates and builds a sequence-matching node.
func NewSequenceMatching[T any](inner metric.Metric[T], c assign.Constraint, n normalize.Normalizer, opts Options) (*SequenceMatching[T], error) {
	if inner == nil {
		return nil, metric.ErrNilMetric
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", assign.ErrUnknownConstraint, int(c))
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &SequenceMatching[T]{inner: inner, constraint: c, norm: n, opts: opts}, nil
}

func (s *SequenceMatching[T]) Kind() metric.Kind { return metric.KindSequenceMatching }

func (s *SequenceMatching[T]) Label() string {
	return fmt.Sprintf("sequence(%s, %s)", s.constraint, s.norm)
}

func (s *SequenceMatching[T]) Children() []metric.Child {
	return []metric.Child{{Name: "[*]", Node: s.inner}}
}

// Overlap returns the aligned total of x against y.
func (s *SequenceMatching[T]) Overlap(x, y []T) (assign.Result, error) {
	if len(x) == 0 || len(y) == 0 {
		return assign.Result{}, nil
	}
	w, err := metric.GramMatrix(s.inner, x, y)
	if err != nil {
		return assign.Result{}, err
	}

	return Solve(w, s.constraint, s.opts)
}

// SelfOverlap is Σ f(u,u) under OneToOne (the identity alignment) and the
// aligned total of x against itself otherwise.
func (s *SequenceMatching[T]) SelfOverlap(x []T) (float64, error) {
	if s.constraint != assign.OneToOne {
		res, err := s.Overlap(x, x)
		return res.Total, err
	}
	total := 0.0
	for _, u := range x {
		v, err := s.inner.Score(u, u)
		if err != nil {
			return 0, err
		}
		total += v
	}

	return total, nil
}

// Overlaps computes (Σ(x,y), Σ(x,x), Σ(y,y)).
func (s *SequenceMatching[T]) Overlaps(x, y []T) (metric.Overlaps, error) {
	xy, err := s.Overlap(x, y)
	if err != nil {
		return metric.Overlaps{}, err
	}
	xx, err := s.SelfOverlap(x)
	if err != nil {
		return metric.Overlaps{}, err
	}
	yy, err := s.SelfOverlap(y)
	if err != nil {
		return metric.Overlaps{}, err
	}

	return metric.Overlaps{XY: xy.Total, XX: xx, YY: yy, Pairs: xy.Pairs}, nil
}

// Score returns the normalized aligned total.
func (s *SequenceMatching[T]) Score(x, y []T) (float64, error) {
	if s.norm.Kind() == normalize.KindNone {
		res, err := s.Overlap(x, y)
		return res.Total, err
	}
	o, err := s.Overlaps(x, y)
	if err != nil {
		return 0, err
	}

	return s.norm.Apply(o.XY, o.XX, o.YY), nil
}

// Explain reports the root match and the nested matches of every aligned
// pair, in sequence order.
func (s *SequenceMatching[T]) Explain(x, y []T) ([]metric.Match, error) {
	if s.norm.Kind() == normalize.KindNone {
		res, err := s.Overlap(x, y)
		if err != nil {
			return nil, err
		}
		return metric.PairMatches(s.inner, x, y, res.Total, res.Pairs)
	}
	o, err := s.Overlaps(x, y)
	if err != nil {
		return nil, err
	}

	return metric.PairMatches(s.inner, x, y, s.norm.Apply(o.XY, o.XX, o.YY), o.Pairs)
}
