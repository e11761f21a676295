package metric

import (
	"fmt"

	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/matrix"
	"github.com/katalvlaran/structeval/normalize"
)

// Overlaps bundles the three overlaps a normalizer needs, plus the pairs
// that witness XY.
type Overlaps struct {
	XY float64 // Σ(P,R)
	XX float64 // Σ(P,P)
	YY float64 // Σ(R,R)

	Pairs []assign.Pair
}

// Add returns the component-wise sum of o and other (pairs are dropped).
func (o Overlaps) Add(other Overlaps) Overlaps {
	return Overlaps{XY: o.XY + other.XY, XX: o.XX + other.XX, YY: o.YY + other.YY}
}

// Overlapper is implemented by collection metrics that can report the raw
// overlap triple of a (prediction, reference) pair. Accumulators consume it.
type Overlapper[C any] interface {
	Node
	Overlaps(x, y C) (Overlaps, error)
}

// GramMatrix evaluates m over xs × ys into a matrix.Dense.
func GramMatrix[T any](m Metric[T], xs, ys []T) (*matrix.Dense, error) {
	return matrix.Gram(len(xs), len(ys), func(i, j int) (float64, error) {
		return m.Score(xs[i], ys[j])
	})
}

// SetMatching scores two collections by their best alignment under a
// constraint, normalized by a Normalizer.
type SetMatching[T any] struct {
	inner      Metric[T]
	constraint assign.Constraint
	norm       normalize.Normalizer
}

var (
	_ Metric[[]int]     = (*SetMatching[int])(nil)
	_ Overlapper[[]int] = (*SetMatching[int])(nil)
	_ Explainer[[]int]  = (*SetMatching[int])(nil)
)

// NewSetMatching validates and builds a set-matching node.
// Invalid constraints fail here with ErrConfig, never while scoring.
func NewSetMatching[T any](inner Metric[T], c assign.Constraint, n normalize.Normalizer) (*SetMatching[T], error) {
	if inner == nil {
		return nil, ErrNilMetric
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", assign.ErrUnknownConstraint, int(c))
	}

	return &SetMatching[T]{inner: inner, constraint: c, norm: n}, nil
}

func (s *SetMatching[T]) Kind() Kind { return KindSetMatching }

func (s *SetMatching[T]) Label() string {
	return fmt.Sprintf("set(%s, %s)", s.constraint, s.norm)
}

func (s *SetMatching[T]) Children() []Child { return []Child{{Name: "[*]", Node: s.inner}} }

// Inner returns the element metric.
func (s *SetMatching[T]) Inner() Metric[T] { return s.inner }

// Constraint returns the alignment constraint.
func (s *SetMatching[T]) Constraint() assign.Constraint { return s.constraint }

// Normalizer returns the normalizer applied by Score.
func (s *SetMatching[T]) Normalizer() normalize.Normalizer { return s.norm }

// Overlap returns Σ(x, y) and its witnessing pairs. Either side empty ⇒ 0.
func (s *SetMatching[T]) Overlap(x, y []T) (assign.Result, error) {
	if len(x) == 0 || len(y) == 0 {
		return assign.Result{}, nil
	}
	w, err := GramMatrix(s.inner, x, y)
	if err != nil {
		return assign.Result{}, err
	}

	return assign.Solve(w, s.constraint)
}

// SelfOverlap returns Σ(x, x) under the same constraint.
func (s *SetMatching[T]) SelfOverlap(x []T) (float64, error) {
	res, err := s.Overlap(x, x)
	if err != nil {
		return 0, err
	}

	return res.Total, nil
}

// Overlaps computes (Σ(x,y), Σ(x,x), Σ(y,y)).
func (s *SetMatching[T]) Overlaps(x, y []T) (Overlaps, error) {
	xy, err := s.Overlap(x, y)
	if err != nil {
		return Overlaps{}, err
	}
	xx, err := s.SelfOverlap(x)
	if err != nil {
		return Overlaps{}, err
	}
	yy, err := s.SelfOverlap(y)
	if err != nil {
		return Overlaps{}, err
	}

	return Overlaps{XY: xy.Total, XX: xx, YY: yy, Pairs: xy.Pairs}, nil
}

// Score returns the normalized overlap. With normalize.None it is the raw Σ
// and the self overlaps are not computed.
func (s *SetMatching[T]) Score(x, y []T) (float64, error) {
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

// Explain reports the root match (scored like Score) and, under "[i]" and
// "[j]", the nested matches of every witnessing pair.
func (s *SetMatching[T]) Explain(x, y []T) ([]Match, error) {
	if s.norm.Kind() == normalize.KindNone {
		res, err := s.Overlap(x, y)
		if err != nil {
			return nil, err
		}
		return PairMatches(s.inner, x, y, res.Total, res.Pairs)
	}
	o, err := s.Overlaps(x, y)
	if err != nil {
		return nil, err
	}

	return PairMatches(s.inner, x, y, s.norm.Apply(o.XY, o.XX, o.YY), o.Pairs)
}
