package latent

import (
	"fmt"

	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/metric"
	"github.com/katalvlaran/structeval/normalize"
)

// SetMatching is the latent counterpart of metric.SetMatching: the
// prediction's variables are aligned onto the reference's by Align before
// the overlap is taken. Self overlaps use the identity renaming.
//
// Scores built on it are approximations from below; see Align.
type SetMatching[T Bindable[T]] struct {
	plain *metric.SetMatching[T]
	opts  Options
}

var (
	_ metric.Metric[[]Atom]     = (*SetMatching[Atom])(nil)
	_ metric.Overlapper[[]Atom] = (*SetMatching[Atom])(nil)
	_ metric.Explainer[[]Atom]  = (*SetMatching[Atom])(nil)
)

// NewSetMatching validates and builds a latent set-matching node.
func NewSetMatching[T Bindable[T]](inner metric.Metric[T], c assign.Constraint, n normalize.Normalizer, opts Options) (*SetMatching[T], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	plain, err := metric.NewSetMatching(inner, c, n)
	if err != nil {
		return nil, err
	}

	return &SetMatching[T]{plain: plain, opts: opts}, nil
}

func (s *SetMatching[T]) Kind() metric.Kind { return metric.KindLatentSetMatching }

func (s *SetMatching[T]) Label() string {
	return fmt.Sprintf("latent(%s, %s, restarts=%d)", s.plain.Constraint(), s.plain.Normalizer(), s.opts.restarts())
}

func (s *SetMatching[T]) Children() []metric.Child { return s.plain.Children() }

// Options returns the search options.
func (s *SetMatching[T]) Options() Options { return s.opts }

// Align runs the latent search of x against y.
func (s *SetMatching[T]) Align(x, y []T) (Alignment, error) {
	return Align(x, y, s.plain.Inner(), s.plain.Constraint(), s.opts)
}

// Overlaps returns the aligned Σ(x,y) with the identity self overlaps.
func (s *SetMatching[T]) Overlaps(x, y []T) (metric.Overlaps, error) {
	al, err := s.Align(x, y)
	if err != nil {
		return metric.Overlaps{}, err
	}
	xx, err := s.plain.SelfOverlap(x)
	if err != nil {
		return metric.Overlaps{}, err
	}
	yy, err := s.plain.SelfOverlap(y)
	if err != nil {
		return metric.Overlaps{}, err
	}

	return metric.Overlaps{XY: al.Total, XX: xx, YY: yy, Pairs: al.Pairs}, nil
}

// Score returns the normalized aligned overlap.
func (s *SetMatching[T]) Score(x, y []T) (float64, error) {
	if s.plain.Normalizer().Kind() == normalize.KindNone {
		al, err := s.Align(x, y)
		return al.Total, err
	}
	o, err := s.Overlaps(x, y)
	if err != nil {
		return 0, err
	}

	return s.plain.Normalizer().Apply(o.XY, o.XX, o.YY), nil
}

// Explain reports the root match and the nested matches of every aligned
// pair. Predicted elements appear with the chosen renaming applied.
func (s *SetMatching[T]) Explain(x, y []T) ([]metric.Match, error) {
	al, err := s.Align(x, y)
	if err != nil {
		return nil, err
	}
	root := al.Total
	if n := s.plain.Normalizer(); n.Kind() != normalize.KindNone {
		xx, err := s.plain.SelfOverlap(x)
		if err != nil {
			return nil, err
		}
		yy, err := s.plain.SelfOverlap(y)
		if err != nil {
			return nil, err
		}
		root = n.Apply(al.Total, xx, yy)
	}

	return metric.PairMatches(s.plain.Inner(), Rename(al, x), y, root, al.Pairs)
}

// Atom is the smallest Bindable: a bare variable. It lets collections of
// variables be aligned directly.
type Atom Variable

func (a Atom) Variables() []Variable { return []Variable{Variable(a)} }

func (a Atom) Rename(f func(Variable) Variable) Atom { return Atom(f(Variable(a))) }

// Factory returns a constructor for latent nodes with a signature that
// type-agnostic builders (such as accum.FromConfig) can accept.
func Factory[T Bindable[T]]() func(metric.Metric[T], assign.Constraint, normalize.Normalizer, Options) (metric.Overlapper[[]T], error) {
	return func(inner metric.Metric[T], c assign.Constraint, n normalize.Normalizer, opts Options) (metric.Overlapper[[]T], error) {
		node, err := NewSetMatching(inner, c, n, opts)
		if err != nil {
			return nil, err
		}
		return node, nil
	}
}
