package accum

import (
	"fmt"

	"github.com/katalvlaran/structeval"
	"github.com/katalvlaran/structeval/align"
	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/config"
	"github.com/katalvlaran/structeval/latent"
	"github.com/katalvlaran/structeval/metric"
	"github.com/katalvlaran/structeval/normalize"
)

// LatentFactory builds the collection metric of a latent family. It exists
// because latent matching needs an element type with variables, which the
// generic FromConfig cannot require of T; latent.Factory provides one.
type LatentFactory[T any] func(inner metric.Metric[T], c assign.Constraint, n normalize.Normalizer, opts latent.Options) (metric.Overlapper[[]T], error)

// BuildOption configures FromConfig.
type BuildOption[T any] func(*builder[T])

type builder[T any] struct {
	latent LatentFactory[T]
	hook   MatchHook
	paths  []Option
}

// WithLatentFactory enables families with a latent section.
func WithLatentFactory[T any](f LatentFactory[T]) BuildOption[T] {
	return func(b *builder[T]) { b.latent = f }
}

// WithMatchHook installs h on every family accumulator.
func WithMatchHook[T any](h MatchHook) BuildOption[T] {
	return func(b *builder[T]) { b.hook = h }
}

// WithPathHook installs h under selector on every family accumulator; see
// WithHook.
func WithPathHook[T any](selector string, h PathHook) BuildOption[T] {
	return func(b *builder[T]) { b.paths = append(b.paths, WithHook(selector, h)) }
}

// ErrNoLatentFactory is returned for latent families built without WithLatentFactory.
var ErrNoLatentFactory = fmt.Errorf("accum: latent family needs a latent factory: %w", structeval.ErrConfig)

// FromConfig builds a Suite from a validated configuration, resolving
// element metrics through reg. The per-family collection metric is a
// set-matching node, a sequence-matching node or a latent node depending on
// the family's section.
func FromConfig[T any](cfg *config.Suite, reg *metric.Registry[T], opts ...BuildOption[T]) (*Suite[T], error) {
	if cfg == nil || reg == nil {
		return nil, fmt.Errorf("%w: nil config or registry", structeval.ErrConfig)
	}
	var b builder[T]
	for _, opt := range opts {
		opt(&b)
	}
	reduction, err := ParseReduction(cfg.Reduction)
	if err != nil {
		return nil, err
	}

	s := NewSuite[T](WithWorkers(cfg.Workers))
	for _, f := range cfg.Families {
		inner, err := reg.Lookup(f.Metric)
		if err != nil {
			return nil, fmt.Errorf("family %q: %w", f.Name, err)
		}
		node, err := b.node(f, inner)
		if err != nil {
			return nil, fmt.Errorf("family %q: %w", f.Name, err)
		}
		accOpts := append([]Option{WithReduction(reduction), WithWorkers(cfg.Workers), WithOnMatch(b.hook)}, b.paths...)
		acc, err := New(node, f.Normalizers, accOpts...)
		if err != nil {
			return nil, fmt.Errorf("family %q: %w", f.Name, err)
		}
		if err = s.Add(f.Name, acc); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// node builds the un-normalized collection metric of f; accumulators apply
// the family normalizers to the totals themselves.
func (b *builder[T]) node(f config.Family, inner metric.Metric[T]) (metric.Overlapper[[]T], error) {
	switch {
	case f.Latent != nil:
		if b.latent == nil {
			return nil, ErrNoLatentFactory
		}
		return b.latent(inner, f.Constraint, normalize.None, *f.Latent)
	case f.Sequence != nil:
		node, err := align.NewSequenceMatching(inner, f.Constraint, normalize.None, *f.Sequence)
		if err != nil {
			return nil, err
		}
		return node, nil
	default:
		node, err := metric.NewSetMatching(inner, f.Constraint, normalize.None)
		if err != nil {
			return nil, err
		}
		return node, nil
	}
}
