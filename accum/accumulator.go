package accum

import (
	"context"
	"sync"

	"github.com/katalvlaran/structeval/log"
	"github.com/katalvlaran/structeval/metric"
	"github.com/katalvlaran/structeval/normalize"
)

// Accumulator sums overlap triples of (prediction, reference) pairs.
// It is safe for concurrent use.
type Accumulator[T any] struct {
	metric metric.Overlapper[[]T]
	norms  []normalize.Normalizer
	opts   options

	mu     sync.Mutex
	totals metric.Overlaps
	macro  []float64 // per-normalizer sum of per-pair scores
	n      int
}

// New returns an empty accumulator scoring pairs with m.
func New[T any](m metric.Overlapper[[]T], norms []normalize.Normalizer, opts ...Option) (*Accumulator[T], error) {
	if m == nil {
		return nil, metric.ErrNilMetric
	}
	if len(norms) == 0 {
		return nil, ErrNoNormalizers
	}
	o := newOptions(opts)
	if o.err != nil {
		return nil, o.err
	}
	if o.reduction != Micro && o.reduction != Macro {
		return nil, ErrUnknownReduction
	}

	return &Accumulator[T]{
		metric: m,
		norms:  append([]normalize.Normalizer(nil), norms...),
		opts:   o,
		macro:  make([]float64, len(norms)),
	}, nil
}

// Metric returns the collection metric the accumulator scores with.
func (a *Accumulator[T]) Metric() metric.Overlapper[[]T] { return a.metric }

// Normalizers returns a copy of the configured normalizers.
func (a *Accumulator[T]) Normalizers() []normalize.Normalizer {
	return append([]normalize.Normalizer(nil), a.norms...)
}

// UpdateSingle scores one pair and adds it to the totals. On error the
// totals are left untouched.
func (a *Accumulator[T]) UpdateSingle(p, r []T) error {
	m, err := a.measure(p, r)
	if err != nil {
		return err
	}
	a.apply([]measurement{m})

	return nil
}

// UpdateBatch scores preds[i] against refs[i] for every i, in parallel when
// the accumulator was built WithWorkers(n > 1). The batch is all or
// nothing: if any pair fails (or ctx ends first) no totals change and the
// per-pair errors are returned as a *multierror.Error.
func (a *Accumulator[T]) UpdateBatch(ctx context.Context, preds, refs [][]T) error {
	if len(preds) != len(refs) {
		return ErrBatchLength
	}
	results := make([]measurement, len(preds))
	err := runBatch(ctx, a.opts.workers, len(preds), func(_ context.Context, i int) error {
		m, err := a.measure(preds[i], refs[i])
		results[i] = m
		return err
	})
	if err != nil {
		return err
	}
	a.apply(results)
	log.Debugf("accum: batch of %d pairs applied (workers=%d)", len(results), a.opts.workers)

	return nil
}

// measurement is the scored form of one (prediction, reference) pair.
// matches is filled only when path hooks are installed.
type measurement struct {
	o       metric.Overlaps
	matches []metric.Match
}

func (a *Accumulator[T]) measure(p, r []T) (measurement, error) {
	o, err := a.metric.Overlaps(p, r)
	if err != nil {
		return measurement{}, err
	}
	m := measurement{o: o}
	if len(a.opts.hooks) == 0 {
		return m, nil
	}
	if e, ok := a.metric.(metric.Explainer[[]T]); ok {
		if m.matches, err = e.Explain(p, r); err != nil {
			return measurement{}, err
		}
		return m, nil
	}
	if o.XY > 0 {
		m.matches = append(m.matches, metric.Match{Pred: p, Ref: r, Score: o.XY})
	}
	for _, pair := range o.Pairs {
		m.matches = append(m.matches, metric.Match{
			PredPath: metric.Path{metric.IndexStep(pair.Pred)},
			Pred:     p[pair.Pred],
			RefPath:  metric.Path{metric.IndexStep(pair.Ref)},
			Ref:      r[pair.Ref],
			Score:    pair.Score,
		})
	}

	return m, nil
}

// apply adds results in order and then runs the hooks outside the lock.
func (a *Accumulator[T]) apply(results []measurement) {
	a.mu.Lock()
	first := a.n
	for _, m := range results {
		a.add(m.o)
	}
	a.mu.Unlock()

	for k, m := range results {
		if a.opts.onMatch != nil {
			for _, p := range m.o.Pairs {
				a.opts.onMatch(first+k, p)
			}
		}
		for _, match := range m.matches {
			for _, h := range a.opts.hooks {
				if h.sel.Selects(match.PredPath) {
					h.fn(first+k, match)
				}
			}
		}
	}
}

// add requires a.mu.
func (a *Accumulator[T]) add(o metric.Overlaps) {
	a.totals = a.totals.Add(o)
	for k, n := range a.norms {
		a.macro[k] += score(n, o)
	}
	a.n++
}

func score(n normalize.Normalizer, o metric.Overlaps) float64 {
	if n.Kind() == normalize.KindNone {
		return o.XY
	}

	return n.Apply(o.XY, o.XX, o.YY)
}

// Merge adds other's totals into a. Both must share normalizers and
// reduction. other is not modified.
func (a *Accumulator[T]) Merge(other *Accumulator[T]) error {
	if other == a {
		return ErrIncompatible
	}
	if !a.compatible(other) {
		return ErrIncompatible
	}
	other.mu.Lock()
	totals, n := other.totals, other.n
	macro := append([]float64(nil), other.macro...)
	other.mu.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.totals = a.totals.Add(totals)
	for k := range a.macro {
		a.macro[k] += macro[k]
	}
	a.n += n

	return nil
}

func (a *Accumulator[T]) compatible(other *Accumulator[T]) bool {
	if other == nil || a.opts.reduction != other.opts.reduction || len(a.norms) != len(other.norms) {
		return false
	}
	for k := range a.norms {
		if a.norms[k] != other.norms[k] {
			return false
		}
	}

	return true
}

// Reset clears the totals.
func (a *Accumulator[T]) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totals = metric.Overlaps{}
	clear(a.macro)
	a.n = 0
}

// Len returns the number of pairs accumulated.
func (a *Accumulator[T]) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.n
}

// Totals returns the running (Σ(P,R), Σ(P,P), Σ(R,R)).
func (a *Accumulator[T]) Totals() metric.Overlaps {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.totals
}

// Compute returns one score per normalizer. It does not mutate state.
func (a *Accumulator[T]) Compute() Scores {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(Scores, len(a.norms))
	for k, n := range a.norms {
		switch a.opts.reduction {
		case Macro:
			if a.n == 0 {
				out[key(n)] = 0
				continue
			}
			out[key(n)] = a.macro[k] / float64(a.n)
		default:
			out[key(n)] = score(n, a.totals)
		}
	}

	return out
}
