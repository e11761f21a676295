package accum

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/katalvlaran/structeval/log"
)

// Extra derives an additional Suite entry from the computed family scores.
type Extra func(families map[string]Scores) Scores

type extra struct {
	name string
	f    Extra
}

// Suite is a named set of accumulators over the same element type. Updates
// score every family before touching any total, so a failing family leaves
// the whole suite unchanged.
type Suite[T any] struct {
	names  []string
	accs   map[string]*Accumulator[T]
	extras []extra
	opts   options
}

// NewSuite returns an empty suite. Only WithWorkers is meaningful here; it
// sets the pool size of Suite.UpdateBatch.
func NewSuite[T any](opts ...Option) *Suite[T] {
	return &Suite[T]{accs: make(map[string]*Accumulator[T]), opts: newOptions(opts)}
}

// Add registers acc under name.
func (s *Suite[T]) Add(name string, acc *Accumulator[T]) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrFamily)
	case name == AggregateKey:
		return fmt.Errorf("%w: %q is reserved", ErrFamily, name)
	case acc == nil:
		return fmt.Errorf("%w: %q has no accumulator", ErrFamily, name)
	}
	if _, dup := s.accs[name]; dup {
		return fmt.Errorf("%w: duplicate %q", ErrFamily, name)
	}
	for _, e := range s.extras {
		if e.name == name {
			return fmt.Errorf("%w: %q is an extra", ErrFamily, name)
		}
	}
	s.accs[name] = acc
	s.names = append(s.names, name)

	return nil
}

// WithExtra registers f to run after Compute; its result is reported under
// name. Extras run in registration order and see family scores and the
// average, plus earlier extras.
func (s *Suite[T]) WithExtra(name string, f Extra) error {
	if name == "" || name == AggregateKey || f == nil {
		return fmt.Errorf("%w: extra %q", ErrFamily, name)
	}
	if _, dup := s.accs[name]; dup {
		return fmt.Errorf("%w: extra %q shadows a family", ErrFamily, name)
	}
	s.extras = append(s.extras, extra{name: name, f: f})

	return nil
}

// Names returns family names in registration order.
func (s *Suite[T]) Names() []string { return slices.Clone(s.names) }

// Family returns the accumulator registered under name.
func (s *Suite[T]) Family(name string) (*Accumulator[T], bool) {
	acc, ok := s.accs[name]
	return acc, ok
}

// UpdateSingle updates every family with (p, r).
func (s *Suite[T]) UpdateSingle(p, r []T) error {
	row, err := s.measure(p, r)
	if err != nil {
		return err
	}
	for k, name := range s.names {
		s.accs[name].apply([]measurement{row[k]})
	}

	return nil
}

// UpdateBatch updates every family with every (preds[i], refs[i]) pair.
// It is all or nothing, like Accumulator.UpdateBatch.
func (s *Suite[T]) UpdateBatch(ctx context.Context, preds, refs [][]T) error {
	if len(preds) != len(refs) {
		return ErrBatchLength
	}
	rows := make([][]measurement, len(preds))
	err := runBatch(ctx, s.opts.workers, len(preds), func(_ context.Context, i int) error {
		row, err := s.measure(preds[i], refs[i])
		rows[i] = row
		return err
	})
	if err != nil {
		return err
	}
	for k, name := range s.names {
		col := make([]measurement, len(rows))
		for i := range rows {
			col[i] = rows[i][k]
		}
		s.accs[name].apply(col)
	}
	log.Debugf("accum: suite batch of %d pairs over %d families", len(rows), len(s.names))

	return nil
}

func (s *Suite[T]) measure(p, r []T) ([]measurement, error) {
	row := make([]measurement, len(s.names))
	for k, name := range s.names {
		m, err := s.accs[name].measure(p, r)
		if err != nil {
			return nil, fmt.Errorf("family %q: %w", name, err)
		}
		row[k] = m
	}

	return row, nil
}

// Reset clears every family.
func (s *Suite[T]) Reset() {
	for _, acc := range s.accs {
		acc.Reset()
	}
}

// Compute returns each family's scores, the AggregateKey entry and any
// extras. The aggregate holds, for every score key reported by all
// families, the unweighted mean across families.
func (s *Suite[T]) Compute() map[string]Scores {
	out := make(map[string]Scores, len(s.names)+1+len(s.extras))
	for _, name := range s.names {
		out[name] = s.accs[name].Compute()
	}
	out[AggregateKey] = average(out, s.names)
	for _, e := range s.extras {
		out[e.name] = e.f(out)
	}

	return out
}

func average(scores map[string]Scores, names []string) Scores {
	avg := Scores{}
	if len(names) == 0 {
		return avg
	}
	for _, k := range slices.Sorted(maps.Keys(scores[names[0]])) {
		sum, shared := 0.0, true
		for _, name := range names {
			v, ok := scores[name][k]
			if !ok {
				shared = false
				break
			}
			sum += v
		}
		if shared {
			avg[k] = sum / float64(len(names))
		}
	}

	return avg
}
