package rank

import (
	"fmt"
	"math"

	"github.com/katalvlaran/structeval"
	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/matrix"
	"github.com/katalvlaran/structeval/metric"
)

// Item is one ranked element and the weight it carries.
type Item[T any] struct {
	Value  T
	Weight float64
}

// Uniform wraps xs as items of weight 1, keeping their order.
func Uniform[T any](xs []T) []Item[T] {
	out := make([]Item[T], len(xs))
	for i, x := range xs {
		out[i] = Item[T]{Value: x, Weight: 1}
	}

	return out
}

// Curve holds one value per cutoff; Curve[k-1] is the value at k.
type Curve []float64

// At returns the value at cutoff k, clamped to the curve's range. An empty
// curve reports 0.
func (c Curve) At(k int) float64 {
	if len(c) == 0 {
		return 0
	}

	return c[min(max(k, 1), len(c))-1]
}

// Overlaps bundles the three curves of one query.
type Overlaps struct {
	XY, XX, YY Curve
}

var (
	// ErrMaxK is returned by New for cutoffs below 1.
	ErrMaxK = fmt.Errorf("rank: max k must be at least 1: %w", structeval.ErrConfig)

	// ErrWeight is returned for negative, NaN or infinite item weights.
	ErrWeight = fmt.Errorf("rank: item weight must be finite and ≥ 0: %w", structeval.ErrTypeMismatch)
)

// Metric is a ranking metric over elements scored by an inner metric.
type Metric[T any] struct {
	inner metric.Metric[T]
	maxK  int
}

// DefaultMaxK is the cutoff used by callers that have no better choice.
const DefaultMaxK = 100

// New builds a ranking metric with cutoffs 1..maxK.
func New[T any](inner metric.Metric[T], maxK int) (*Metric[T], error) {
	if inner == nil {
		return nil, metric.ErrNilMetric
	}
	if maxK < 1 {
		return nil, fmt.Errorf("%w: %d", ErrMaxK, maxK)
	}

	return &Metric[T]{inner: inner, maxK: maxK}, nil
}

// MaxK returns the largest cutoff.
func (m *Metric[T]) MaxK() int { return m.maxK }

// Inner returns the element metric.
func (m *Metric[T]) Inner() metric.Metric[T] { return m.inner }

// Label describes the metric for logs and trees.
func (m *Metric[T]) Label() string { return fmt.Sprintf("ranking(k=%d)", m.maxK) }

// Compute returns XY: for each cutoff k the best weighted 1:1 overlap
// between the top-k predictions and the reference.
func (m *Metric[T]) Compute(x, y []Item[T]) (Curve, error) {
	x = m.truncate(x)
	if err := checkWeights(x); err != nil {
		return nil, err
	}
	if err := checkWeights(y); err != nil {
		return nil, err
	}
	w, err := matrix.Gram(len(x), len(y), func(i, j int) (float64, error) {
		s, err := m.inner.Score(x[i].Value, y[j].Value)
		return s * x[i].Weight * y[j].Weight, err
	})
	if err != nil {
		return nil, err
	}
	totals, err := assign.PrefixTotals(w)
	if err != nil {
		return nil, err
	}

	return m.extend(totals), nil
}

// Self returns XX: the cumulative weighted self overlap of the top-k
// predictions, Σ inner(u, u)·w(u)².
func (m *Metric[T]) Self(x []Item[T]) (Curve, error) {
	x = m.truncate(x)
	if err := checkWeights(x); err != nil {
		return nil, err
	}
	cum := make([]float64, len(x))
	var total float64
	for i, it := range x {
		s, err := m.inner.Score(it.Value, it.Value)
		if err != nil {
			return nil, err
		}
		total += s * it.Weight * it.Weight
		cum[i] = total
	}

	return m.extend(cum), nil
}

// Overlaps computes the XY, XX and YY curves of one query.
func (m *Metric[T]) Overlaps(x, y []Item[T]) (Overlaps, error) {
	xy, err := m.Compute(x, y)
	if err != nil {
		return Overlaps{}, err
	}
	xx, err := m.Self(x)
	if err != nil {
		return Overlaps{}, err
	}
	var yy float64
	for _, it := range y {
		s, err := m.inner.Score(it.Value, it.Value)
		if err != nil {
			return Overlaps{}, err
		}
		yy += s * it.Weight * it.Weight
	}
	flat := make(Curve, m.maxK)
	for k := range flat {
		flat[k] = yy
	}

	return Overlaps{XY: xy, XX: xx, YY: flat}, nil
}

func (m *Metric[T]) truncate(x []Item[T]) []Item[T] {
	if len(x) > m.maxK {
		return x[:m.maxK]
	}

	return x
}

// extend pads vals to maxK with its last value (0 when empty).
func (m *Metric[T]) extend(vals []float64) Curve {
	out := make(Curve, m.maxK)
	copy(out, vals)
	var last float64
	if len(vals) > 0 {
		last = vals[len(vals)-1]
	}
	for k := len(vals); k < m.maxK; k++ {
		out[k] = last
	}

	return out
}

func checkWeights[T any](items []Item[T]) error {
	for i, it := range items {
		if it.Weight < 0 || math.IsNaN(it.Weight) || math.IsInf(it.Weight, 0) {
			return fmt.Errorf("%w: item %d has weight %v", ErrWeight, i, it.Weight)
		}
	}

	return nil
}
