package rank

import "sync"

// Summary is the macro average of per-query ranking scores.
type Summary struct {
	Queries     int
	PrecisionAt Curve
	RecallAt    Curve
	MAP         float64
}

// Accumulator averages ranking scores over queries. It is safe for
// concurrent use.
type Accumulator[T any] struct {
	m *Metric[T]

	mu   sync.Mutex
	p, r Curve
	ap   float64
	n    int
}

// NewAccumulator returns an empty accumulator scoring queries with m.
func NewAccumulator[T any](m *Metric[T]) *Accumulator[T] {
	return &Accumulator[T]{m: m, p: make(Curve, m.maxK), r: make(Curve, m.maxK)}
}

// Update scores one query. On error nothing is recorded.
func (a *Accumulator[T]) Update(x, y []Item[T]) error {
	o, err := a.m.Overlaps(x, y)
	if err != nil {
		return err
	}
	p, r, ap := PrecisionAt(o), RecallAt(o), AveragePrecision(o)

	a.mu.Lock()
	defer a.mu.Unlock()
	for k := range a.p {
		a.p[k] += p[k]
		a.r[k] += r[k]
	}
	a.ap += ap
	a.n++

	return nil
}

// Len returns the number of queries recorded.
func (a *Accumulator[T]) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.n
}

// Reset forgets every query.
func (a *Accumulator[T]) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.p)
	clear(a.r)
	a.ap, a.n = 0, 0
}

// Compute returns the averages; all zero before the first Update.
func (a *Accumulator[T]) Compute() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Summary{Queries: a.n, PrecisionAt: make(Curve, len(a.p)), RecallAt: make(Curve, len(a.r))}
	if a.n == 0 {
		return s
	}
	n := float64(a.n)
	for k := range a.p {
		s.PrecisionAt[k] = a.p[k] / n
		s.RecallAt[k] = a.r[k] / n
	}
	s.MAP = a.ap / n

	return s
}
