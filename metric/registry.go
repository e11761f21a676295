package metric

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry is an explicit name → metric table for one element type. It is
// built once by the caller and passed by reference to whatever needs to
// resolve metric names (e.g. config-driven suites); there is no global
// instance.
type Registry[T any] struct {
	mu      sync.RWMutex
	metrics map[string]Metric[T]
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{metrics: make(map[string]Metric[T])}
}

// Register binds name to m. Empty names, nil metrics and re-registration fail
// with ErrConfig-class errors.
func (r *Registry[T]) Register(name string, m Metric[T]) error {
	if name == "" {
		return ErrEmptyName
	}
	if m == nil {
		return fmt.Errorf("%w: %q", ErrNilMetric, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.metrics[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateMetric, name)
	}
	r.metrics[name] = m

	return nil
}

// Lookup returns the metric registered under name.
func (r *Registry[T]) Lookup(name string) (Metric[T], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}

	return m, nil
}

// Names lists registered names in lexicographic order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.metrics))
}
