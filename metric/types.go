package metric

import (
	"fmt"

	"github.com/katalvlaran/structeval"
)

// Kind tags the node variants of a metric tree.
type Kind int

const (
	// KindLeaf is a primitive similarity function.
	KindLeaf Kind = iota
	// KindPreprocess maps both operands before delegating.
	KindPreprocess
	// KindProduct multiplies per-field scores.
	KindProduct
	// KindUnion dispatches on the operands' case tag.
	KindUnion
	// KindCast bridges operand types.
	KindCast
	// KindNormalized applies a normalizer to an inner metric.
	KindNormalized
	// KindSetMatching aligns two collections.
	KindSetMatching
	// KindLatentSetMatching aligns two collections carrying free variables.
	KindLatentSetMatching
	// KindSequenceMatching aligns two ordered sequences monotonically.
	KindSequenceMatching
	// KindGraphMatching aligns the nodes of two graphs preserving reachability.
	KindGraphMatching
)

var kindNames = [...]string{
	KindLeaf:              "leaf",
	KindPreprocess:        "preprocess",
	KindProduct:           "product",
	KindUnion:             "union",
	KindCast:              "cast",
	KindNormalized:        "normalized",
	KindSetMatching:       "set",
	KindLatentSetMatching: "latent-set",
	KindSequenceMatching:  "sequence",
	KindGraphMatching:     "graph",
}

// String returns the lower-case variant name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// Node is the type-independent view of a metric tree node.
type Node interface {
	// Kind reports the node variant.
	Kind() Kind
	// Label is a short human-readable description used by Describe.
	Label() string
	// Children returns the direct sub-metrics, in a deterministic order.
	Children() []Child
}

// Child is a named edge of a metric tree.
type Child struct {
	Name string
	Node Node
}

// Metric scores two values of type T. Implementations are pure,
// deterministic and safe for concurrent use.
type Metric[T any] interface {
	Node
	// Score returns φ(x, y) ≥ 0.
	Score(x, y T) (float64, error)
}

// Record is implemented by values whose fields Product can address by name.
type Record interface {
	// Field returns the value of the named field, or false if the record
	// does not declare it.
	Field(name string) (any, bool)
}

// Fields is a map-backed Record.
type Fields map[string]any

// Field implements Record.
func (f Fields) Field(name string) (any, bool) {
	v, ok := f[name]
	return v, ok
}

// Tagged is implemented by values that belong to one case of a Union.
type Tagged interface {
	// Tag names the runtime case of the value.
	Tag() string
}

var (
	// ErrMissingField is returned when an operand of Product lacks a declared field.
	ErrMissingField = fmt.Errorf("metric: missing field: %w", structeval.ErrTypeMismatch)

	// ErrUnknownCase is returned when an operand of Union carries an undeclared tag.
	ErrUnknownCase = fmt.Errorf("metric: undeclared union case: %w", structeval.ErrTypeMismatch)

	// ErrWrongType is returned by Cast when an operand has an unexpected dynamic type.
	ErrWrongType = fmt.Errorf("metric: unexpected operand type: %w", structeval.ErrTypeMismatch)

	// ErrNilMetric is returned by constructors given a nil child metric.
	ErrNilMetric = fmt.Errorf("metric: nil child metric: %w", structeval.ErrConfig)

	// ErrEmptyName is returned by constructors given an empty field, case or registry name.
	ErrEmptyName = fmt.Errorf("metric: empty name: %w", structeval.ErrConfig)

	// ErrUnknownMetric is returned by Registry.Lookup for unregistered names.
	ErrUnknownMetric = fmt.Errorf("metric: unknown metric: %w", structeval.ErrConfig)

	// ErrDuplicateMetric is returned by Registry.Register when a name is taken.
	ErrDuplicateMetric = fmt.Errorf("metric: duplicate metric: %w", structeval.ErrConfig)
)

// Must panics if err is non-nil and returns m otherwise. It is meant for
// package-level trees whose shape is fixed at compile time.
func Must[T any](m Metric[T], err error) Metric[T] {
	if err != nil {
		panic(err)
	}

	return m
}
