package accum

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/structeval"
	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/metric"
	"github.com/katalvlaran/structeval/normalize"
)

// Reduction selects how per-pair overlaps become a corpus score.
type Reduction int

const (
	// Micro normalizes the summed totals.
	Micro Reduction = iota
	// Macro averages the per-pair normalized scores.
	Macro
)

func (r Reduction) String() string {
	switch r {
	case Micro:
		return "micro"
	case Macro:
		return "macro"
	default:
		return fmt.Sprintf("Reduction(%d)", int(r))
	}
}

// ParseReduction maps "micro" and "macro" (case-insensitive) to a Reduction.
func ParseReduction(token string) (Reduction, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "", "micro":
		return Micro, nil
	case "macro":
		return Macro, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownReduction, token)
}

// Scores maps a normalizer name ("precision", "f1", ...) to its value.
type Scores map[string]float64

// OverlapKey reports the raw Σ(P,R) when normalize.None is requested.
const OverlapKey = "overlap"

// AggregateKey is the Suite entry holding cross-family averages.
const AggregateKey = "average"

// key returns the Scores key of n.
func key(n normalize.Normalizer) string {
	if n.Kind() == normalize.KindNone {
		return OverlapKey
	}

	return n.Name()
}

// MatchHook observes each witnessing pair of an update. dataID is the
// 0-based index of the update in the accumulator's history.
type MatchHook func(dataID int, p assign.Pair)

// PathHook observes one nested match of an update whose predicted path is
// covered by the hook's selector. dataID is as for MatchHook.
type PathHook func(dataID int, m metric.Match)

type pathHook struct {
	sel metric.Path
	fn  PathHook
}

type options struct {
	reduction Reduction
	workers   int
	onMatch   MatchHook
	hooks     []pathHook
	err       error
}

// Option configures an Accumulator or a Suite.
type Option func(*options)

// WithReduction sets the reduction (default Micro).
func WithReduction(r Reduction) Option {
	return func(o *options) { o.reduction = r }
}

// WithWorkers sets the UpdateBatch pool size. Values ≤ 1 run sequentially.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithOnMatch installs a hook called for every witnessing pair.
func WithOnMatch(h MatchHook) Option {
	return func(o *options) { o.onMatch = h }
}

// WithHook installs h for every match whose predicted path is covered by
// selector, e.g. "[*]" for top-level elements or "[*].args[*]" for their
// arguments. A malformed selector makes New fail with metric.ErrBadPath.
func WithHook(selector string, h PathHook) Option {
	return func(o *options) {
		sel, err := metric.ParsePath(selector)
		switch {
		case err != nil:
			o.err = errors.Join(o.err, err)
		case h == nil:
			o.err = errors.Join(o.err, fmt.Errorf("%w: nil hook for %q", ErrHook, selector))
		default:
			o.hooks = append(o.hooks, pathHook{sel: sel, fn: h})
		}
	}
}

func newOptions(opts []Option) options {
	o := options{reduction: Micro}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

var (
	// ErrUnknownReduction is returned by ParseReduction.
	ErrUnknownReduction = fmt.Errorf("accum: unknown reduction: %w", structeval.ErrConfig)

	// ErrNoNormalizers is returned when an accumulator is built without normalizers.
	ErrNoNormalizers = fmt.Errorf("accum: no normalizers: %w", structeval.ErrConfig)

	// ErrIncompatible is returned by Merge for accumulators with different settings.
	ErrIncompatible = fmt.Errorf("accum: incompatible accumulators: %w", structeval.ErrConfig)

	// ErrFamily is returned by Suite.Add for empty, reserved or duplicate names.
	ErrFamily = fmt.Errorf("accum: invalid family: %w", structeval.ErrConfig)

	// ErrHook is returned by New for hooks installed without a callback.
	ErrHook = fmt.Errorf("accum: invalid hook: %w", structeval.ErrConfig)

	// ErrBatchLength is returned when predictions and references differ in length.
	ErrBatchLength = fmt.Errorf("accum: predictions and references differ in length: %w", structeval.ErrTypeMismatch)
)
