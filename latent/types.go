package latent

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/structeval"
	"github.com/katalvlaran/structeval/assign"
)

type scope uint8

const (
	scopeBound scope = iota
	scopeFree
	scopeAny
)

// Variable is a symbolic identifier scoped to one structure instance.
// The zero value is the bound variable with an empty name.
type Variable struct {
	Name  string
	scope scope
}

// Wildcard is the variable every element is renamed to when variable
// identity is ignored. Two Wildcards compare equal.
var Wildcard = Variable{Name: "*", scope: scopeAny}

// Var returns the bound variable called name.
func Var(name string) Variable { return Variable{Name: name} }

// free marks v as left unaligned by a renaming. A free variable never equals
// a bound one, so elements that reference it cannot match exactly.
func free(v Variable) Variable { return Variable{Name: v.Name, scope: scopeFree} }

// Bound reports whether v is an ordinary named variable.
func (v Variable) Bound() bool { return v.scope == scopeBound }

func (v Variable) String() string {
	switch v.scope {
	case scopeFree:
		return "?" + v.Name
	case scopeAny:
		return "*"
	default:
		return v.Name
	}
}

// Bindable is implemented by elements that reference variables.
//
// Variables lists the referenced variables positionally (repeats allowed):
// the k-th variable of one element is assumed to play the same role as the
// k-th variable of another element of the same kind. Rename returns a copy
// with every variable passed through f and must not mutate the receiver.
type Bindable[T any] interface {
	Variables() []Variable
	Rename(f func(Variable) Variable) T
}

// Options tunes the anytime search.
type Options struct {
	// Restarts is the number of greedy initializations tried. The first is
	// deterministic; the others jitter the greedy order. Zero means one.
	Restarts int

	// MaxIters caps the number of candidate renamings evaluated by the hill
	// climb of one restart. Zero disables the hill climb.
	MaxIters int

	// Seed drives the jitter of restarts after the first. Zero selects a
	// fixed default seed, so results stay reproducible.
	Seed int64

	// Perturb is the relative jitter in [0, 1] applied to greedy affinities
	// on restarts after the first.
	Perturb float64

	// Eps is the minimum gain for a move to count as an improvement.
	Eps float64
}

// DefaultOptions returns the options used by NewSetMatching callers that
// have no tuning needs.
func DefaultOptions() Options {
	return Options{
		Restarts: 4,
		MaxIters: 1000,
		Seed:     0,
		Perturb:  0.5,
		Eps:      1e-9,
	}
}

// Alignment is the outcome of one Align call.
type Alignment struct {
	// Total is the best Σ found. It never exceeds the joint optimum.
	Total float64

	// Pairs witnesses Total: element i of the prediction matched element j
	// of the reference after renaming.
	Pairs []assign.Pair

	// Renaming maps aligned predicted variables to reference variables.
	// Predicted variables absent from the map stayed unaligned.
	Renaming map[Variable]Variable

	// Restarts is the number of restarts actually run.
	Restarts int

	// Moves counts improving moves accepted across all restarts.
	Moves int

	// Exact is true when no renaming choice existed (one side has no
	// variables or no elements), so Total is the optimum.
	Exact bool
}

// Rename applies al's renaming to every element of xs. Variables the
// renaming leaves out become free, exactly as during the search.
func Rename[T Bindable[T]](al Alignment, xs []T) []T {
	f := func(v Variable) Variable {
		if to, ok := al.Renaming[v]; ok {
			return to
		}
		return free(v)
	}
	out := make([]T, len(xs))
	for i, e := range xs {
		out[i] = e.Rename(f)
	}

	return out
}

var (
	// ErrOptions is returned for negative budgets, NaN values or Perturb > 1.
	ErrOptions = fmt.Errorf("latent: invalid options: %w", structeval.ErrConfig)

	// errBudget stops a hill climb once MaxIters evaluations were spent.
	errBudget = errors.New("latent: evaluation budget exhausted")
)
