package assign

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/structeval"
)

// Constraint is the alignment-cardinality policy between predicted and
// reference elements.
type Constraint int

const (
	// OneToOne allows each element on either side to be used at most once.
	OneToOne Constraint = iota

	// OneToMany lets each predicted element pick one reference element, with
	// reference elements reusable.
	OneToMany

	// ManyToOne lets each reference element pick one predicted element, with
	// predicted elements reusable.
	ManyToOne

	// Unconstrained counts every pair of the cross product.
	Unconstrained
)

// ErrUnknownConstraint is returned by ParseConstraint for unrecognised tokens
// and by Solve for out-of-range Constraint values.
var ErrUnknownConstraint = fmt.Errorf("assign: unknown constraint: %w", structeval.ErrConfig)

var constraintNames = [...]string{
	OneToOne:      "<->",
	OneToMany:     "<-",
	ManyToOne:     "->",
	Unconstrained: "~",
}

// constraintTokens maps every accepted spelling to its Constraint.
var constraintTokens = map[string]Constraint{
	"<->": OneToOne, "1:1": OneToOne, "one_to_one": OneToOne,
	"<-": OneToMany, "1:*": OneToMany, "one_to_many": OneToMany,
	"->": ManyToOne, "*:1": ManyToOne, "many_to_one": ManyToOne,
	"~": Unconstrained, "*:*": Unconstrained, "many_to_many": Unconstrained, "unconstrained": Unconstrained,
}

// String returns the arrow token of c ("<->", "<-", "->", "~").
func (c Constraint) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Constraint(%d)", int(c))
	}

	return constraintNames[c]
}

// Valid reports whether c is one of the four declared constraints.
func (c Constraint) Valid() bool {
	return c >= OneToOne && c <= Unconstrained
}

// ParseConstraint resolves a textual token. Accepted spellings are the arrow
// forms "<->", "<-", "->", "~", the cardinality forms "1:1", "1:*", "*:1",
// "*:*" and the snake-case names ("one_to_one", ...). Matching is
// case-insensitive for names and ignores surrounding whitespace.
func ParseConstraint(token string) (Constraint, error) {
	c, ok := constraintTokens[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownConstraint, token)
	}

	return c, nil
}

// Pair is one aligned (predicted, reference) index pair and its similarity.
type Pair struct {
	Pred  int
	Ref   int
	Score float64
}

// Result is the outcome of Solve.
type Result struct {
	// Total is the achieved overlap Σ under the constraint.
	Total float64

	// Pairs witnesses Total: the sum of Pairs[k].Score equals Total up to
	// rounding. Zero-score pairs are omitted. Ordered by (Pred, Ref).
	Pairs []Pair
}
