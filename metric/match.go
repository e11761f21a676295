package metric

import (
	"github.com/katalvlaran/structeval/assign"
)

// Match is one aligned pair of sub-values found while scoring a
// (prediction, reference) pair. Paths are relative to the scored operands.
type Match struct {
	PredPath Path
	Pred     any
	RefPath  Path
	Ref      any
	Score    float64
}

// Explainer is implemented by nodes that can report the nested matches
// behind a score.
type Explainer[T any] interface {
	Explain(x, y T) ([]Match, error)
}

// Explain returns every positive-score match between x and y, outermost
// first. Nodes that do not implement Explainer contribute a single root
// match when their score is positive.
func Explain[T any](m Metric[T], x, y T) ([]Match, error) {
	if e, ok := m.(Explainer[T]); ok {
		return e.Explain(x, y)
	}
	s, err := m.Score(x, y)
	if err != nil || s <= 0 {
		return nil, err
	}

	return []Match{{Pred: x, Ref: y, Score: s}}, nil
}

// rootMatch returns the root match of (x, y) as a one-element slice, or nil
// for a non-positive score.
func rootMatch(x, y any, score float64) []Match {
	if score <= 0 {
		return nil
	}

	return []Match{{Pred: x, Ref: y, Score: score}}
}

// prefixed appends ms to out with pred and ref prepended to their paths.
func prefixed(out, ms []Match, pred, ref Step) []Match {
	for _, m := range ms {
		m.PredPath = m.PredPath.Prepend(pred)
		m.RefPath = m.RefPath.Prepend(ref)
		out = append(out, m)
	}

	return out
}

// PairMatches explains a collection alignment: the root match of (x, y)
// scored root, then for each witnessing pair the nested matches of inner
// under the element indices "[i]" and "[j]".
func PairMatches[T any](inner Metric[T], x, y []T, root float64, pairs []assign.Pair) ([]Match, error) {
	out := rootMatch(x, y, root)
	for _, p := range pairs {
		ms, err := Explain(inner, x[p.Pred], y[p.Ref])
		if err != nil {
			return nil, err
		}
		out = prefixed(out, ms, IndexStep(p.Pred), IndexStep(p.Ref))
	}

	return out, nil
}
