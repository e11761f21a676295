package metric

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// leaf wraps a primitive similarity function.
type leaf[T any] struct {
	label string
	f     func(x, y T) (float64, error)
}

func (l *leaf[T]) Kind() Kind                    { return KindLeaf }
func (l *leaf[T]) Label() string                 { return l.label }
func (l *leaf[T]) Children() []Child             { return nil }
func (l *leaf[T]) Score(x, y T) (float64, error) { return l.f(x, y) }

// Func lifts a plain similarity function into a Metric. f must be pure and
// return values ≥ 0.
func Func[T any](f func(x, y T) float64) Metric[T] {
	return &leaf[T]{label: "func", f: func(x, y T) (float64, error) { return f(x, y), nil }}
}

// FuncErr is Func for similarity functions that can fail.
func FuncErr[T any](f func(x, y T) (float64, error)) Metric[T] {
	return &leaf[T]{label: "func", f: f}
}

// Discrete is the identity comparison: 1 when x == y, 0 otherwise.
func Discrete[T comparable]() Metric[T] {
	return &leaf[T]{label: "discrete", f: func(x, y T) (float64, error) {
		if x == y {
			return 1, nil
		}
		return 0, nil
	}}
}

// Constant returns v for every pair. Constant(1) is the "don't care" metric
// used for fields whose identity must not influence the score.
func Constant[T any](v float64) Metric[T] {
	return &leaf[T]{
		label: "const(" + strconv.FormatFloat(v, 'g', -1, 64) + ")",
		f:     func(T, T) (float64, error) { return v, nil },
	}
}

// TextOptions controls string canonicalisation for Text and TokenOverlap.
type TextOptions struct {
	// Unicode applies NFKC normalization.
	Unicode bool
	// FoldCase applies Unicode case folding.
	FoldCase bool
	// TrimSpace strips leading and trailing white space.
	TrimSpace bool
}

// Canonical applies the options to s.
func (o TextOptions) Canonical(s string) string {
	if o.Unicode {
		s = norm.NFKC.String(s)
	}
	if o.TrimSpace {
		s = strings.TrimSpace(s)
	}
	if o.FoldCase {
		// A Caser is stateful; build one per call so the metric stays shareable.
		s = cases.Fold().String(s)
	}

	return s
}

// Text compares strings for equality after canonicalisation.
func Text(opts TextOptions) Metric[string] {
	return &leaf[string]{label: "text", f: func(x, y string) (float64, error) {
		if opts.Canonical(x) == opts.Canonical(y) {
			return 1, nil
		}
		return 0, nil
	}}
}

// TokenOverlap scores two strings by the Jaccard overlap of their
// canonicalised token sets. Two token-less strings score 1, so the metric is
// reflexive.
func TokenOverlap(opts TextOptions) Metric[string] {
	return &leaf[string]{label: "tokens", f: func(x, y string) (float64, error) {
		a, b := tokenSet(opts.Canonical(x)), tokenSet(opts.Canonical(y))
		if len(a) == 0 && len(b) == 0 {
			return 1, nil
		}
		inter := 0
		for tok := range a {
			if _, ok := b[tok]; ok {
				inter++
			}
		}
		return float64(inter) / float64(len(a)+len(b)-inter), nil
	}}
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.FieldsFunc(s, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsPunct(r) })
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}

	return set
}
