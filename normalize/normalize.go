package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/katalvlaran/structeval"
)

// Kind enumerates the normalizer families.
type Kind int

const (
	// KindNone reports the raw overlap.
	KindNone Kind = iota
	// KindPrecision divides by the predicted self overlap.
	KindPrecision
	// KindRecall divides by the reference self overlap.
	KindRecall
	// KindJaccard is intersection over union.
	KindJaccard
	// KindFBeta is the weighted harmonic mean of precision and recall; Dice is β=1.
	KindFBeta
)

var (
	// ErrUnknownNormalizer is returned by Parse for unrecognised tokens.
	ErrUnknownNormalizer = fmt.Errorf("normalize: unknown normalizer: %w", structeval.ErrConfig)

	// ErrNonPositiveBeta is returned by FBeta when β ≤ 0, NaN or infinite.
	ErrNonPositiveBeta = fmt.Errorf("normalize: beta must be a positive finite real: %w", structeval.ErrConfig)
)

// Normalizer is an immutable value describing one normalization.
// The zero value is None.
type Normalizer struct {
	kind Kind
	beta float64
}

// Predeclared normalizers.
var (
	None      = Normalizer{kind: KindNone}
	Precision = Normalizer{kind: KindPrecision}
	Recall    = Normalizer{kind: KindRecall}
	Jaccard   = Normalizer{kind: KindJaccard}
	Dice      = Normalizer{kind: KindFBeta, beta: 1}
)

// FBeta returns the F-β normalizer. β must be a positive finite real.
func FBeta(beta float64) (Normalizer, error) {
	if !(beta > 0) || math.IsInf(beta, 0) {
		return Normalizer{}, fmt.Errorf("%w: %v", ErrNonPositiveBeta, beta)
	}

	return Normalizer{kind: KindFBeta, beta: beta}, nil
}

// Kind reports the normalizer family.
func (n Normalizer) Kind() Kind { return n.kind }

// Beta returns β for F-β normalizers and 0 otherwise.
func (n Normalizer) Beta() float64 { return n.beta }

// Name is the key under which accumulators report this normalizer:
// "" for None, "precision", "recall", "jaccard", "f1", or "f<β>".
func (n Normalizer) Name() string {
	switch n.kind {
	case KindPrecision:
		return "precision"
	case KindRecall:
		return "recall"
	case KindJaccard:
		return "jaccard"
	case KindFBeta:
		return "f" + strconv.FormatFloat(n.beta, 'g', -1, 64)
	default:
		return ""
	}
}

// String implements fmt.Stringer; None prints as "none".
func (n Normalizer) String() string {
	if n.kind == KindNone {
		return "none"
	}

	return n.Name()
}

// Parse resolves a token: "none", "p"/"precision", "r"/"recall",
// "j"/"jaccard", "dice"/"f"/"f1", or "f<β>" such as "f0.5" and "f2".
func Parse(token string) (Normalizer, error) {
	tok := strings.ToLower(strings.TrimSpace(token))
	switch tok {
	case "none", "":
		return None, nil
	case "p", "precision":
		return Precision, nil
	case "r", "recall":
		return Recall, nil
	case "j", "jaccard":
		return Jaccard, nil
	case "dice", "f", "f1":
		return Dice, nil
	}
	if strings.HasPrefix(tok, "f") {
		beta, err := strconv.ParseFloat(tok[1:], 64)
		if err != nil {
			return Normalizer{}, fmt.Errorf("%w: %q", ErrUnknownNormalizer, token)
		}
		return FBeta(beta)
	}

	return Normalizer{}, fmt.Errorf("%w: %q", ErrUnknownNormalizer, token)
}

// ParseAll parses every token, failing on the first bad one.
func ParseAll(tokens []string) ([]Normalizer, error) {
	out := make([]Normalizer, 0, len(tokens))
	for _, tok := range tokens {
		n, err := Parse(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	return out, nil
}

// Apply maps the overlaps (xy, xx, yy) = (Σ(P,R), Σ(P,P), Σ(R,R)) to a score.
func (n Normalizer) Apply(xy, xx, yy float64) float64 {
	switch n.kind {
	case KindPrecision:
		return ratio(xy, xx)
	case KindRecall:
		return ratio(xy, yy)
	case KindJaccard:
		return ratio(xy, xx+yy-xy)
	case KindFBeta:
		p, r := ratio(xy, xx), ratio(xy, yy)
		b2 := n.beta * n.beta
		return ratio((1+b2)*p*r, b2*p+r)
	default:
		return xy
	}
}

// ratio divides with the 0/0 := 0 convention (any zero denominator yields 0).
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}

	return num / den
}
