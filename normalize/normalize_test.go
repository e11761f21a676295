package normalize_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/structeval"
	"github.com/katalvlaran/structeval/normalize"
)

func TestParse(t *testing.T) {
	cases := []struct {
		tok  string
		name string
	}{
		{"none", ""},
		{"p", "precision"},
		{"Precision", "precision"},
		{"r", "recall"},
		{"jaccard", "jaccard"},
		{"dice", "f1"},
		{"f", "f1"},
		{"f1", "f1"},
		{"f0.5", "f0.5"},
		{"f2", "f2"},
	}
	for _, c := range cases {
		n, err := normalize.Parse(c.tok)
		require.NoError(t, err, c.tok)
		assert.Equal(t, c.name, n.Name(), c.tok)
	}

	for _, bad := range []string{"macro", "fx", "f0", "f-1", "fnan"} {
		_, err := normalize.Parse(bad)
		require.Error(t, err, bad)
		require.ErrorIs(t, err, structeval.ErrConfig, bad)
	}
}

func TestFBetaRejectsNonPositive(t *testing.T) {
	for _, b := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := normalize.FBeta(b)
		require.ErrorIs(t, err, normalize.ErrNonPositiveBeta)
	}
	n, err := normalize.FBeta(2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, n.Beta())
}

// Σ(P,R)=2, Σ(P,P)=2, Σ(R,R)=3.
func TestApply_PartialRecall(t *testing.T) {
	assert.InDelta(t, 1.0, normalize.Precision.Apply(2, 2, 3), 1e-12)
	assert.InDelta(t, 2.0/3, normalize.Recall.Apply(2, 2, 3), 1e-12)
	assert.InDelta(t, 0.8, normalize.Dice.Apply(2, 2, 3), 1e-12)
	assert.InDelta(t, 2.0/3, normalize.Jaccard.Apply(2, 2, 3), 1e-12)
	assert.Equal(t, 2.0, normalize.None.Apply(2, 2, 3))
}

func TestZeroDenominators(t *testing.T) {
	for _, n := range []normalize.Normalizer{normalize.Precision, normalize.Recall, normalize.Jaccard, normalize.Dice} {
		assert.Zero(t, n.Apply(0, 0, 0), n.String())
	}
	assert.Zero(t, normalize.Precision.Apply(0, 0, 4))
	assert.Zero(t, normalize.Dice.Apply(0, 3, 4))
}

func TestDiceIsHarmonicMean(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	f2, err := normalize.FBeta(2)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		xx := float64(rng.Intn(10))
		yy := float64(rng.Intn(10))
		xy := math.Min(xx, yy) * rng.Float64()
		p := normalize.Precision.Apply(xy, xx, yy)
		r := normalize.Recall.Apply(xy, xx, yy)
		require.GreaterOrEqual(t, p, 0.0)
		require.LessOrEqual(t, p, 1.0)
		require.GreaterOrEqual(t, r, 0.0)
		require.LessOrEqual(t, r, 1.0)

		want := 0.0
		if p+r != 0 {
			want = 2 * p * r / (p + r)
		}
		require.InDelta(t, want, normalize.Dice.Apply(xy, xx, yy), 1e-12)

		want2 := 0.0
		if 4*p+r != 0 {
			want2 = 5 * p * r / (4*p + r)
		}
		require.InDelta(t, want2, f2.Apply(xy, xx, yy), 1e-12)
	}
}
