package metric_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/structeval"
	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/metric"
	"github.com/katalvlaran/structeval/normalize"
)

// SetMatchingSuite groups set-matching tests sharing a mention metric.
type SetMatchingSuite struct {
	suite.Suite
	elem metric.Metric[mention]
}

func (s *SetMatchingSuite) SetupTest() {
	s.elem = mentionMetric(s.T())
}

func (s *SetMatchingSuite) build(c assign.Constraint, n normalize.Normalizer) *metric.SetMatching[mention] {
	m, err := metric.NewSetMatching(s.elem, c, n)
	require.NoError(s.T(), err)
	return m
}

// Two of three reference mentions predicted, nothing spurious.
func (s *SetMatchingSuite) TestPartialRecall() {
	t1, t2, t3 := mention{0, 1}, mention{2, 3}, mention{4, 5}
	pred, ref := []mention{t1, t2}, []mention{t1, t2, t3}

	o, err := s.build(assign.OneToOne, normalize.None).Overlaps(pred, ref)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2.0, o.XY)
	require.Equal(s.T(), 2.0, o.XX)
	require.Equal(s.T(), 3.0, o.YY)
	require.Len(s.T(), o.Pairs, 2)

	for _, tc := range []struct {
		n    normalize.Normalizer
		want float64
	}{
		{normalize.Precision, 1.0},
		{normalize.Recall, 2.0 / 3},
		{normalize.Dice, 0.8},
	} {
		got, err := s.build(assign.OneToOne, tc.n).Score(pred, ref)
		require.NoError(s.T(), err)
		assert.InDelta(s.T(), tc.want, got, 1e-12, tc.n.String())
	}
}

func (s *SetMatchingSuite) TestEmptySides() {
	for _, c := range []assign.Constraint{assign.OneToOne, assign.OneToMany, assign.ManyToOne, assign.Unconstrained} {
		raw := s.build(c, normalize.None)
		v, err := raw.Score(nil, []mention{{1, 2}})
		require.NoError(s.T(), err)
		assert.Zero(s.T(), v)

		f1 := s.build(c, normalize.Dice)
		v, err = f1.Score(nil, nil)
		require.NoError(s.T(), err)
		assert.Zero(s.T(), v, "0/0 is 0 by convention")
	}
}

// Σ(P,P) = |P| under 1:1 for a reflexive element metric, and score(x,x)=1 under Dice.
func (s *SetMatchingSuite) TestSelfOverlapIsCardinality() {
	rng := rand.New(rand.NewSource(5))
	m := s.build(assign.OneToOne, normalize.Dice)
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(8)
		xs := make([]mention, n)
		for i := range xs {
			xs[i] = mention{rng.Intn(4), rng.Intn(4)} // duplicates on purpose
		}
		self, err := m.SelfOverlap(xs)
		require.NoError(s.T(), err)
		require.InDelta(s.T(), float64(n), self, 1e-9)

		v, err := m.Score(xs, xs)
		require.NoError(s.T(), err)
		require.InDelta(s.T(), 1.0, v, 1e-9)
	}
}

// Self overlap under ~ sums the full cross product (|P|² terms for a
// constant-1 metric).
func (s *SetMatchingSuite) TestUnconstrainedSelfOverlap() {
	m, err := metric.NewSetMatching(metric.Constant[mention](1), assign.Unconstrained, normalize.None)
	require.NoError(s.T(), err)
	v, err := m.SelfOverlap([]mention{{0, 1}, {1, 2}, {2, 3}})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 9.0, v)
}

func (s *SetMatchingSuite) TestInvalidConstraint() {
	_, err := metric.NewSetMatching(s.elem, assign.Constraint(-1), normalize.None)
	require.ErrorIs(s.T(), err, structeval.ErrConfig)
	_, err = metric.NewSetMatching[mention](nil, assign.OneToOne, normalize.None)
	require.ErrorIs(s.T(), err, metric.ErrNilMetric)
}

func (s *SetMatchingSuite) TestNestedSetsPropagateErrors() {
	// A set of records whose element metric fails on a missing field.
	p, err := metric.Product[metric.Fields](map[string]metric.Metric[any]{
		"id": metric.Erase(metric.Discrete[int]()),
	})
	require.NoError(s.T(), err)
	m, err := metric.NewSetMatching(p, assign.OneToOne, normalize.Dice)
	require.NoError(s.T(), err)

	_, err = m.Score([]metric.Fields{{"id": 1}}, []metric.Fields{{"name": "x"}})
	require.ErrorIs(s.T(), err, structeval.ErrTypeMismatch)
}

func (s *SetMatchingSuite) TestDescribeAndWalk() {
	m := s.build(assign.OneToOne, normalize.Dice)
	assert.Equal(s.T(), strings.Join([]string{
		"set(<->, f1)",
		"  [*]: struct",
		"    left: discrete",
		"    right: discrete",
	}, "\n"), metric.Describe(m))

	var paths []string
	require.NoError(s.T(), metric.Walk(m, func(path string, n metric.Node) error {
		paths = append(paths, path)
		if n.Kind() == metric.KindProduct {
			return metric.SkipChildren
		}
		return nil
	}))
	assert.Equal(s.T(), []string{"", "[*]"}, paths)
}

func TestSetMatchingSuite(t *testing.T) {
	suite.Run(t, new(SetMatchingSuite))
}

func TestNormalizeLeaf(t *testing.T) {
	// A half-credit metric normalized by Dice is 1 on identical inputs.
	m, err := metric.Normalize(metric.Constant[string](0.5), normalize.Dice)
	require.NoError(t, err)
	v, err := m.Score("a", "b")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-12)
}
