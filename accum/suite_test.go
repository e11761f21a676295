package accum_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/structeval"
	"github.com/katalvlaran/structeval/accum"
	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/config"
	"github.com/katalvlaran/structeval/latent"
	"github.com/katalvlaran/structeval/metric"
	"github.com/katalvlaran/structeval/normalize"
)

// SuiteSuite exercises a two-family suite over words.
type SuiteSuite struct {
	suite.Suite
	s *accum.Suite[string]
}

func (ss *SuiteSuite) SetupTest() {
	t := ss.T()
	ss.s = accum.NewSuite[string](accum.WithWorkers(3))
	require.NoError(t, ss.s.Add("strict", newAcc(t)))

	loose, err := accum.New[string](setOf(t, assign.OneToMany), []normalize.Normalizer{normalize.Precision, normalize.Dice, normalize.Jaccard})
	require.NoError(t, err)
	require.NoError(t, ss.s.Add("loose", loose))
}

func (ss *SuiteSuite) TestComputeAverage() {
	require.NoError(ss.T(), ss.s.UpdateSingle([]string{"a", "a"}, []string{"a", "b"}))
	got := ss.s.Compute()

	// strict (1:1): XY=1 XX=2 YY=2 → P=R=F1=0.5
	ss.InDelta(0.5, got["strict"]["precision"], 1e-12)
	ss.InDelta(0.5, got["strict"]["f1"], 1e-12)
	// loose (1:*): XY=2 XX=2 YY=2 → P=1, F1=1, J=1
	ss.InDelta(1.0, got["loose"]["precision"], 1e-12)
	ss.InDelta(1.0, got["loose"]["jaccard"], 1e-12)

	avg := got[accum.AggregateKey]
	ss.Len(avg, 2, "only keys shared by every family are averaged")
	ss.InDelta(0.75, avg["precision"], 1e-12)
	ss.InDelta(0.75, avg["f1"], 1e-12)
}

func (ss *SuiteSuite) TestComputeWithoutUpdates() {
	got := ss.s.Compute()
	ss.Equal(accum.Scores{"precision": 0, "f1": 0}, got[accum.AggregateKey])
	ss.Equal([]string{"strict", "loose"}, ss.s.Names())
}

func (ss *SuiteSuite) TestExtra() {
	require.NoError(ss.T(), ss.s.WithExtra("conll", func(fam map[string]accum.Scores) accum.Scores {
		return accum.Scores{"f1": (fam["strict"]["f1"] + fam["loose"]["f1"]) / 2}
	}))
	require.NoError(ss.T(), ss.s.UpdateSingle([]string{"a", "a"}, []string{"a", "b"}))
	ss.InDelta(0.75, ss.s.Compute()["conll"]["f1"], 1e-12)

	ss.ErrorIs(ss.s.WithExtra("strict", func(map[string]accum.Scores) accum.Scores { return nil }), accum.ErrFamily)
	ss.ErrorIs(ss.s.Add("conll", newAcc(ss.T())), accum.ErrFamily)
}

func (ss *SuiteSuite) TestAddErrors() {
	ss.ErrorIs(ss.s.Add("", newAcc(ss.T())), structeval.ErrConfig)
	ss.ErrorIs(ss.s.Add(accum.AggregateKey, newAcc(ss.T())), accum.ErrFamily)
	ss.ErrorIs(ss.s.Add("strict", newAcc(ss.T())), accum.ErrFamily)
	ss.ErrorIs(ss.s.Add("nil", nil), accum.ErrFamily)
}

func (ss *SuiteSuite) TestBatchAllOrNothing() {
	err := ss.s.UpdateBatch(context.Background(),
		[][]string{{"a"}, {"boom"}}, [][]string{{"a"}, {"b"}})
	ss.ErrorIs(err, errBoom)
	for _, name := range ss.s.Names() {
		acc, ok := ss.s.Family(name)
		ss.True(ok)
		ss.Zero(acc.Len(), name)
	}

	ss.NoError(ss.s.UpdateBatch(context.Background(), [][]string{{"a"}, {"b"}}, [][]string{{"a"}, {"c"}}))
	strict, _ := ss.s.Family("strict")
	ss.Equal(2, strict.Len())
	ss.InDelta(0.5, ss.s.Compute()["strict"]["f1"], 1e-12)

	ss.s.Reset()
	ss.Zero(strict.Len())
}

func TestSuiteSuite(t *testing.T) {
	suite.Run(t, new(SuiteSuite))
}

const suiteYAML = `
reduction: micro
workers: 2
families:
  - name: set
    metric: word
    constraint: "<->"
    normalizers: [precision, recall, f1]
  - name: seq
    metric: word
    constraint: "<->"
    normalizers: [f1]
    sequence: {window: 0}
`

func TestFromConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(suiteYAML))
	require.NoError(t, err)
	reg := metric.NewRegistry[string]()
	require.NoError(t, reg.Register("word", word))

	s, err := accum.FromConfig(cfg, reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"set", "seq"}, s.Names())

	// Order matters only to the sequence family.
	require.NoError(t, s.UpdateBatch(context.Background(),
		[][]string{{"a", "b"}}, [][]string{{"b", "a"}}))
	got := s.Compute()
	assert.InDelta(t, 1.0, got["set"]["f1"], 1e-12)
	assert.InDelta(t, 0.5, got["seq"]["f1"], 1e-12)
	assert.InDelta(t, 0.75, got[accum.AggregateKey]["f1"], 1e-12)
}

func TestFromConfigErrors(t *testing.T) {
	reg := metric.NewRegistry[string]()
	require.NoError(t, reg.Register("word", word))

	cfg, err := config.Parse([]byte("families: [{name: e, metric: missing}]"))
	require.NoError(t, err)
	_, err = accum.FromConfig(cfg, reg)
	assert.ErrorIs(t, err, metric.ErrUnknownMetric)

	cfg, err = config.Parse([]byte("families: [{name: e, metric: word, latent: {}}]"))
	require.NoError(t, err)
	_, err = accum.FromConfig(cfg, reg)
	assert.ErrorIs(t, err, accum.ErrNoLatentFactory)

	_, err = accum.FromConfig[string](nil, reg)
	assert.ErrorIs(t, err, structeval.ErrConfig)
}

func TestFromConfigLatent(t *testing.T) {
	cfg, err := config.Parse([]byte(`
families:
  - name: vars
    metric: atom
    normalizers: [f1]
    latent: {restarts: 2, seed: 3}
`))
	require.NoError(t, err)
	reg := metric.NewRegistry[latent.Atom]()
	require.NoError(t, reg.Register("atom", metric.Discrete[latent.Atom]()))

	var hits int
	s, err := accum.FromConfig(cfg, reg,
		accum.WithLatentFactory[latent.Atom](latent.Factory[latent.Atom]()),
		accum.WithMatchHook[latent.Atom](func(int, assign.Pair) { hits++ }),
	)
	require.NoError(t, err)

	x := []latent.Atom{latent.Atom(latent.Var("a")), latent.Atom(latent.Var("b"))}
	y := []latent.Atom{latent.Atom(latent.Var("p")), latent.Atom(latent.Var("q"))}
	require.NoError(t, s.UpdateSingle(x, y))
	assert.InDelta(t, 1.0, s.Compute()["vars"]["f1"], 1e-12)
	assert.Equal(t, 2, hits)
}
