package metric_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/metric"
	"github.com/katalvlaran/structeval/normalize"
)

// event is a trigger word with a set of argument words.
type event struct {
	Trigger string
	Args    []string
}

func eventMetric(t *testing.T) metric.Metric[event] {
	t.Helper()
	args, err := metric.NewSetMatching(metric.Discrete[string](), assign.OneToOne, normalize.Dice)
	require.NoError(t, err)
	m, err := metric.Struct(
		metric.Field("trigger", func(e event) string { return e.Trigger }, metric.Discrete[string]()),
		metric.Field("args", func(e event) []string { return e.Args }, metric.Metric[[]string](args)),
	)
	require.NoError(t, err)
	return m
}

type flat struct {
	pred, ref string
	score     float64
}

func flatten(ms []metric.Match) []flat {
	out := make([]flat, len(ms))
	for i, m := range ms {
		out[i] = flat{m.PredPath.String(), m.RefPath.String(), m.Score}
	}
	return out
}

func TestExplainNested(t *testing.T) {
	events, err := metric.NewSetMatching(eventMetric(t), assign.OneToOne, normalize.None)
	require.NoError(t, err)

	pred := []event{{"fire", nil}, {"attack", []string{"a", "b"}}}
	ref := []event{{"attack", []string{"b"}}}
	ms, err := events.Explain(pred, ref)
	require.NoError(t, err)

	const dice = 2.0 / 3
	want := []flat{
		{"@", "@", dice},
		{"[1]", "[0]", dice},
		{"[1].trigger", "[0].trigger", 1},
		{"[1].args", "[0].args", dice},
		{"[1].args[1]", "[0].args[0]", 1},
	}
	got := flatten(ms)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].pred, got[i].pred)
		assert.Equal(t, want[i].ref, got[i].ref)
		assert.InDelta(t, want[i].score, got[i].score, 1e-12, want[i].pred)
	}
	assert.Equal(t, "b", ms[4].Pred)
	assert.Equal(t, "b", ms[4].Ref)
	assert.Equal(t, pred[1], ms[1].Pred)
}

func TestExplainLeafAndMiss(t *testing.T) {
	ms, err := metric.Explain(metric.Discrete[int](), 1, 1)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Empty(t, ms[0].PredPath)
	assert.Equal(t, 1.0, ms[0].Score)

	ms, err = metric.Explain(metric.Discrete[int](), 1, 2)
	require.NoError(t, err)
	assert.Empty(t, ms)
}

func TestExplainThroughErasedProduct(t *testing.T) {
	m, err := metric.Product[metric.Fields](map[string]metric.Metric[any]{
		"head": metric.Erase(metric.Discrete[string]()),
		"tail": metric.Erase(metric.Discrete[string]()),
	})
	require.NoError(t, err)

	x := metric.Fields{"head": "a", "tail": "b"}
	y := metric.Fields{"head": "a", "tail": "c"}
	ms, err := metric.Explain(m, x, y)
	require.NoError(t, err)
	// The product is 0, but the matching head is still reported.
	assert.Equal(t, []flat{{"head", "head", 1}}, flatten(ms))

	_, err = metric.Explain(m, metric.Fields{"head": "a"}, y)
	assert.ErrorIs(t, err, metric.ErrMissingField)
}

func TestExplainNormalizedKeepsNested(t *testing.T) {
	set, err := metric.NewSetMatching(metric.Discrete[string](), assign.OneToOne, normalize.None)
	require.NoError(t, err)
	norm, err := metric.Normalize[[]string](set, normalize.Jaccard)
	require.NoError(t, err)

	ms, err := metric.Explain(norm, []string{"a", "b"}, []string{"a"})
	require.NoError(t, err)
	got := flatten(ms)
	require.Len(t, got, 2)
	assert.InDelta(t, 0.5, got[0].score, 1e-12)
	assert.Equal(t, "[0]", got[1].pred)
}
