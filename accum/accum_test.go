package accum_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/structeval"
	"github.com/katalvlaran/structeval/accum"
	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/metric"
	"github.com/katalvlaran/structeval/normalize"
)

var prf = []normalize.Normalizer{normalize.Precision, normalize.Recall, normalize.Dice}

var errBoom = errors.New("boom")

// word scores 1 for equal words and fails on "boom".
var word = metric.FuncErr(func(x, y string) (float64, error) {
	if x == "boom" || y == "boom" {
		return 0, errBoom
	}
	if x == y {
		return 1, nil
	}
	return 0, nil
})

func setOf(t *testing.T, c assign.Constraint) *metric.SetMatching[string] {
	t.Helper()
	sm, err := metric.NewSetMatching(word, c, normalize.None)
	require.NoError(t, err)
	return sm
}

func newAcc(t *testing.T, opts ...accum.Option) *accum.Accumulator[string] {
	t.Helper()
	acc, err := accum.New[string](setOf(t, assign.OneToOne), prf, opts...)
	require.NoError(t, err)
	return acc
}

func TestComputeWithoutUpdates(t *testing.T) {
	for _, r := range []accum.Reduction{accum.Micro, accum.Macro} {
		acc := newAcc(t, accum.WithReduction(r))
		assert.Equal(t, accum.Scores{"precision": 0, "recall": 0, "f1": 0}, acc.Compute(), r.String())
		assert.Zero(t, acc.Len())
	}
}

func TestMicroAverage(t *testing.T) {
	acc := newAcc(t)
	require.NoError(t, acc.UpdateSingle([]string{"a", "b"}, []string{"a", "b", "c"}))
	require.NoError(t, acc.UpdateSingle([]string{"x"}, nil))

	tot := acc.Totals()
	assert.Equal(t, 2.0, tot.XY)
	assert.Equal(t, 3.0, tot.XX)
	assert.Equal(t, 3.0, tot.YY)

	got := acc.Compute()
	assert.InDelta(t, 2.0/3, got["precision"], 1e-12)
	assert.InDelta(t, 2.0/3, got["recall"], 1e-12)
	assert.InDelta(t, 2.0/3, got["f1"], 1e-12)
	assert.Equal(t, 2, acc.Len())

	// Compute is a pure read.
	assert.Equal(t, got, acc.Compute())
}

func TestMacroAverage(t *testing.T) {
	micro, macro := newAcc(t), newAcc(t, accum.WithReduction(accum.Macro))
	for _, acc := range []*accum.Accumulator[string]{micro, macro} {
		require.NoError(t, acc.UpdateSingle([]string{"a"}, []string{"a"}))
		require.NoError(t, acc.UpdateSingle([]string{"b", "c", "d"}, []string{"e"}))
	}
	assert.InDelta(t, 0.5, macro.Compute()["f1"], 1e-12)
	assert.InDelta(t, 1.0/3, micro.Compute()["f1"], 1e-12)
}

func TestOverlapKey(t *testing.T) {
	acc, err := accum.New[string](setOf(t, assign.Unconstrained), []normalize.Normalizer{normalize.None})
	require.NoError(t, err)
	require.NoError(t, acc.UpdateSingle([]string{"a", "a"}, []string{"a"}))
	assert.Equal(t, accum.Scores{accum.OverlapKey: 2}, acc.Compute())
}

func randomPairs(rng *rand.Rand, n int) (preds, refs [][]string) {
	vocab := []string{"a", "b", "c", "d", "e"}
	draw := func() []string {
		out := make([]string, rng.Intn(5))
		for i := range out {
			out[i] = vocab[rng.Intn(len(vocab))]
		}
		return out
	}
	for i := 0; i < n; i++ {
		preds = append(preds, draw())
		refs = append(refs, draw())
	}
	return preds, refs
}

// TestOrderInvariance checks that totals do not depend on update order or
// on the batch pool width.
func TestOrderInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	preds, refs := randomPairs(rng, 60)

	inOrder := newAcc(t)
	for i := range preds {
		require.NoError(t, inOrder.UpdateSingle(preds[i], refs[i]))
	}

	shuffled := newAcc(t)
	for _, i := range rng.Perm(len(preds)) {
		require.NoError(t, shuffled.UpdateSingle(preds[i], refs[i]))
	}

	parallel := newAcc(t, accum.WithWorkers(8))
	require.NoError(t, parallel.UpdateBatch(context.Background(), preds, refs))

	want := inOrder.Totals()
	for _, acc := range []*accum.Accumulator[string]{shuffled, parallel} {
		got := acc.Totals()
		assert.InDelta(t, want.XY, got.XY, 1e-9)
		assert.InDelta(t, want.XX, got.XX, 1e-9)
		assert.InDelta(t, want.YY, got.YY, 1e-9)
		assert.Equal(t, len(preds), acc.Len())
	}
}

func TestUpdateBatchAllOrNothing(t *testing.T) {
	acc := newAcc(t, accum.WithWorkers(4))
	preds := [][]string{{"a"}, {"boom"}, {"b"}, {"boom"}}
	refs := [][]string{{"a"}, {"x"}, {"b"}, {"y"}}

	err := acc.UpdateBatch(context.Background(), preds, refs)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.Zero(t, acc.Len())
	assert.Equal(t, 0.0, acc.Totals().XY)
}

func TestUpdateBatchCanceled(t *testing.T) {
	acc := newAcc(t, accum.WithWorkers(2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := acc.UpdateBatch(ctx, [][]string{{"a"}, {"b"}}, [][]string{{"a"}, {"b"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, acc.Len())
}

func TestUpdateBatchLength(t *testing.T) {
	err := newAcc(t).UpdateBatch(context.Background(), [][]string{{"a"}}, nil)
	assert.ErrorIs(t, err, accum.ErrBatchLength)
	assert.ErrorIs(t, err, structeval.ErrTypeMismatch)
}

func TestUpdateSingleErrorLeavesTotals(t *testing.T) {
	acc := newAcc(t)
	require.Error(t, acc.UpdateSingle([]string{"boom"}, []string{"a"}))
	assert.Zero(t, acc.Len())
}

func TestConcurrentUpdateSingle(t *testing.T) {
	acc := newAcc(t)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				_ = acc.UpdateSingle([]string{"a"}, []string{"a", "b"})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 200, acc.Len())
	assert.Equal(t, 200.0, acc.Totals().XY)
	assert.InDelta(t, 0.5, acc.Compute()["recall"], 1e-12)
}

func TestMergeAndReset(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	preds, refs := randomPairs(rng, 20)

	whole, left, right := newAcc(t), newAcc(t), newAcc(t)
	require.NoError(t, whole.UpdateBatch(context.Background(), preds, refs))
	require.NoError(t, left.UpdateBatch(context.Background(), preds[:7], refs[:7]))
	require.NoError(t, right.UpdateBatch(context.Background(), preds[7:], refs[7:]))

	require.NoError(t, left.Merge(right))
	assert.Equal(t, whole.Len(), left.Len())
	assert.InDelta(t, whole.Totals().XY, left.Totals().XY, 1e-9)
	assert.Equal(t, 13, right.Len(), "merge does not modify its argument")

	assert.ErrorIs(t, left.Merge(left), accum.ErrIncompatible)
	assert.ErrorIs(t, left.Merge(newAcc(t, accum.WithReduction(accum.Macro))), structeval.ErrConfig)

	left.Reset()
	assert.Zero(t, left.Len())
	assert.Equal(t, accum.Scores{"precision": 0, "recall": 0, "f1": 0}, left.Compute())
}

func TestMatchHook(t *testing.T) {
	type seen struct {
		id   int
		pair assign.Pair
	}
	var got []seen
	acc := newAcc(t, accum.WithOnMatch(func(id int, p assign.Pair) { got = append(got, seen{id, p}) }))

	require.NoError(t, acc.UpdateSingle([]string{"a", "b"}, []string{"b"}))
	require.NoError(t, acc.UpdateBatch(context.Background(), [][]string{{"c"}}, [][]string{{"c"}}))

	assert.Equal(t, []seen{
		{0, assign.Pair{Pred: 1, Ref: 0, Score: 1}},
		{1, assign.Pair{Pred: 0, Ref: 0, Score: 1}},
	}, got)
}

func TestNewErrors(t *testing.T) {
	_, err := accum.New[string](nil, prf)
	assert.ErrorIs(t, err, structeval.ErrConfig)
	_, err = accum.New[string](setOf(t, assign.OneToOne), nil)
	assert.ErrorIs(t, err, accum.ErrNoNormalizers)
	_, err = accum.New[string](setOf(t, assign.OneToOne), prf, accum.WithReduction(accum.Reduction(7)))
	assert.ErrorIs(t, err, structeval.ErrConfig)
}

func TestParseReduction(t *testing.T) {
	r, err := accum.ParseReduction(" Macro ")
	require.NoError(t, err)
	assert.Equal(t, accum.Macro, r)
	r, err = accum.ParseReduction("")
	require.NoError(t, err)
	assert.Equal(t, accum.Micro, r)
	_, err = accum.ParseReduction("median")
	assert.ErrorIs(t, err, accum.ErrUnknownReduction)
}
