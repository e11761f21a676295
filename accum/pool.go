// Package accum - bounded parallel scoring of a batch.
//
// Design:
//  1. A batch of n independent pairs is scored by one ants pool sized
//     min(workers, n); workers <= 1 or a single pair runs inline.
//  2. Task arguments are recycled through a sync.Pool to keep the per-pair
//     submission allocation free.
//  3. Every index writes only its own slot of the error slice, so no lock
//     is taken while scoring.
//  4. Once ctx is done the remaining indices report ctx.Err() instead of
//     running.
//
// Contracts:
//   - fn must only touch state owned by its index.
//   - The returned error lists failures in index order, each prefixed with
//     its pair number; nil when every pair succeeded.
//
// Complexity:
//   - O(n) submissions plus the cost of fn; one pool per batch.

package accum

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"
)

type taskParam struct {
	idx  int
	ctx  context.Context
	fn   func(ctx context.Context, idx int) error
	errs []error
	wg   *sync.WaitGroup
}

func (p *taskParam) reset() {
	p.idx = 0
	p.ctx = nil
	p.fn = nil
	p.errs = nil
	p.wg = nil
}

var taskParamPool = &sync.Pool{
	New: func() any { return new(taskParam) },
}

// runBatch calls fn for every index in [0, n) on up to workers goroutines
// and returns the per-index failures combined in index order. fn must only
// write to state owned by its index.
func runBatch(ctx context.Context, workers, n int, fn func(ctx context.Context, idx int) error) error {
	errs := make([]error, n)
	if workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			errs[i] = guarded(ctx, i, fn)
		}
		return combine(errs)
	}

	pool, err := ants.NewPoolWithFunc(min(workers, n), func(args any) {
		param, ok := args.(*taskParam)
		if !ok {
			panic("accum batch pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			taskParamPool.Put(param)
		}()
		param.errs[param.idx] = guarded(param.ctx, param.idx, param.fn)
	})
	if err != nil {
		return fmt.Errorf("accum: create batch pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		param := taskParamPool.Get().(*taskParam)
		param.idx = i
		param.ctx = ctx
		param.fn = fn
		param.errs = errs
		param.wg = &wg
		if err := pool.Invoke(param); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit: %w", err)
			param.reset()
			taskParamPool.Put(param)
		}
	}
	wg.Wait()

	return combine(errs)
}

// guarded skips fn once ctx is done.
func guarded(ctx context.Context, idx int, fn func(ctx context.Context, idx int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(ctx, idx)
}

func combine(errs []error) error {
	var result *multierror.Error
	for i, err := range errs {
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("pair %d: %w", i, err))
		}
	}

	return result.ErrorOrNil()
}
