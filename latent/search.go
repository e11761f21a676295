// Package latent - anytime search for a variable renaming.
//
// Design:
//  1. Variables of both sides are collected once in first-seen order and
//     indexed; σ is a slice from predicted index to reference index, with
//     unassigned for free variables.
//  2. Affinities score every element pair with its variables wildcarded and
//     credit the score to each position-aligned variable pair.
//  3. Restart 0 is the plain greedy σ over affinities; later restarts
//     jitter the affinities with a seeded RNG before the greedy pass.
//  4. The hill climb re-solves the element alignment for every single
//     reassignment or swap and accepts the first strict improvement.
//  5. The best total over all restarts wins; ties keep the earlier restart.
//
// Contracts:
//   - inner is non-nil, c is valid and opts validated before the search.
//   - Identical inputs and Seed give identical Alignments.
//   - At least restart 0 always runs to completion.
//
// Complexity:
//   - Affinity: O(|x|·|y|) inner calls.
//   - Per climb pass: O(Vx·Vy) candidate moves, each one constrained solve.
//   - Memory: O(|x|·|y|) for the Gram matrix plus O(Vx·Vy) affinities.

package latent

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/log"
	"github.com/katalvlaran/structeval/metric"
)

// unassigned marks a predicted variable with no reference counterpart in σ.
const unassigned = -1

// Align searches for the renaming of x's variables onto y's variables that
// maximizes the constrained overlap Σ(σ(x), y) under inner.
//
// The result is a lower bound on the joint optimum (see package doc).
// Errors come only from opts validation, an invalid constraint, or inner.
func Align[T Bindable[T]](x, y []T, inner metric.Metric[T], c assign.Constraint, opts Options) (Alignment, error) {
	if inner == nil {
		return Alignment{}, metric.ErrNilMetric
	}
	if !c.Valid() {
		return Alignment{}, fmt.Errorf("%w: %d", assign.ErrUnknownConstraint, int(c))
	}
	if err := opts.Validate(); err != nil {
		return Alignment{}, err
	}
	if len(x) == 0 || len(y) == 0 {
		return Alignment{Renaming: map[Variable]Variable{}, Exact: true}, nil
	}

	s := &searcher[T]{x: x, y: y, inner: inner, c: c, opts: opts}
	s.vx, s.xIndex = distinctVariables(x)
	s.vy, _ = distinctVariables(y)

	// Without variables on one side every σ renames x identically.
	if len(s.vx) == 0 || len(s.vy) == 0 {
		sigma := s.emptySigma()
		res, err := s.evaluate(sigma)
		if err != nil {
			return Alignment{}, err
		}

		return s.alignment(sigma, res, 0, 0, true), nil
	}

	aff, err := s.affinity()
	if err != nil {
		return Alignment{}, err
	}

	var (
		bestSigma []int
		bestRes   assign.Result
		moves     int
		runs      = opts.restarts()
	)
	for r := 0; r < runs; r++ {
		sigma := s.greedy(aff, r)
		res, err := s.evaluate(sigma)
		if err != nil {
			return Alignment{}, err
		}
		n, res, err := s.climb(sigma, res)
		if err != nil {
			return Alignment{}, err
		}
		moves += n
		if log.Enabled(log.LevelDebug) {
			log.Debugf("latent: restart %d total %.6f moves %d", r, res.Total, n)
		}

		if bestSigma == nil || res.Total > bestRes.Total+opts.Eps {
			bestSigma, bestRes = sigma, res
		}
	}

	return s.alignment(bestSigma, bestRes, runs, moves, false), nil
}

// searcher holds the per-call state of Align. It is never shared.
type searcher[T Bindable[T]] struct {
	x, y  []T
	inner metric.Metric[T]
	c     assign.Constraint
	opts  Options

	vx, vy []Variable
	xIndex map[Variable]int

	evals int // candidate evaluations in the current restart
}

// distinctVariables lists the variables of xs in order of first appearance.
func distinctVariables[T Bindable[T]](xs []T) ([]Variable, map[Variable]int) {
	var (
		vars  []Variable
		index = make(map[Variable]int)
	)
	for _, e := range xs {
		for _, v := range e.Variables() {
			if _, ok := index[v]; !ok {
				index[v] = len(vars)
				vars = append(vars, v)
			}
		}
	}

	return vars, index
}

func (s *searcher[T]) emptySigma() []int {
	sigma := make([]int, len(s.vx))
	for i := range sigma {
		sigma[i] = unassigned
	}

	return sigma
}

// renamer turns σ into a renaming function over x's variables.
func (s *searcher[T]) renamer(sigma []int) func(Variable) Variable {
	return func(v Variable) Variable {
		i, ok := s.xIndex[v]
		if !ok || sigma[i] == unassigned {
			return free(v)
		}

		return s.vy[sigma[i]]
	}
}

// evaluate solves the element alignment of σ(x) against y.
func (s *searcher[T]) evaluate(sigma []int) (assign.Result, error) {
	f := s.renamer(sigma)
	renamed := make([]T, len(s.x))
	for i, e := range s.x {
		renamed[i] = e.Rename(f)
	}
	w, err := metric.GramMatrix(s.inner, renamed, s.y)
	if err != nil {
		return assign.Result{}, err
	}

	return assign.Solve(w, s.c)
}

// affinity scores every element pair with variables ignored and credits the
// score to each position-aligned variable pair of the two elements.
func (s *searcher[T]) affinity() ([][]float64, error) {
	wild := func(Variable) Variable { return Wildcard }
	yIndex := make(map[Variable]int, len(s.vy))
	for j, v := range s.vy {
		yIndex[v] = j
	}
	ys := make([]T, len(s.y))
	for j, e := range s.y {
		ys[j] = e.Rename(wild)
	}

	aff := make([][]float64, len(s.vx))
	for i := range aff {
		aff[i] = make([]float64, len(s.vy))
	}
	for _, xe := range s.x {
		xw := xe.Rename(wild)
		xv := xe.Variables()
		if len(xv) == 0 {
			continue
		}
		for j, ye := range s.y {
			yv := ye.Variables()
			if len(yv) == 0 {
				continue
			}
			score, err := s.inner.Score(xw, ys[j])
			if err != nil {
				return nil, err
			}
			if score == 0 {
				continue
			}
			for k := 0; k < len(xv) && k < len(yv); k++ {
				aff[s.xIndex[xv[k]]][yIndex[yv[k]]] += score
			}
		}
	}

	return aff, nil
}

type candidate struct {
	a, b int
	key  float64
}

// greedy builds the initial σ of restart r: variable pairs are taken in
// decreasing affinity order while both ends are still free. Restarts after
// the first jitter the affinities.
func (s *searcher[T]) greedy(aff [][]float64, r int) []int {
	var cands []candidate
	if r == 0 {
		for a, row := range aff {
			for b, w := range row {
				if w > 0 {
					cands = append(cands, candidate{a: a, b: b, key: w})
				}
			}
		}
	} else {
		rng := restartRNG(s.opts.Seed, r)
		for a, row := range aff {
			for b, w := range row {
				if w > 0 {
					cands = append(cands, candidate{a: a, b: b, key: jitter(rng, w, s.opts.Perturb)})
				}
			}
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].key > cands[j].key })

	sigma := s.emptySigma()
	used := make([]bool, len(s.vy))
	for _, cd := range cands {
		if sigma[cd.a] != unassigned || used[cd.b] {
			continue
		}
		sigma[cd.a] = cd.b
		used[cd.b] = true
	}

	return sigma
}

// climb runs first-improvement local search on σ in place. A move sends one
// predicted variable to another reference variable (swapping with its
// current owner, if any) or to unassigned. It returns the accepted move
// count and the final result.
func (s *searcher[T]) climb(sigma []int, cur assign.Result) (int, assign.Result, error) {
	s.evals = 0
	if s.opts.MaxIters == 0 {
		return 0, cur, nil
	}

	owner := make([]int, len(s.vy))
	for j := range owner {
		owner[j] = unassigned
	}
	for a, b := range sigma {
		if b != unassigned {
			owner[b] = a
		}
	}

	moves := 0
	for improved := true; improved; {
		improved = false
		for a := range sigma {
			for b := unassigned; b < len(s.vy); b++ {
				if b == sigma[a] {
					continue
				}
				res, ok, err := s.try(sigma, owner, a, b, cur)
				if errors.Is(err, errBudget) {
					return moves, cur, nil
				}
				if err != nil {
					return moves, cur, err
				}
				if ok {
					cur = res
					moves++
					improved = true
				}
			}
		}
	}

	return moves, cur, nil
}

// try applies the move a ↦ b, keeps it if it strictly improves on cur and
// reverts it otherwise.
func (s *searcher[T]) try(sigma, owner []int, a, b int, cur assign.Result) (assign.Result, bool, error) {
	if s.evals >= s.opts.MaxIters {
		return cur, false, errBudget
	}
	s.evals++

	old := sigma[a]
	other := unassigned
	if b != unassigned {
		other = owner[b]
	}
	apply := func(to, from int) {
		sigma[a] = to
		if other != unassigned {
			sigma[other] = from
		}
		if from != unassigned {
			owner[from] = other
		}
		if to != unassigned {
			owner[to] = a
		}
	}
	apply(b, old)

	res, err := s.evaluate(sigma)
	if err != nil || res.Total <= cur.Total+s.opts.Eps {
		apply(old, b)
		return cur, false, err
	}

	return res, true, nil
}

// alignment packages σ and its result.
func (s *searcher[T]) alignment(sigma []int, res assign.Result, runs, moves int, exact bool) Alignment {
	ren := make(map[Variable]Variable, len(sigma))
	for a, b := range sigma {
		if b != unassigned {
			ren[s.vx[a]] = s.vy[b]
		}
	}

	return Alignment{
		Total:    res.Total,
		Pairs:    res.Pairs,
		Renaming: ren,
		Restarts: runs,
		Moves:    moves,
		Exact:    exact,
	}
}
