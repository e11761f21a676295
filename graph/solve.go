// Package graph - branch-and-bound search for reachability-preserving alignments.
//
// Design:
//  1. Candidates are the node pairs (u, v) with positive similarity, ordered
//     by weight descending then (u, v) ascending, so branching is
//     deterministic and strong pairs are tried first.
//  2. A pair-compatibility table encodes both the cardinality constraint
//     and the reachability condition; an admissible alignment is a clique.
//  3. A greedy pass over the ordered candidates seeds the incumbent.
//  4. DFS extends the current clique with each live candidate in turn and
//     keeps only candidates compatible with it. The bound is the current
//     value plus the smallest of: every live weight, the best live weight
//     per predicted node (1:1, 1:*), the best live weight per reference
//     node (1:1, *:1). Prune when bound ≤ incumbent + eps.
//  5. Every expansion counts against Options.MaxNodes; when the budget
//     runs out the incumbent is returned with Exact = false.
//
// Contracts:
//   - w holds finite similarities ≥ 0; rx and ry are reflexive closures of
//     matching size.
//   - The returned pairs form an admissible alignment whatever the budget.
//
// Complexity:
//   - Worst case exponential in the number of candidates P.
//   - Per branch: O(P) filtering plus an O(P) bound.
//   - Memory: O(P²) for the compatibility table.

package graph

import (
	"sort"

	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/matrix"
)

// candidate is one alignable node pair.
type candidate struct {
	u, v int
	w    float64
}

// bbEngine holds the search state of one solve. It is never shared.
type bbEngine struct {
	c      assign.Constraint
	eps    float64
	budget int

	cands  []candidate
	compat [][]bool

	chosen []int
	best   []int
	bestW  float64

	expanded int
	stopped  bool

	// Scratch for the per-side bounds.
	rowBest, colBest []float64
	touched          []int
}

func solve(w *matrix.Dense, rx, ry [][]bool, c assign.Constraint, opts Options) Solution {
	e := &bbEngine{c: c, eps: opts.Eps, budget: opts.budget()}
	e.collect(w)
	if len(e.cands) == 0 {
		return Solution{Exact: true}
	}
	e.buildCompat(rx, ry)
	e.rowBest = make([]float64, w.Rows())
	e.colBest = make([]float64, w.Cols())

	e.seed()
	alive := make([]int, len(e.cands))
	for i := range alive {
		alive[i] = i
	}
	e.dfs(alive, 0)

	return e.solution()
}

func (e *bbEngine) collect(w *matrix.Dense) {
	for u := 0; u < w.Rows(); u++ {
		for v, x := range w.Row(u) {
			if x > 0 {
				e.cands = append(e.cands, candidate{u: u, v: v, w: x})
			}
		}
	}
	sort.SliceStable(e.cands, func(i, j int) bool { return e.cands[i].w > e.cands[j].w })
}

func (e *bbEngine) buildCompat(rx, ry [][]bool) {
	n := len(e.cands)
	e.compat = make([][]bool, n)
	for a := range e.compat {
		e.compat[a] = make([]bool, n)
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			ok := e.compatible(e.cands[a], e.cands[b], rx, ry)
			e.compat[a][b], e.compat[b][a] = ok, ok
		}
	}
}

func (e *bbEngine) compatible(p, q candidate, rx, ry [][]bool) bool {
	switch e.c {
	case assign.OneToOne:
		if p.u == q.u || p.v == q.v {
			return false
		}
	case assign.OneToMany:
		if p.u == q.u {
			return false
		}
	case assign.ManyToOne:
		if p.v == q.v {
			return false
		}
	}

	return rx[p.u][q.u] == ry[p.v][q.v] && rx[q.u][p.u] == ry[q.v][p.v]
}

// seed takes candidates greedily in search order.
func (e *bbEngine) seed() {
	var total float64
	for a := range e.cands {
		ok := true
		for _, b := range e.best {
			if !e.compat[a][b] {
				ok = false
				break
			}
		}
		if ok {
			e.best = append(e.best, a)
			total += e.cands[a].w
		}
	}
	e.bestW = total
}

func (e *bbEngine) dfs(alive []int, value float64) {
	e.expanded++
	if e.expanded > e.budget {
		e.stopped = true
		return
	}
	if value > e.bestW+e.eps {
		e.best = append(e.best[:0], e.chosen...)
		e.bestW = value
	}

	for k, a := range alive {
		if e.stopped || e.bound(alive[k:], value) <= e.bestW+e.eps {
			return
		}
		next := make([]int, 0, len(alive)-k-1)
		for _, b := range alive[k+1:] {
			if e.compat[a][b] {
				next = append(next, b)
			}
		}
		e.chosen = append(e.chosen, a)
		e.dfs(next, value+e.cands[a].w)
		e.chosen = e.chosen[:len(e.chosen)-1]
	}
}

// bound is an upper bound on any clique extending the current one with
// candidates from alive.
func (e *bbEngine) bound(alive []int, value float64) float64 {
	var all float64
	for _, a := range alive {
		all += e.cands[a].w
	}
	best := all
	if e.c == assign.OneToOne || e.c == assign.OneToMany {
		best = min(best, e.sideBound(alive, e.rowBest, func(c candidate) int { return c.u }))
	}
	if e.c == assign.OneToOne || e.c == assign.ManyToOne {
		best = min(best, e.sideBound(alive, e.colBest, func(c candidate) int { return c.v }))
	}

	return value + best
}

// sideBound sums, per node of one side, the best live weight touching it.
func (e *bbEngine) sideBound(alive []int, scratch []float64, side func(candidate) int) float64 {
	e.touched = e.touched[:0]
	for _, a := range alive {
		c := e.cands[a]
		i := side(c)
		if scratch[i] == 0 {
			e.touched = append(e.touched, i)
		}
		scratch[i] = max(scratch[i], c.w)
	}
	var sum float64
	for _, i := range e.touched {
		sum += scratch[i]
		scratch[i] = 0
	}

	return sum
}

func (e *bbEngine) solution() Solution {
	sol := Solution{Exact: !e.stopped, Expanded: e.expanded}
	for _, a := range e.best {
		c := e.cands[a]
		sol.Total += c.w
		sol.Pairs = append(sol.Pairs, assign.Pair{Pred: c.u, Ref: c.v, Score: c.w})
	}
	sort.Slice(sol.Pairs, func(i, j int) bool {
		if sol.Pairs[i].Pred != sol.Pairs[j].Pred {
			return sol.Pairs[i].Pred < sol.Pairs[j].Pred
		}
		return sol.Pairs[i].Ref < sol.Pairs[j].Ref
	})

	return sol
}
