// Package assign solves the weighted alignment problems behind set matching.
//
// Given a predicted collection P (m elements), a reference collection R
// (n elements) and their m×n Gram matrix W (W[i][j] = φ(P[i], R[j]) ≥ 0),
// Solve returns the largest total similarity achievable under one of four
// alignment-cardinality constraints, plus a witnessing set of pairs:
//
//   - OneToOne       partial bijection; maximum-weight bipartite matching
//     (Hungarian algorithm with dual potentials). O(k²·K), k=min(m,n), K=max(m,n).
//   - OneToMany      predicted → reference partial function: every predicted
//     element independently takes its best reference element. O(m·n).
//   - ManyToOne      reference → predicted partial function, symmetric. O(m·n).
//   - Unconstrained  every pair counts; Σ is the sum of W. O(m·n).
//
// Unmatched elements contribute 0, and an empty side yields Σ = 0 for every
// constraint. Because weights are non-negative, the rectangular assignment
// computed for OneToOne is also an optimal partial matching: a zero-weight
// pair can always be dropped without changing the total, and the witness
// omits such pairs.
//
// Among equal-weight optimal matchings the returned pairs are deterministic
// for a given W but otherwise unspecified; only the total is guaranteed.
package assign
