// Package latent scores collections whose elements reference free variables.
//
// Two structures (for example the propositions of two semantic graphs) can
// only be compared after their variables are aliased: "x0 is a dog" and
// "p is a dog" agree once x0 ↦ p. Align searches jointly for a 1:1 renaming
// σ of predicted variables onto reference variables and for the element
// alignment that maximizes
//
//	Σ_{(u,v)∈M} f(σ(u), v)
//
// under an assign.Constraint. The problem is intractable in general, so the
// search is anytime:
//
//  1. σ is initialized greedily from a variable affinity table built by
//     scoring element pairs with every variable replaced by Wildcard;
//  2. a first-improvement hill climb reassigns or swaps single variables,
//     re-solving the element alignment after each candidate move and
//     accepting only strictly improving ones;
//  3. further restarts jitter the greedy order with a seeded RNG and the
//     best total over all restarts is kept.
//
// The reported total is therefore a LOWER BOUND on the joint optimum.
// Alignment.Exact is true only when the renaming space is trivial.
//
// Determinism: identical inputs and Options.Seed produce identical
// Alignments. The search never fails for lack of progress; it always returns
// at least the greedy alignment of the first restart.
package latent
