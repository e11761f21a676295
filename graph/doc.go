// Package graph matches the nodes of two directed graphs (trees, DAGs or
// general graphs) so that reachability is preserved.
//
// A node alignment is admissible when, for every two aligned pairs
// (u0, v0) and (u1, v1), u1 is reachable from u0 in the prediction exactly
// when v1 is reachable from v0 in the reference. Reachability is reflexive,
// so a node is always reachable from itself. On top of that the usual
// cardinality constraint (1:1, 1:*, *:1, *:*) applies.
//
// The best admissible alignment is a maximum-weight clique in the
// compatibility graph of candidate pairs, found by depth-first
// branch-and-bound. Small inputs are solved exactly; a node budget turns
// larger ones into an anytime search whose result is a lower bound (see
// Solution.Exact).
package graph
