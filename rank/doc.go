// Package rank scores ranked retrieval output against a reference set.
//
// A ranking is an ordered list of weighted items, best first. For every
// cutoff k in [1, MaxK] the ranking metric reports the overlap reached by
// the top-k predictions, giving three curves per query:
//
//	XY[k] best 1:1 overlap of the top-k predictions with the reference
//	XX[k] self overlap of the top-k predictions
//	YY[k] self overlap of the whole reference (constant in k)
//
// Precision@k, recall@k and average precision are ratios of these curves.
// With a discrete element metric and unit weights they reduce to the
// textbook IR definitions.
//
// Weights scale contributions, not order: a pair (u, v) contributes
// inner(u, v)·w(u)·w(v). Lists are truncated at MaxK before any matching and
// curves shorter than MaxK are extended with their last value.
package rank
