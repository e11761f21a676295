// Package structeval scores predicted structures against reference structures
// the way structured-prediction evaluation needs it: sets of mentions,
// relations, events, nested records and variable-bearing graphs.
//
// What is in the box?
//
//	A small algebra of similarity metrics plus the optimization engines that
//	make them work on unordered substructures:
//		• Leaves: discrete equality, text equality, token overlap, custom funcs
//		• Combinators: preprocess, field-wise product, tagged-case union
//		• Set matching under 1:1, 1:*, *:1 and *:* alignment constraints
//		• Latent matching for structures carrying free variables (AMR-style)
//		• Normalizers: precision, recall, Jaccard, Dice, F-β
//		• Graph matching that preserves reachability; ranking metrics at k
//		• Corpus accumulators and named metric suites (micro/macro averaging)
//		• Path-addressed match hooks over nested alignments
//
// Packages:
//
//	accum/      Accumulator & Suite: corpus-level running totals, parallel batches
//	align/      monotone sequence alignment under the same constraints
//	assign/     Constraint enum + assignment solver (Hungarian for 1:1)
//	config/     YAML suite description
//	graph/      reachability-preserving graph matching (branch-and-bound)
//	latent/     variables, renamings and the anytime latent matching search
//	log/        zap-backed logging facade
//	matrix/     dense Gram (similarity) matrices
//	metric/     Metric[T] interface, leaves, combinators, set matching, registry
//	normalize/  overlap normalizers
//	rank/       precision@k, recall@k and average precision of ranked lists
//
// Quick example:
//
//	pred = {t1, t2}        ref = {t1, t2, t3}
//	Σ(P,R)=2  Σ(P,P)=2  Σ(R,R)=3
//	precision=1.0  recall=0.667  f1=0.8
//
// All metrics are immutable once built and safe for concurrent use; only
// accumulators carry mutable state.
package structeval
