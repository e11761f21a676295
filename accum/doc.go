// Package accum aggregates per-pair overlaps into corpus-level scores.
//
// An Accumulator is bound to one collection metric (anything implementing
// metric.Overlapper) and a list of normalizers. Each update adds the triple
// (Σ(p,r), Σ(p,p), Σ(r,r)) to three running totals; Compute applies every
// normalizer to the totals (micro average) or averages per-pair scores
// (macro average). Compute never mutates state, and with no updates it
// returns the zero-denominator convention values (0).
//
// UpdateBatch scores independent pairs on an ants worker pool. Each pair's
// overlaps land in their own slot and are reduced once, in input order,
// after all workers finish, so batch results do not depend on scheduling.
//
// A Suite groups named accumulators over the same element type and adds an
// "average" entry holding the unweighted mean across families.
package accum
