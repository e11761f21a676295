// Package align scores ordered sequences by their best monotone alignment.
//
// Unlike set matching, a sequence alignment never crosses: if predicted
// element i is matched to reference element j and i' > i is matched to j',
// then j' ≥ j. The best alignment is found by dynamic programming over the
// (m+1)×(n+1) prefix table
//
//	D[i][j] = max( D[i-1][j-1] + w(i,j),  D[i-1][j],  D[i][j-1],
//	               D[i-1][j] + w(i,j)   if a reference element may be reused,
//	               D[i][j-1] + w(i,j)   if a predicted element may be reused )
//
// where the constraint decides which reuse moves are legal:
//
//	OneToOne      no reuse (weighted LCS)
//	OneToMany     predicted elements may share a reference element
//	ManyToOne     reference elements may share a predicted element
//	Unconstrained both
//
// Options select FullMatrix storage (needed to recover the witnessing path)
// or RollingArray storage (two rows, total only), and an optional band
// |i-j| ≤ Window outside of which pairs may not be matched.
//
// Complexity: O(m·n) time; O(m·n) or O(n) memory.
package align
