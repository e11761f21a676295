// Package normalize turns raw overlaps into bounded scores.
//
// Inputs are the cross overlap Σ(P,R) and the self overlaps Σ(P,P), Σ(R,R)
// (each obtained by matching a structure against itself under the same
// constraint). Formulas:
//
//	none       Σ(P,R)
//	precision  Σ(P,R) / Σ(P,P)
//	recall     Σ(P,R) / Σ(R,R)
//	jaccard    Σ(P,R) / (Σ(P,P) + Σ(R,R) − Σ(P,R))
//	dice (f1)  2·p·r / (p + r)
//	f-β        (1+β²)·p·r / (β²·p + r)
//
// A zero denominator is never an error: the score is 0 by convention.
package normalize
