// Package metric is the combinator algebra of structeval.
//
// A Metric[T] is a pure function φ: T×T → ℝ≥0 exposed through
// Score(x, y) (float64, error). Trees are built bottom-up, once, and are
// read-only afterwards, so a single tree may be shared by any number of
// goroutines and scoring calls.
//
// Leaves:
//
//	Func(f)             φ(x,y) = f(x,y)
//	Discrete[T]()       1 if x == y else 0
//	Constant(v)         v for every pair
//	Text(opts)          string equality after NFKC / case folding / trimming
//	TokenOverlap(opts)  Jaccard overlap of whitespace tokens
//
// Combinators:
//
//	Preprocess(m, g)    φ(x,y) = m(g(x), g(y))
//	Product(fields)     Π over declared fields of a Record
//	Struct(fields...)   Π over typed field accessors
//	Union(cases)        m[tag](x,y) when tags agree, 0 otherwise
//	Cast / Erase        bridges between typed metrics and `any`
//	Normalize(m, n)     n(m(x,y), m(x,x), m(y,y))
//
// Collections:
//
//	SetMatching(m, c, n)  best alignment of two slices under an assign.Constraint,
//	                      normalized with a normalize.Normalizer
//
// Error classes: ErrTypeMismatch at scoring time (missing field, undeclared
// union case, wrong dynamic type); ErrConfig at construction time (nil
// children, invalid constraint, duplicate registry names).
package metric
