package metric

import (
	"fmt"
	"maps"
	"slices"

	"github.com/katalvlaran/structeval/normalize"
)

// preprocess applies g to both operands before delegating to inner.
type preprocess[S, T any] struct {
	inner Metric[T]
	g     func(S) T
}

// Preprocess returns φ'(x, y) = inner(g(x), g(y)).
func Preprocess[S, T any](inner Metric[T], g func(S) T) (Metric[S], error) {
	if inner == nil || g == nil {
		return nil, ErrNilMetric
	}

	return &preprocess[S, T]{inner: inner, g: g}, nil
}

func (p *preprocess[S, T]) Kind() Kind        { return KindPreprocess }
func (p *preprocess[S, T]) Label() string     { return "preprocess" }
func (p *preprocess[S, T]) Children() []Child { return []Child{{Name: "", Node: p.inner}} }

func (p *preprocess[S, T]) Score(x, y S) (float64, error) {
	return p.inner.Score(p.g(x), p.g(y))
}

// Explain reports the matches of the mapped operands at unchanged paths.
func (p *preprocess[S, T]) Explain(x, y S) ([]Match, error) {
	return Explain(p.inner, p.g(x), p.g(y))
}

// product multiplies per-field scores over a fixed, sorted field set.
type product[T Record] struct {
	names  []string
	fields map[string]Metric[any]
}

// Product scores two Records as the product of their per-field scores over
// the declared field set. An operand lacking a declared field yields
// ErrMissingField. An empty field set scores 1.
func Product[T Record](fields map[string]Metric[any]) (Metric[T], error) {
	for name, m := range fields {
		if name == "" {
			return nil, ErrEmptyName
		}
		if m == nil {
			return nil, fmt.Errorf("%w: field %q", ErrNilMetric, name)
		}
	}
	names := slices.Sorted(maps.Keys(fields))

	return &product[T]{names: names, fields: maps.Clone(fields)}, nil
}

func (p *product[T]) Kind() Kind    { return KindProduct }
func (p *product[T]) Label() string { return "product" }

func (p *product[T]) Children() []Child {
	out := make([]Child, len(p.names))
	for i, name := range p.names {
		out[i] = Child{Name: name, Node: p.fields[name]}
	}

	return out
}

func (p *product[T]) Score(x, y T) (float64, error) {
	total := 1.0
	for _, name := range p.names {
		xf, ok := x.Field(name)
		if !ok {
			return 0, fmt.Errorf("%w: %q on predicted operand", ErrMissingField, name)
		}
		yf, ok := y.Field(name)
		if !ok {
			return 0, fmt.Errorf("%w: %q on reference operand", ErrMissingField, name)
		}
		s, err := p.fields[name].Score(xf, yf)
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", name, err)
		}
		total *= s
	}

	return total, nil
}

// Explain reports the product's root match followed by each field's
// matches under the field name.
func (p *product[T]) Explain(x, y T) ([]Match, error) {
	total, err := p.Score(x, y)
	if err != nil {
		return nil, err
	}
	out := rootMatch(x, y, total)
	for _, name := range p.names {
		xf, _ := x.Field(name)
		yf, _ := y.Field(name)
		ms, err := Explain(p.fields[name], xf, yf)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out = prefixed(out, ms, FieldStep(name), FieldStep(name))
	}

	return out, nil
}

// FieldSpec is one typed field of a Struct metric. Build it with Field.
type FieldSpec[T any] struct {
	name    string
	node    Node
	score   func(x, y T) (float64, error)
	explain func(x, y T) ([]Match, error)
}

// Field declares a typed field: get extracts it, m scores it.
func Field[T, F any](name string, get func(T) F, m Metric[F]) FieldSpec[T] {
	spec := FieldSpec[T]{name: name}
	if get == nil || m == nil {
		return spec
	}
	spec.node = m
	spec.score = func(x, y T) (float64, error) { return m.Score(get(x), get(y)) }
	spec.explain = func(x, y T) ([]Match, error) { return Explain(m, get(x), get(y)) }

	return spec
}

// structProduct is the statically typed counterpart of product.
type structProduct[T any] struct {
	fields []FieldSpec[T]
}

// Struct is Product over typed accessors: fields can never be missing, so
// the only errors come from the field metrics themselves.
func Struct[T any](fields ...FieldSpec[T]) (Metric[T], error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.name == "" {
			return nil, ErrEmptyName
		}
		if f.score == nil {
			return nil, fmt.Errorf("%w: field %q", ErrNilMetric, f.name)
		}
		if _, dup := seen[f.name]; dup {
			return nil, fmt.Errorf("%w: field %q declared twice", ErrDuplicateMetric, f.name)
		}
		seen[f.name] = struct{}{}
	}

	return &structProduct[T]{fields: slices.Clone(fields)}, nil
}

func (s *structProduct[T]) Kind() Kind    { return KindProduct }
func (s *structProduct[T]) Label() string { return "struct" }

func (s *structProduct[T]) Children() []Child {
	out := make([]Child, len(s.fields))
	for i, f := range s.fields {
		out[i] = Child{Name: f.name, Node: f.node}
	}

	return out
}

func (s *structProduct[T]) Score(x, y T) (float64, error) {
	total := 1.0
	for _, f := range s.fields {
		v, err := f.score(x, y)
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", f.name, err)
		}
		total *= v
	}

	return total, nil
}

func (s *structProduct[T]) Explain(x, y T) ([]Match, error) {
	total, err := s.Score(x, y)
	if err != nil {
		return nil, err
	}
	out := rootMatch(x, y, total)
	for _, f := range s.fields {
		ms, err := f.explain(x, y)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.name, err)
		}
		out = prefixed(out, ms, FieldStep(f.name), FieldStep(f.name))
	}

	return out, nil
}

// union dispatches on the case tag through a lookup table fixed at construction.
type union[T Tagged] struct {
	tags  []string
	cases map[string]Metric[T]
}

// Union scores x and y with cases[tag] when both carry the same declared
// tag, and 0 when the tags differ. A tag outside the declared cases on either
// operand yields ErrUnknownCase.
func Union[T Tagged](cases map[string]Metric[T]) (Metric[T], error) {
	for tag, m := range cases {
		if tag == "" {
			return nil, ErrEmptyName
		}
		if m == nil {
			return nil, fmt.Errorf("%w: case %q", ErrNilMetric, tag)
		}
	}

	return &union[T]{tags: slices.Sorted(maps.Keys(cases)), cases: maps.Clone(cases)}, nil
}

func (u *union[T]) Kind() Kind    { return KindUnion }
func (u *union[T]) Label() string { return "union" }

func (u *union[T]) Children() []Child {
	out := make([]Child, len(u.tags))
	for i, tag := range u.tags {
		out[i] = Child{Name: tag, Node: u.cases[tag]}
	}

	return out
}

func (u *union[T]) Score(x, y T) (float64, error) {
	tx, ty := x.Tag(), y.Tag()
	m, ok := u.cases[tx]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCase, tx)
	}
	if _, ok = u.cases[ty]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCase, ty)
	}
	if tx != ty {
		return 0, nil
	}

	return m.Score(x, y)
}

// Explain delegates to the shared case; differing cases have no matches.
func (u *union[T]) Explain(x, y T) ([]Match, error) {
	s, err := u.Score(x, y)
	if err != nil || s <= 0 {
		return nil, err
	}

	return Explain(u.cases[x.Tag()], x, y)
}

// cast narrows operands of type S to T by type assertion.
type cast[S, T any] struct {
	inner Metric[T]
}

// Cast adapts a Metric[T] to operands of static type S (typically an
// interface or `any`) whose dynamic type is T. Operands of any other dynamic
// type yield ErrWrongType.
func Cast[S, T any](inner Metric[T]) (Metric[S], error) {
	if inner == nil {
		return nil, ErrNilMetric
	}

	return &cast[S, T]{inner: inner}, nil
}

// Erase is Cast to `any`; it is how typed metrics become Product fields.
func Erase[T any](inner Metric[T]) Metric[any] {
	return Must(Cast[any, T](inner))
}

func (c *cast[S, T]) Kind() Kind        { return KindCast }
func (c *cast[S, T]) Label() string     { return fmt.Sprintf("cast(%T)", *new(T)) }
func (c *cast[S, T]) Children() []Child { return []Child{{Name: "", Node: c.inner}} }

func (c *cast[S, T]) Score(x, y S) (float64, error) {
	tx, ok := any(x).(T)
	if !ok {
		return 0, fmt.Errorf("%w: got %T, want %T", ErrWrongType, x, *new(T))
	}
	ty, ok := any(y).(T)
	if !ok {
		return 0, fmt.Errorf("%w: got %T, want %T", ErrWrongType, y, *new(T))
	}

	return c.inner.Score(tx, ty)
}

func (c *cast[S, T]) Explain(x, y S) ([]Match, error) {
	tx, ok := any(x).(T)
	if !ok {
		return nil, fmt.Errorf("%w: got %T, want %T", ErrWrongType, x, *new(T))
	}
	ty, ok := any(y).(T)
	if !ok {
		return nil, fmt.Errorf("%w: got %T, want %T", ErrWrongType, y, *new(T))
	}

	return Explain(c.inner, tx, ty)
}

// normalized applies a Normalizer using the inner metric's self scores.
type normalized[T any] struct {
	inner Metric[T]
	n     normalize.Normalizer
}

// Normalize returns n(inner(x,y), inner(x,x), inner(y,y)).
func Normalize[T any](inner Metric[T], n normalize.Normalizer) (Metric[T], error) {
	if inner == nil {
		return nil, ErrNilMetric
	}

	return &normalized[T]{inner: inner, n: n}, nil
}

func (m *normalized[T]) Kind() Kind        { return KindNormalized }
func (m *normalized[T]) Label() string     { return "normalized(" + m.n.String() + ")" }
func (m *normalized[T]) Children() []Child { return []Child{{Name: "", Node: m.inner}} }

func (m *normalized[T]) Score(x, y T) (float64, error) {
	xy, err := m.inner.Score(x, y)
	if err != nil {
		return 0, err
	}
	xx, err := m.inner.Score(x, x)
	if err != nil {
		return 0, err
	}
	yy, err := m.inner.Score(y, y)
	if err != nil {
		return 0, err
	}

	return m.n.Apply(xy, xx, yy), nil
}

// Explain replaces the inner root match by one carrying the normalized
// score and keeps the nested matches.
func (m *normalized[T]) Explain(x, y T) ([]Match, error) {
	v, err := m.Score(x, y)
	if err != nil {
		return nil, err
	}
	inner, err := Explain(m.inner, x, y)
	if err != nil {
		return nil, err
	}
	out := rootMatch(x, y, v)
	for _, im := range inner {
		if len(im.PredPath) == 0 && len(im.RefPath) == 0 {
			continue
		}
		out = append(out, im)
	}

	return out, nil
}
