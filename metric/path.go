package metric

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/structeval"
)

// AnyIndex is the index wildcard of a selector, written "[*]".
const AnyIndex = -1

// AnyField is the field wildcard of a selector.
const AnyField = "*"

// Step is one component of a Path: a field (or union case) name, or an
// element index when Field is empty.
type Step struct {
	Field string
	Index int
}

// FieldStep returns the step addressing field name.
func FieldStep(name string) Step { return Step{Field: name} }

// IndexStep returns the step addressing element i.
func IndexStep(i int) Step { return Step{Index: i} }

// IsIndex reports whether s addresses a collection element.
func (s Step) IsIndex() bool { return s.Field == "" }

// Path locates a sub-value inside a prediction or a reference. The empty
// Path is the value itself.
type Path []Step

// ErrBadPath is returned by ParsePath for malformed selectors.
var ErrBadPath = fmt.Errorf("metric: malformed path: %w", structeval.ErrConfig)

// String renders p in JMESPath style: "@" for the root, otherwise field
// names joined by dots and indices in brackets ("[2].args[0]").
func (p Path) String() string {
	if len(p) == 0 {
		return "@"
	}
	var sb strings.Builder
	for k, s := range p {
		switch {
		case s.IsIndex() && s.Index == AnyIndex:
			sb.WriteString("[*]")
		case s.IsIndex():
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(s.Index))
			sb.WriteByte(']')
		default:
			if k > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(s.Field)
		}
	}

	return sb.String()
}

// Prepend returns a new path with s in front of p.
func (p Path) Prepend(s Step) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, s)

	return append(out, p...)
}

// Selects reports whether the selector p covers path: same length, and
// every step equal or a wildcard of the same kind.
func (p Path) Selects(path Path) bool {
	if len(p) != len(path) {
		return false
	}
	for k, sel := range p {
		got := path[k]
		switch {
		case sel.IsIndex() != got.IsIndex():
			return false
		case sel.IsIndex():
			if sel.Index != AnyIndex && sel.Index != got.Index {
				return false
			}
		default:
			if sel.Field != AnyField && sel.Field != got.Field {
				return false
			}
		}
	}

	return true
}

// ParsePath parses the String form of a path. "@" and "" are the root;
// "[*]" and "*" are wildcards.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "@")
	var p Path
	for len(s) > 0 {
		switch s[0] {
		case '.':
			s = s[1:]
			if s == "" || s[0] == '.' || s[0] == '[' {
				return nil, fmt.Errorf("%w: empty field", ErrBadPath)
			}
		case '[':
			end := strings.IndexByte(s, ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed bracket", ErrBadPath)
			}
			tok := s[1:end]
			s = s[end+1:]
			if tok == "*" {
				p = append(p, IndexStep(AnyIndex))
				continue
			}
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 {
				return nil, fmt.Errorf("%w: index %q", ErrBadPath, tok)
			}
			p = append(p, IndexStep(i))
		default:
			end := strings.IndexAny(s, ".[")
			if end < 0 {
				end = len(s)
			}
			if strings.IndexByte(s[:end], ']') >= 0 {
				return nil, fmt.Errorf("%w: stray bracket in %q", ErrBadPath, s[:end])
			}
			p = append(p, FieldStep(s[:end]))
			s = s[end:]
		}
	}

	return p, nil
}
