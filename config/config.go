// Package config loads metric-suite descriptions from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/structeval"
	"github.com/katalvlaran/structeval/align"
	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/latent"
	"github.com/katalvlaran/structeval/normalize"
)

// Reduction tokens.
const (
	Micro = "micro"
	Macro = "macro"
)

// ReservedName is the suite entry holding cross-family averages; no family
// may use it.
const ReservedName = "average"

// DefaultNormalizers is used by families that list none.
var DefaultNormalizers = []string{"precision", "recall", "f1"}

// ErrInvalid is the root of every error returned by this package.
var ErrInvalid = fmt.Errorf("config: invalid suite: %w", structeval.ErrConfig)

// Suite is a validated suite description.
type Suite struct {
	Reduction string // Micro or Macro
	Workers   int    // parallel batch width, 0 = sequential
	Families  []Family
}

// Family is one named (metric, constraint, normalizers) configuration.
// At most one of Latent and Sequence is set.
type Family struct {
	Name        string
	Metric      string
	Constraint  assign.Constraint
	Normalizers []normalize.Normalizer
	Latent      *latent.Options
	Sequence    *align.Options
}

type yamlSuite struct {
	Reduction string       `yaml:"reduction"`
	Workers   int          `yaml:"workers"`
	Families  []yamlFamily `yaml:"families"`
}

type yamlFamily struct {
	Name        string        `yaml:"name"`
	Metric      string        `yaml:"metric"`
	Constraint  yaml.Node     `yaml:"constraint"`
	Normalizers []string      `yaml:"normalizers"`
	Latent      *yamlLatent   `yaml:"latent"`
	Sequence    *yamlSequence `yaml:"sequence"`
}

type yamlLatent struct {
	Restarts *int     `yaml:"restarts"`
	MaxIters *int     `yaml:"max_iters"`
	Seed     int64    `yaml:"seed"`
	Perturb  *float64 `yaml:"perturb"`
}

type yamlSequence struct {
	Window int `yaml:"window"`
}

// Load reads and parses the suite file at path.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML suite description. Unknown keys are
// rejected.
func Parse(data []byte) (*Suite, error) {
	var raw yamlSuite
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return raw.resolve()
}

func (raw yamlSuite) resolve() (*Suite, error) {
	s := &Suite{Reduction: strings.ToLower(strings.TrimSpace(raw.Reduction)), Workers: raw.Workers}
	if s.Reduction == "" {
		s.Reduction = Micro
	}
	if s.Reduction != Micro && s.Reduction != Macro {
		return nil, fmt.Errorf("%w: reduction %q", ErrInvalid, raw.Reduction)
	}
	if s.Workers < 0 {
		return nil, fmt.Errorf("%w: workers %d < 0", ErrInvalid, s.Workers)
	}
	if len(raw.Families) == 0 {
		return nil, fmt.Errorf("%w: no families", ErrInvalid)
	}

	seen := make(map[string]struct{}, len(raw.Families))
	for i, rf := range raw.Families {
		f, err := rf.resolve()
		if err != nil {
			return nil, fmt.Errorf("families[%d]: %w", i, err)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate family %q", ErrInvalid, f.Name)
		}
		seen[f.Name] = struct{}{}
		s.Families = append(s.Families, f)
	}

	return s, nil
}

func (rf yamlFamily) resolve() (Family, error) {
	f := Family{Name: strings.TrimSpace(rf.Name), Metric: strings.TrimSpace(rf.Metric)}
	switch {
	case f.Name == "":
		return Family{}, fmt.Errorf("%w: empty family name", ErrInvalid)
	case f.Name == ReservedName:
		return Family{}, fmt.Errorf("%w: family name %q is reserved", ErrInvalid, ReservedName)
	case f.Metric == "":
		return Family{}, fmt.Errorf("%w: family %q has no metric", ErrInvalid, f.Name)
	case rf.Latent != nil && rf.Sequence != nil:
		return Family{}, fmt.Errorf("%w: family %q is both latent and sequence", ErrInvalid, f.Name)
	}

	token, err := constraintToken(rf.Constraint)
	if err != nil {
		return Family{}, fmt.Errorf("family %q: %w", f.Name, err)
	}
	c, err := assign.ParseConstraint(token)
	if err != nil {
		return Family{}, err
	}
	f.Constraint = c

	tokens := rf.Normalizers
	if len(tokens) == 0 {
		tokens = DefaultNormalizers
	}
	if f.Normalizers, err = normalize.ParseAll(tokens); err != nil {
		return Family{}, err
	}

	if rf.Latent != nil {
		opts := latent.DefaultOptions()
		if rf.Latent.Restarts != nil {
			opts.Restarts = *rf.Latent.Restarts
		}
		if rf.Latent.MaxIters != nil {
			opts.MaxIters = *rf.Latent.MaxIters
		}
		if rf.Latent.Perturb != nil {
			opts.Perturb = *rf.Latent.Perturb
		}
		opts.Seed = rf.Latent.Seed
		if err = opts.Validate(); err != nil {
			return Family{}, err
		}
		f.Latent = &opts
	}
	if rf.Sequence != nil {
		opts := align.Options{Window: rf.Sequence.Window, ReturnPath: true, MemoryMode: align.FullMatrix}
		if err = opts.Validate(); err != nil {
			return Family{}, err
		}
		f.Sequence = &opts
	}

	return f, nil
}

// constraintToken reads the constraint scalar. A missing key means OneToOne;
// a bare ~ is YAML null and means Unconstrained.
func constraintToken(n yaml.Node) (string, error) {
	switch {
	case n.Kind == 0:
		return assign.OneToOne.String(), nil
	case n.Kind != yaml.ScalarNode:
		return "", fmt.Errorf("%w: constraint at line %d is not a scalar", ErrInvalid, n.Line)
	case n.ShortTag() == "!!null":
		return assign.Unconstrained.String(), nil
	}

	return n.Value, nil
}
