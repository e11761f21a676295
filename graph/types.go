package graph

import (
	"fmt"

	"github.com/katalvlaran/structeval"
	"github.com/katalvlaran/structeval/assign"
)

// Edge is a directed edge between node indices.
type Edge struct {
	From, To int
}

// Graph is a directed graph whose nodes carry values of type T. Edges refer
// to nodes by their index in Nodes.
type Graph[T any] struct {
	Nodes []T
	Edges []Edge
}

// New returns a graph over nodes with the given edges, checking every
// endpoint.
func New[T any](nodes []T, edges ...Edge) (Graph[T], error) {
	g := Graph[T]{Nodes: nodes, Edges: edges}
	if err := g.Validate(); err != nil {
		return Graph[T]{}, err
	}

	return g, nil
}

// Validate reports an edge whose endpoint is not a node index.
func (g Graph[T]) Validate() error {
	n := len(g.Nodes)
	for k, e := range g.Edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			return fmt.Errorf("%w: edge %d (%d→%d) with %d nodes", ErrEdge, k, e.From, e.To, n)
		}
	}

	return nil
}

// Options bounds the branch-and-bound search.
type Options struct {
	// MaxNodes caps the search-tree nodes expanded per solve. Zero means
	// DefaultMaxNodes; negative values are rejected.
	MaxNodes int

	// Eps is the improvement threshold used for pruning.
	Eps float64
}

// DefaultMaxNodes is the search budget used when Options.MaxNodes is 0.
const DefaultMaxNodes = 1 << 18

// DefaultOptions returns the default search options.
func DefaultOptions() Options {
	return Options{MaxNodes: DefaultMaxNodes, Eps: 1e-9}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.MaxNodes < 0 {
		return fmt.Errorf("%w: max nodes %d < 0", ErrOptions, o.MaxNodes)
	}
	if !(o.Eps >= 0) {
		return fmt.Errorf("%w: eps %v", ErrOptions, o.Eps)
	}

	return nil
}

func (o Options) budget() int {
	if o.MaxNodes == 0 {
		return DefaultMaxNodes
	}

	return o.MaxNodes
}

// Solution is the outcome of one graph alignment.
type Solution struct {
	assign.Result

	// Exact is true when the search finished within its budget, so Total
	// is the optimum. Otherwise Total is the best admissible value found.
	Exact bool

	// Expanded counts search-tree nodes.
	Expanded int
}

var (
	// ErrEdge is returned for edges that point outside the node list.
	ErrEdge = fmt.Errorf("graph: edge endpoint out of range: %w", structeval.ErrTypeMismatch)

	// ErrOptions is returned for invalid search options.
	ErrOptions = fmt.Errorf("graph: invalid options: %w", structeval.ErrConfig)
)
