package graph_test

import (
	"fmt"

	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/graph"
	"github.com/katalvlaran/structeval/metric"
	"github.com/katalvlaran/structeval/normalize"
)

// ExampleMatching compares a predicted call tree with the gold one. The two
// leaves are siblings in the prediction but nested in the reference, so only
// one of them can stay aligned next to the root.
func ExampleMatching() {
	pred, _ := graph.New([]string{"main", "parse", "eval"},
		graph.Edge{From: 0, To: 1}, graph.Edge{From: 0, To: 2})
	gold, _ := graph.New([]string{"main", "parse", "eval"},
		graph.Edge{From: 0, To: 1}, graph.Edge{From: 1, To: 2})

	m, _ := graph.NewMatching(metric.Discrete[string](), assign.OneToOne, normalize.Dice, graph.DefaultOptions())
	sol, _ := m.Solve(pred, gold)
	s, _ := m.Score(pred, gold)
	fmt.Printf("aligned %v of 3 nodes, exact=%v\n", sol.Total, sol.Exact)
	fmt.Printf("f1 %.3f\n", s)
	// Output:
	// aligned 2 of 3 nodes, exact=true
	// f1 0.667
}
