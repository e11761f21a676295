package metric_test

import (
	"fmt"

	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/metric"
	"github.com/katalvlaran/structeval/normalize"
)

// ExampleNewSetMatching scores predicted entity mentions against gold ones,
// ignoring case and Unicode width.
func ExampleNewSetMatching() {
	text := metric.Text(metric.TextOptions{Unicode: true, FoldCase: true, TrimSpace: true})
	pred := []string{"Obama", "HAWAII"}
	gold := []string{"obama", "Hawaii", "1961"}

	for _, n := range []normalize.Normalizer{normalize.Precision, normalize.Recall, normalize.Dice} {
		sm, _ := metric.NewSetMatching(text, assign.OneToOne, n)
		s, _ := sm.Score(pred, gold)
		fmt.Printf("%-9s %.3f\n", n, s)
	}
	// Output:
	// precision 1.000
	// recall    0.667
	// f1        0.800
}

// ExampleDescribe prints the shape of a metric tree.
func ExampleDescribe() {
	type span struct{ Start, End int }
	elem, _ := metric.Struct(
		metric.Field("start", func(s span) int { return s.Start }, metric.Discrete[int]()),
		metric.Field("end", func(s span) int { return s.End }, metric.Discrete[int]()),
	)
	sm, _ := metric.NewSetMatching(elem, assign.OneToMany, normalize.Jaccard)
	fmt.Println(metric.Describe(sm))
	// Output:
	// set(<-, jaccard)
	//   [*]: struct
	//     start: discrete
	//     end: discrete
}
