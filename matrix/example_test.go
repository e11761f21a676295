package matrix_test

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/structeval/matrix"
)

// ExampleGram builds a token-equality Gram matrix and reads its row maxima.
func ExampleGram() {
	pred := []string{"New", "York"}
	gold := []string{"york", "new", "city"}
	g, _ := matrix.Gram(len(pred), len(gold), func(i, j int) (float64, error) {
		if strings.EqualFold(pred[i], gold[j]) {
			return 1, nil
		}
		return 0, nil
	})
	fmt.Print(g)
	vals, idx := g.RowMax()
	fmt.Println(vals, idx)
	// Output:
	// [0, 1, 0]
	// [1, 0, 0]
	// [1 1] [1 0]
}
