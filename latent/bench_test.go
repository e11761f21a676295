package latent_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/katalvlaran/structeval/assign"
	"github.com/katalvlaran/structeval/latent"
)

// BenchmarkAlign measures the search on random graphs with 8 variables,
// a typical sentence-level semantic graph.
func BenchmarkAlign(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	vars := make([]string, 8)
	for i := range vars {
		vars[i] = fmt.Sprintf("v%d", i)
	}
	pred, ref := randomGraph(rng, vars), randomGraph(rng, vars)
	opts := latent.DefaultOptions()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := latent.Align(pred, ref, exactProp, assign.OneToOne, opts); err != nil {
			b.Fatal(err)
		}
	}
}
