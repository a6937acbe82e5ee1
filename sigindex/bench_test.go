package sigindex_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/dagmatch/sigindex"
)

// BenchmarkBuild_10000 measures kd-tree construction over 10,000 random signatures.
func BenchmarkBuild_10000(b *testing.B) {
	pts := randomPoints(rand.New(rand.NewSource(1)), 10000)
	ix := sigindex.New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ix.Build(pts)
	}
}

// BenchmarkKNearest_10000 measures 16-NN lookups against a built index.
func BenchmarkKNearest_10000(b *testing.B) {
	rng := rand.New(rand.NewSource(2))
	ix := sigindex.New()
	ix.Build(randomPoints(rng, 10000))
	q := randomPoints(rng, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ix.KNearest(q[i%len(q)].TSV, 16)
	}
}

// BenchmarkRangeSearch_10000 measures range queries with the default back-off.
func BenchmarkRangeSearch_10000(b *testing.B) {
	rng := rand.New(rand.NewSource(3))
	ix := sigindex.New(sigindex.WithMinResults(8))
	ix.Build(randomPoints(rng, 10000))
	q := randomPoints(rng, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ix.RangeSearch(q[i%len(q)].TSV, 0.05)
	}
}
