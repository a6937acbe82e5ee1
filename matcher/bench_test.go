package matcher_test

import (
	"testing"

	"github.com/katalvlaran/dagmatch/builder"
	"github.com/katalvlaran/dagmatch/dag"
	"github.com/katalvlaran/dagmatch/matcher"
)

func benchPair(b *testing.B, n int) (*dag.DAG, *dag.DAG) {
	b.Helper()
	q, err := builder.BuildDAG(nil, []builder.BuilderOption{builder.WithSeed(1)}, builder.RandomTree(n))
	if err != nil {
		b.Fatal(err)
	}
	m, err := builder.BuildDAG(nil, []builder.BuilderOption{builder.WithSeed(2)}, builder.RandomTree(n))
	if err != nil {
		b.Fatal(err)
	}

	return q, m
}

// BenchmarkMatch_RandomTree20 runs every policy on two unrelated 20-node trees.
// Graph construction (including TSV eigen-sums) is excluded from the timing.
func BenchmarkMatch_RandomTree20(b *testing.B) {
	q, m := benchPair(b, 20)
	for _, alg := range algorithms {
		mt := matcher.New(matcher.WithAlgorithm(alg))
		b.Run(alg.String(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = mt.Match(q, m)
			}
		})
	}
}

// BenchmarkMatch_ContextualOptimal40 measures the contextual measurer on larger trees.
func BenchmarkMatch_ContextualOptimal40(b *testing.B) {
	q, m := benchPair(b, 40)
	mt := matcher.New(matcher.WithSimilarity(matcher.ContextualSimilarity))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = mt.Match(q, m)
	}
}
