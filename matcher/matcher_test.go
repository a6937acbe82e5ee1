package matcher_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/dagmatch/builder"
	"github.com/katalvlaran/dagmatch/dag"
	"github.com/katalvlaran/dagmatch/matcher"
)

var algorithms = []matcher.Algorithm{matcher.Optimal, matcher.Greedy, matcher.Topological, matcher.Adaptive}

// constMeasurer scores every pair with the same value.
type constMeasurer float64

func (c constMeasurer) Similarity(*dag.DAG, dag.NodeID, *dag.DAG, dag.NodeID) float64 {
	return float64(c)
}

// MatchSuite exercises the pairwise matcher.
type MatchSuite struct {
	suite.Suite
}

func (s *MatchSuite) shape(c builder.Constructor, seed int64) *dag.DAG {
	g, err := builder.BuildDAG(nil, []builder.BuilderOption{builder.WithSeed(seed)}, c)
	require.NoError(s.T(), err)

	return g
}

// TestSelfMatch checks similarity 1 and the identity correspondence for every policy.
func (s *MatchSuite) TestSelfMatch() {
	shapes := []*dag.DAG{
		s.shape(builder.Path(4), 1),
		s.shape(builder.Star(5), 1),
		s.shape(builder.BinaryTree(2), 1),
		s.shape(builder.RandomDAG(10, 0.2), 5),
	}
	for _, g := range shapes {
		for _, alg := range algorithms {
			for _, sim := range []matcher.SimilarityFunction{matcher.LocalSimilarity, matcher.ContextualSimilarity} {
				res, err := matcher.Match(g, g, matcher.WithAlgorithm(alg), matcher.WithSimilarity(sim))
				require.NoError(s.T(), err)
				require.InDelta(s.T(), 1.0, res.Similarity, 1e-12, "%s/%s", alg, sim)
				require.Len(s.T(), res.Correspondence, g.Len())
				for _, p := range res.Correspondence {
					require.Equal(s.T(), p.QueryLabel, p.ModelLabel)
				}
			}
		}
	}
}

// TestSingleNode matches two identical single-node graphs.
func (s *MatchSuite) TestSingleNode() {
	mk := func() *dag.DAG {
		b := dag.NewBuilder()
		b.AddNode("n", dag.Attributes{Extent: 3, Radius: []float64{1, 0.5, 0.25}, Type: "blob"})
		g, err := b.Build()
		require.NoError(s.T(), err)

		return g
	}
	for _, alg := range algorithms {
		res, err := matcher.Match(mk(), mk(), matcher.WithAlgorithm(alg))
		require.NoError(s.T(), err)
		require.Equal(s.T(), 1.0, res.Similarity)
		require.False(s.T(), res.Truncated)
	}
}

// TestBoundsAndInjectivity checks score range and one-to-one correspondences on random pairs.
func (s *MatchSuite) TestBoundsAndInjectivity() {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 15; i++ {
		q := s.shape(builder.RandomDAG(3+rng.Intn(6), 0.3), rng.Int63())
		m := s.shape(builder.RandomDAG(3+rng.Intn(6), 0.3), rng.Int63())
		for _, alg := range algorithms {
			res, err := matcher.Match(q, m, matcher.WithAlgorithm(alg), matcher.WithSaliencyParam(4))
			require.NoError(s.T(), err)
			require.GreaterOrEqual(s.T(), res.Similarity, 0.0)
			require.LessOrEqual(s.T(), res.Similarity, 1.0)
			seenQ, seenM := map[dag.NodeID]bool{}, map[dag.NodeID]bool{}
			for _, p := range res.Correspondence {
				require.False(s.T(), seenQ[p.Query], "query node reused")
				require.False(s.T(), seenM[p.Model], "model node reused")
				seenQ[p.Query], seenM[p.Model] = true, true
			}
		}
	}
}

// TestExactDominates checks that uncapped optimal search never scores below the
// policies whose branches it also explores.
func (s *MatchSuite) TestExactDominates() {
	rng := rand.New(rand.NewSource(21))
	for i := 0; i < 10; i++ {
		q := s.shape(builder.RandomTree(3+rng.Intn(5)), rng.Int63())
		m := s.shape(builder.RandomTree(3+rng.Intn(5)), rng.Int63())
		exact, err := matcher.Match(q, m, matcher.WithMaxFrontierSize(0), matcher.WithMaxBranchesPerExpansion(0))
		require.NoError(s.T(), err)
		require.False(s.T(), exact.Truncated)
		for _, alg := range []matcher.Algorithm{matcher.Greedy, matcher.Adaptive} {
			res, err := matcher.Match(q, m, matcher.WithAlgorithm(alg))
			require.NoError(s.T(), err)
			require.GreaterOrEqual(s.T(), exact.Partial, res.Partial-1e-9, alg.String())
		}
	}
}

// TestFrontierOfOne degrades optimal search to a single greedy dive and flags truncation.
func (s *MatchSuite) TestFrontierOfOne() {
	g := s.shape(builder.Star(4), 1)
	res, err := matcher.Match(g, g, matcher.WithMaxFrontierSize(1))
	require.NoError(s.T(), err)
	require.True(s.T(), res.Truncated)
	require.Equal(s.T(), 1.0, res.Similarity)
	require.Equal(s.T(), 4, res.Stats.Expanded, "one expansion per committed level")
	require.Equal(s.T(), 1, res.Stats.MaxFrontier)

	greedy, err := matcher.Match(g, g, matcher.WithAlgorithm(matcher.Greedy))
	require.NoError(s.T(), err)
	require.Equal(s.T(), greedy.Correspondence, res.Correspondence)
}

// TestPenalties checks that broken relations cost the configured penalty.
func (s *MatchSuite) TestPenalties() {
	b := dag.NewBuilder()
	b.AddNode("r", dag.Attributes{Extent: 1})
	b.AddNode("a", dag.Attributes{Extent: 1})
	b.AddNode("b", dag.Attributes{Extent: 1})
	b.Connect("r", "a", 1)
	b.Connect("r", "b", 1)
	star, err := b.Build()
	require.NoError(s.T(), err)

	b = dag.NewBuilder()
	b.AddNode("R", dag.Attributes{Extent: 1})
	b.AddNode("A", dag.Attributes{Extent: 1})
	b.AddNode("B", dag.Attributes{Extent: 1})
	b.Connect("R", "A", 1)
	b.Connect("A", "B", 1)
	path, err := b.Build()
	require.NoError(s.T(), err)

	res, err := matcher.Match(star, path, matcher.WithMeasurer(constMeasurer(1)), matcher.WithMaxFrontierSize(0))
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 2.8, res.Partial, 1e-12)
	require.InDelta(s.T(), 2.8/3, res.Similarity, 1e-12)
	require.Equal(s.T(), "R", res.Correspondence[0].ModelLabel, "root maps to root")

	// Without a sibling penalty the relation break is free.
	res, err = matcher.Match(star, path, matcher.WithMeasurer(constMeasurer(1)), matcher.WithPenalties(matcher.Penalties{BreakSibling: 1}))
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 1.0, res.Similarity, 1e-12)
}

// TestRelationsBothSides drops pairs related only on the model side, so the
// score does not depend on which graph is the query.
func (s *MatchSuite) TestRelationsBothSides() {
	b := dag.NewBuilder()
	for _, l := range []string{"r", "a", "a1", "b"} {
		b.AddNode(l, dag.Attributes{Extent: 1})
	}
	b.Connect("r", "a", 1)
	b.Connect("a", "a1", 1)
	b.Connect("r", "b", 1)
	tree, err := b.Build()
	require.NoError(s.T(), err)

	b = dag.NewBuilder()
	for _, l := range []string{"R", "P", "X", "Y"} {
		b.AddNode(l, dag.Attributes{Extent: 1})
	}
	b.Connect("R", "P", 1)
	b.Connect("P", "X", 1)
	b.Connect("X", "Y", 1)
	path, err := b.Build()
	require.NoError(s.T(), err)

	opts := []matcher.Option{
		matcher.WithMeasurer(constMeasurer(1)),
		matcher.WithMaxFrontierSize(0),
		matcher.WithMaxBranchesPerExpansion(0),
	}
	fwd, err := matcher.Match(tree, path, opts...)
	require.NoError(s.T(), err)
	rev, err := matcher.Match(path, tree, opts...)
	require.NoError(s.T(), err)

	require.InDelta(s.T(), 0.6, fwd.Similarity, 1e-12)
	require.InDelta(s.T(), rev.Similarity, fwd.Similarity, 1e-12)
	require.Len(s.T(), fwd.Correspondence, 3)
	labels := map[string]bool{}
	for _, p := range fwd.Correspondence {
		labels[p.QueryLabel] = true
	}
	require.False(s.T(), labels["a1"] && labels["b"], "unrelated query nodes mapped onto one chain")
}

// TestUnmatchedSaliency checks that unmatched salient parts lower the score.
func (s *MatchSuite) TestUnmatchedSaliency() {
	q := s.shape(builder.Path(2), 1)
	m := s.shape(builder.Path(4), 1)
	full, err := matcher.Match(q, m, matcher.WithMeasurer(constMeasurer(1)))
	require.NoError(s.T(), err)
	require.Len(s.T(), full.Correspondence, 2)
	require.InDelta(s.T(), 2.0/4.0, full.Similarity, 1e-12)

	// With a large saliency parameter the unmatched parts barely count.
	light, err := matcher.Match(q, m, matcher.WithMeasurer(constMeasurer(1)), matcher.WithSaliencyParam(100))
	require.NoError(s.T(), err)
	require.Greater(s.T(), light.Similarity, full.Similarity)
}

// TestNilGraph rejects missing input.
func (s *MatchSuite) TestNilGraph() {
	_, err := matcher.Match(nil, s.shape(builder.Path(1), 1))
	require.ErrorIs(s.T(), err, matcher.ErrNilGraph)
}

// TestParse checks name parsing for configuration values.
func (s *MatchSuite) TestParse() {
	for _, alg := range algorithms {
		got, err := matcher.ParseAlgorithm(alg.String())
		require.NoError(s.T(), err)
		require.Equal(s.T(), alg, got)
	}
	_, err := matcher.ParseAlgorithm("exhaustive")
	require.ErrorIs(s.T(), err, matcher.ErrUnknownAlgorithm)
	f, err := matcher.ParseSimilarityFunction("Contextual")
	require.NoError(s.T(), err)
	require.Equal(s.T(), matcher.ContextualSimilarity, f)
	_, err = matcher.ParseSimilarityFunction("global")
	require.ErrorIs(s.T(), err, matcher.ErrUnknownSimilarity)
}

func TestMatchSuite(t *testing.T) {
	suite.Run(t, new(MatchSuite))
}
