package similarity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/dagmatch/dag"
	"github.com/katalvlaran/dagmatch/similarity"
)

func single(t *testing.T, a dag.Attributes) *dag.DAG {
	b := dag.NewBuilder()
	b.AddNode("n", a)
	g, err := b.Build()
	require.NoError(t, err)

	return g
}

// fork builds root→{x,y} with the given extents.
func fork(t *testing.T, root, x, y float64) *dag.DAG {
	b := dag.NewBuilder()
	b.AddNode("r", dag.Attributes{Extent: root, Type: "p"})
	b.AddNode("x", dag.Attributes{Extent: x, Type: "p"})
	b.AddNode("y", dag.Attributes{Extent: y, Type: "p"})
	b.Connect("r", "x", 1)
	b.Connect("r", "y", 1)
	g, err := b.Build()
	require.NoError(t, err)

	return g
}

// TestTSVSimilarity checks the boundary cases and zero padding.
func TestTSVSimilarity(t *testing.T) {
	require.Equal(t, 1.0, similarity.TSVSimilarity(nil, nil))
	require.Equal(t, 1.0, similarity.TSVSimilarity([]float64{3, 4}, []float64{3, 4}))
	require.InDelta(t, 0.8, similarity.TSVSimilarity([]float64{5}, []float64{4}), 1e-12)
	require.InDelta(t, 0.8, similarity.TSVSimilarity([]float64{3, 4}, []float64{3, 3}), 1e-12)
	require.Equal(t, 0.0, similarity.TSVSimilarity([]float64{1}, []float64{-5}))
	require.InDelta(t, 1.0, similarity.TSVDistance([]float64{1, 1}, []float64{1}), 1e-12)
}

// TestLocal_Identical gives identical single nodes similarity 1.
func TestLocal_Identical(t *testing.T) {
	a := dag.Attributes{Extent: 2, Radius: []float64{1, 2, 1}, Type: "limb"}
	g1, g2 := single(t, a), single(t, a)
	require.Equal(t, 1.0, similarity.NewLocal().Similarity(g1, 0, g2, 0))
	require.Equal(t, 1.0, similarity.NewContextual().Similarity(g1, 0, g2, 0))
}

// TestLocal_TypeMismatch returns zero for incompatible type tags.
func TestLocal_TypeMismatch(t *testing.T) {
	g1 := single(t, dag.Attributes{Extent: 1, Type: "limb"})
	g2 := single(t, dag.Attributes{Extent: 1, Type: "torso"})
	require.Zero(t, similarity.NewLocal().Similarity(g1, 0, g2, 0))
	require.Zero(t, similarity.NewContextual().Similarity(g1, 0, g2, 0))
}

// TestLocal_Monotone checks that growing the extent gap never raises the score.
func TestLocal_Monotone(t *testing.T) {
	m := similarity.NewLocal()
	ref := single(t, dag.Attributes{Extent: 10, Radius: []float64{2, 2}, Type: "p"})
	prev := 1.1
	for _, e := range []float64{10, 9, 7, 5, 2, 1} {
		g := single(t, dag.Attributes{Extent: e, Radius: []float64{2, 2}, Type: "p"})
		s := m.Similarity(ref, 0, g, 0)
		require.LessOrEqual(t, s, prev)
		require.GreaterOrEqual(t, s, 0.0)
		prev = s
	}
}

// TestProfileSimilarity checks resampling of profiles of unequal length.
func TestProfileSimilarity(t *testing.T) {
	require.Equal(t, 1.0, similarity.ProfileSimilarity(nil, nil))
	require.InDelta(t, 1.0, similarity.ProfileSimilarity([]float64{1, 2, 3}, []float64{1, 1.5, 2, 2.5, 3}), 1e-12)
	require.InDelta(t, 0.5, similarity.ProfileSimilarity([]float64{2, 2}, []float64{1, 1}), 1e-12)
	require.Equal(t, 1.0, similarity.ProfileSimilarity([]float64{0}, []float64{0, 0}))
}

// TestContextual_Neighborhood prefers nodes whose children look alike.
func TestContextual_Neighborhood(t *testing.T) {
	m := similarity.NewContextual()
	q := fork(t, 4, 3, 1)
	same := fork(t, 4, 3, 1)
	other := fork(t, 4, 1, 0.5)
	require.InDelta(t, 1.0, m.Similarity(q, 0, same, 0), 1e-12)
	require.Less(t, m.Similarity(q, 0, other, 0), m.Similarity(q, 0, same, 0))

	// Root against non-root loses parent agreement.
	l := similarity.NewLocal()
	x, _ := q.Lookup("x")
	require.Less(t, m.Similarity(q, x, same, 0), 1.0)
	require.GreaterOrEqual(t, l.Similarity(q, x, same, 0), m.Similarity(q, x, same, 0))
}
