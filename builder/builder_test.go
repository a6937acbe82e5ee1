package builder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/dagmatch/builder"
	"github.com/katalvlaran/dagmatch/dag"
)

// TestShapes runs each constructor and checks node and edge counts.
func TestShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		ctor  builder.Constructor
		bopts []builder.BuilderOption
		wantV int
		wantE int
	}{
		{"Path(1)", builder.Path(1), nil, 1, 0},
		{"Path(5)", builder.Path(5), nil, 5, 4},
		{"Star(4)", builder.Star(4), nil, 4, 3},
		{"BinaryTree(0)", builder.BinaryTree(0), nil, 1, 0},
		{"BinaryTree(3)", builder.BinaryTree(3), nil, 15, 14},
		{"RandomTree(20)", builder.RandomTree(20), []builder.BuilderOption{builder.WithSeed(3)}, 20, 19},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g, err := builder.BuildDAG(nil, tc.bopts, tc.ctor)
			require.NoError(t, err)
			require.Equal(t, tc.wantV, g.Len())
			require.Len(t, g.Edges(), tc.wantE)
			require.Equal(t, dag.NodeID(0), g.Root())
		})
	}
}

// TestComposition hangs later shapes under the first shape's root.
func TestComposition(t *testing.T) {
	g, err := builder.BuildDAG(
		[]dag.Option{dag.WithID("combo")},
		[]builder.BuilderOption{builder.WithSymbNumb("p")},
		builder.Path(3), builder.Star(3),
	)
	require.NoError(t, err)
	require.Equal(t, "combo", g.ID())
	require.Equal(t, 6, g.Len())
	hub, ok := g.Lookup("p3")
	require.True(t, ok)
	require.Equal(t, []dag.NodeID{0}, g.Parents(hub))
	require.Equal(t, 1, g.Node(hub).Level)
	require.Equal(t, 2, g.Node(g.Children(hub)[0]).Level)
}

// TestRandomDAG checks determinism per seed and that cross edges keep the graph acyclic.
func TestRandomDAG(t *testing.T) {
	build := func(seed int64) *dag.DAG {
		g, err := builder.BuildDAG(nil, []builder.BuilderOption{builder.WithSeed(seed)}, builder.RandomDAG(12, 0.2))
		require.NoError(t, err)

		return g
	}
	a, b := build(9), build(9)
	require.Equal(t, a.Edges(), b.Edges())
	require.GreaterOrEqual(t, len(a.Edges()), 11)
}

// TestAttributes checks the default extent and radius generators.
func TestAttributes(t *testing.T) {
	g, err := builder.BuildDAG(nil, []builder.BuilderOption{builder.WithType("limb"), builder.WithRadiusSamples(2)}, builder.Star(3))
	require.NoError(t, err)
	for i, n := range g.Nodes() {
		require.Equal(t, float64(i+1), n.Attr.Extent)
		require.Equal(t, "limb", n.Attr.Type)
		require.Len(t, n.Attr.Radius, 2)
		require.InDelta(t, n.Attr.Extent/4, n.Attr.Radius[0], 1e-12)
	}

	g, err = builder.BuildDAG(nil, []builder.BuilderOption{builder.WithExtentFn(builder.TaperedExtentFn(8, 0))}, builder.Path(3))
	require.NoError(t, err)
	require.Equal(t, []float64{8, 4, 2}, []float64{g.Node(0).Attr.Extent, g.Node(1).Attr.Extent, g.Node(2).Attr.Extent})
}

// TestErrors checks parameter validation sentinels.
func TestErrors(t *testing.T) {
	_, err := builder.BuildDAG(nil, nil, builder.Path(0))
	require.ErrorIs(t, err, builder.ErrTooFewVertices)
	_, err = builder.BuildDAG(nil, nil, builder.Star(1))
	require.ErrorIs(t, err, builder.ErrTooFewVertices)
	_, err = builder.BuildDAG(nil, nil, builder.RandomTree(4))
	require.ErrorIs(t, err, builder.ErrNeedRandSource)
	_, err = builder.BuildDAG(nil, []builder.BuilderOption{builder.WithSeed(1)}, builder.RandomDAG(4, 1.5))
	require.ErrorIs(t, err, builder.ErrInvalidProbability)
	_, err = builder.BuildDAG(nil, nil, nil)
	require.ErrorIs(t, err, builder.ErrConstructFailed)
	_, err = builder.BuildDAG(nil, nil)
	require.ErrorIs(t, err, builder.ErrConstructFailed)
	require.ErrorIs(t, err, dag.ErrMalformedGraph)
}

// TestIDSchemes checks label generators.
func TestIDSchemes(t *testing.T) {
	require.Equal(t, "7", builder.DefaultIDFn(7))
	require.Equal(t, "AB", builder.ExcelColumnIDFn(27))
	require.Equal(t, "v3", builder.SymbolNumberIDFn("v")(3))
	require.Panics(t, func() { builder.ExcelColumnIDFn(-1) })
	require.Panics(t, func() { builder.ConstantWeightFn(0) })
}
