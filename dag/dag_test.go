package dag_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/dagmatch/dag"
)

// BuildSuite covers validation and derived metrics produced by Builder.Build.
type BuildSuite struct {
	suite.Suite
}

func attr(extent float64) dag.Attributes {
	return dag.Attributes{Extent: extent, Type: "limb"}
}

// tree builds r→a, r→b, a→c.
func tree(t *testing.T) *dag.DAG {
	b := dag.NewBuilder(dag.WithID("t"), dag.WithClass("hand"))
	b.AddNode("r", attr(4))
	b.AddNode("a", attr(3))
	b.AddNode("b", attr(2))
	b.AddNode("c", attr(1))
	b.Connect("r", "a", 1)
	b.Connect("r", "b", 1)
	b.Connect("a", "c", 1)
	g, err := b.Build()
	require.NoError(t, err)

	return g
}

func label(t *testing.T, g *dag.DAG, l string) dag.NodeID {
	v, ok := g.Lookup(l)
	require.True(t, ok, "label %q", l)

	return v
}

// TestDFSIndexAndLevels checks preorder ranks in edge insertion order and root level 0.
func (s *BuildSuite) TestDFSIndexAndLevels() {
	g := tree(s.T())
	require.Equal(s.T(), "t", g.ID())
	require.Equal(s.T(), "hand", g.Class())
	want := map[string][2]int{"r": {0, 0}, "a": {1, 1}, "c": {2, 2}, "b": {3, 1}}
	for l, exp := range want {
		n := g.Node(label(s.T(), g, l))
		require.Equal(s.T(), exp[0], n.DFSIndex, "dfs index of %s", l)
		require.Equal(s.T(), exp[1], n.Level, "level of %s", l)
	}
	require.Equal(s.T(), label(s.T(), g, "r"), g.Root())
	require.Len(s.T(), g.Preorder(), 4)
}

// TestLongestPathLevel verifies that a node reachable by paths of different length takes the longer one.
func (s *BuildSuite) TestLongestPathLevel() {
	b := dag.NewBuilder()
	b.AddNode("r", attr(1))
	b.AddNode("a", attr(1))
	b.AddNode("c", attr(1))
	b.Connect("r", "c", 1)
	b.Connect("r", "a", 1)
	b.Connect("a", "c", 1)
	g, err := b.Build()
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, g.Node(label(s.T(), g, "c")).Level)
}

// TestSubtreeCost checks cost aggregation with the default node cost.
func (s *BuildSuite) TestSubtreeCost() {
	g := tree(s.T())
	require.InDelta(s.T(), 4.0, g.Node(g.Root()).SubtreeCost, 1e-12)
	require.InDelta(s.T(), 2.0, g.Node(label(s.T(), g, "a")).SubtreeCost, 1e-12)
	require.InDelta(s.T(), 1.0, g.Node(label(s.T(), g, "c")).SubtreeCost, 1e-12)
}

// TestRelations checks ancestor, descendant and sibling classification.
func (s *BuildSuite) TestRelations() {
	g := tree(s.T())
	r, a, b, c := label(s.T(), g, "r"), label(s.T(), g, "a"), label(s.T(), g, "b"), label(s.T(), g, "c")
	require.Equal(s.T(), dag.Ancestor, g.Relation(c, r))
	require.Equal(s.T(), dag.Descendant, g.Relation(a, c))
	require.Equal(s.T(), dag.Sibling, g.Relation(a, b))
	require.Equal(s.T(), dag.Sibling, g.Relation(b, c), "descendant of a sibling")
	require.Equal(s.T(), dag.Unrelated, g.Relation(c, b))
	require.Equal(s.T(), dag.Unrelated, g.Relation(a, a))
	require.Equal(s.T(), "sibling", dag.Sibling.String())
}

// TestMalformed runs every structural defect through Build.
func (s *BuildSuite) TestMalformed() {
	cases := []struct {
		name string
		make func(b *dag.Builder)
		want error
	}{
		{"empty", func(b *dag.Builder) {}, dag.ErrNoRoot},
		{"two roots", func(b *dag.Builder) {
			b.AddNode("x", attr(1))
			b.AddNode("y", attr(1))
		}, dag.ErrMultipleRoots},
		{"cycle below root", func(b *dag.Builder) {
			b.AddNode("r", attr(1))
			b.AddNode("a", attr(1))
			b.AddNode("b", attr(1))
			b.Connect("r", "a", 1)
			b.Connect("a", "b", 1)
			b.Connect("b", "a", 1)
		}, dag.ErrCycle},
		{"pure cycle", func(b *dag.Builder) {
			b.AddNode("a", attr(1))
			b.AddNode("b", attr(1))
			b.Connect("a", "b", 1)
			b.Connect("b", "a", 1)
		}, dag.ErrNoRoot},
		{"self loop", func(b *dag.Builder) {
			v := b.AddNode("a", attr(1))
			b.AddEdge(v, v, 1)
		}, dag.ErrSelfLoop},
		{"unknown node", func(b *dag.Builder) {
			b.AddNode("a", attr(1))
			b.Connect("a", "zz", 1)
		}, dag.ErrUnknownNode},
		{"duplicate label", func(b *dag.Builder) {
			b.AddNode("a", attr(1))
			b.AddNode("a", attr(1))
		}, dag.ErrDuplicateLabel},
		{"duplicate edge", func(b *dag.Builder) {
			b.AddNode("a", attr(1))
			b.AddNode("b", attr(1))
			b.Connect("a", "b", 1)
			b.Connect("a", "b", 2)
		}, dag.ErrDuplicateEdge},
		{"negative extent", func(b *dag.Builder) {
			b.AddNode("a", attr(-1))
		}, dag.ErrMissingAttributes},
		{"nan radius", func(b *dag.Builder) {
			b.AddNode("a", dag.Attributes{Radius: []float64{1, math.NaN()}})
		}, dag.ErrMissingAttributes},
	}
	for _, tc := range cases {
		b := dag.NewBuilder()
		tc.make(b)
		g, err := b.Build()
		require.Nil(s.T(), g, tc.name)
		require.ErrorIs(s.T(), err, tc.want, tc.name)
		require.ErrorIs(s.T(), err, dag.ErrMalformedGraph, tc.name)
	}
}

// TestDefaults checks label and weight defaults.
func (s *BuildSuite) TestDefaults() {
	b := dag.NewBuilder()
	r := b.AddNode("", attr(1))
	c := b.AddNode("", attr(1))
	b.AddEdge(r, c, 0)
	g, err := b.Build()
	require.NoError(s.T(), err)
	require.Equal(s.T(), "0", g.Node(r).Label)
	w, ok := g.EdgeWeight(r, c)
	require.True(s.T(), ok)
	require.Equal(s.T(), dag.DefaultEdgeWeight, w)
	_, ok = g.EdgeWeight(c, r)
	require.False(s.T(), ok)
}

// TestSaliency checks the clamped extent ratio.
func (s *BuildSuite) TestSaliency() {
	g := tree(s.T())
	require.Equal(s.T(), 1.0, g.Saliency(g.Root(), 0))
	require.Equal(s.T(), 1.0, g.Saliency(g.Root(), 2))
	require.InDelta(s.T(), 0.25, g.Saliency(label(s.T(), g, "c"), 4), 1e-12)
	require.InDelta(s.T(), 1+0.75+0.5+0.25, g.TotalSaliency(4), 1e-12)
}

func TestBuildSuite(t *testing.T) {
	suite.Run(t, new(BuildSuite))
}
