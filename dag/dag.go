package dag

import "math"

// DAG is a frozen, validated graph produced by Builder.Build.
//
// Nodes live in an arena indexed by NodeID; adjacency lists hold indices, so
// copying a DAG value is never needed and pointers to it may be shared freely
// between goroutines.
type DAG struct {
	id    string
	class string

	nodes    []Node
	edges    []Edge
	children [][]NodeID
	childW   [][]float64
	parents  [][]NodeID
	byLabel  map[string]NodeID
	root     NodeID
	preorder []NodeID

	// rel[u*n+v] is the relation of v with respect to u.
	rel []Relation

	tsvNorm  []float64
	totalTSV float64
	maxTSV   int
}

// ID returns the graph identifier given at build time.
func (g *DAG) ID() string { return g.id }

// Class returns the graph's type tag.
func (g *DAG) Class() string { return g.class }

// Len returns the number of nodes.
func (g *DAG) Len() int { return len(g.nodes) }

// Root returns the unique root node.
func (g *DAG) Root() NodeID { return g.root }

// Node returns node v. The TSV and Radius slices are shared and must not be modified.
func (g *DAG) Node(v NodeID) Node { return g.nodes[v] }

// Nodes returns all nodes in arena order.
func (g *DAG) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)

	return out
}

// Edges returns all edges in insertion order.
func (g *DAG) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)

	return out
}

// Children returns the children of v in edge insertion order (shared, read-only).
func (g *DAG) Children(v NodeID) []NodeID { return g.children[v] }

// Parents returns the parents of v (shared, read-only).
func (g *DAG) Parents(v NodeID) []NodeID { return g.parents[v] }

// EdgeWeight returns the weight of the edge u→v.
func (g *DAG) EdgeWeight(u, v NodeID) (float64, bool) {
	for i, c := range g.children[u] {
		if c == v {
			return g.childW[u][i], true
		}
	}

	return 0, false
}

// Lookup resolves a node label.
func (g *DAG) Lookup(label string) (NodeID, bool) {
	v, ok := g.byLabel[label]

	return v, ok
}

// Preorder returns node ids in DFS index order (shared, read-only).
func (g *DAG) Preorder() []NodeID { return g.preorder }

// Relation reports how v relates to u.
//
// Ancestor wins over Sibling: a node reachable from a parent of u that is also
// an ancestor of u is reported as Ancestor.
func (g *DAG) Relation(u, v NodeID) Relation {
	return g.rel[int(u)*len(g.nodes)+int(v)]
}

// TSVNorm returns the Euclidean norm of v's TSV.
func (g *DAG) TSVNorm(v NodeID) float64 { return g.tsvNorm[v] }

// TotalTSVSum returns the sum of TSV norms over all nodes (structural mass).
func (g *DAG) TotalTSVSum() float64 { return g.totalTSV }

// MaxTSVDimension returns the length of the longest TSV in the graph.
func (g *DAG) MaxTSVDimension() int { return g.maxTSV }

// Saliency returns min(1, Extent/param) for node v, or 1 when param <= 0.
func (g *DAG) Saliency(v NodeID, param float64) float64 {
	if param <= 0 {
		return 1
	}

	return math.Min(1, g.nodes[v].Attr.Extent/param)
}

// TotalSaliency sums Saliency over all nodes.
func (g *DAG) TotalSaliency(param float64) float64 {
	var s float64
	for i := range g.nodes {
		s += g.Saliency(NodeID(i), param)
	}

	return s
}
