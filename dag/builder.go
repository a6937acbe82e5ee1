package dag

import (
	"fmt"
	"math"
	"strconv"
)

// Builder accumulates raw nodes and edges and freezes them into a DAG.
//
// AddNode and AddEdge never fail on the spot; the first error is remembered
// and returned by Build, so construction code stays linear.
// A Builder is not safe for concurrent use.
type Builder struct {
	opts   options
	nodes  []Node
	edges  []Edge
	labels map[string]NodeID
	err    error
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{labels: make(map[string]NodeID)}
	for _, opt := range opts {
		opt(&b.opts)
	}

	return b
}

// AddNode appends a node and returns its id. An empty label becomes the
// decimal node index.
func (b *Builder) AddNode(label string, attr Attributes) NodeID {
	id := NodeID(len(b.nodes))
	if label == "" {
		label = strconv.Itoa(int(id))
	}
	if _, dup := b.labels[label]; dup {
		b.fail(fmt.Errorf("AddNode(%q): %w", label, ErrDuplicateLabel))
	}
	b.labels[label] = id
	attr.Radius = append([]float64(nil), attr.Radius...)
	b.nodes = append(b.nodes, Node{ID: id, Label: label, Attr: attr})

	return id
}

// AddEdge records the edge from→to. A non-positive weight means DefaultEdgeWeight.
func (b *Builder) AddEdge(from, to NodeID, weight float64) {
	n := NodeID(len(b.nodes))
	switch {
	case from < 0 || from >= n || to < 0 || to >= n:
		b.fail(fmt.Errorf("AddEdge(%d→%d): %w", from, to, ErrUnknownNode))

		return
	case from == to:
		b.fail(fmt.Errorf("AddEdge(%d→%d): %w", from, to, ErrSelfLoop))

		return
	}
	if weight <= 0 || math.IsNaN(weight) {
		weight = DefaultEdgeWeight
	}
	b.edges = append(b.edges, Edge{From: from, To: to, Weight: weight})
}

// Connect records an edge between two labelled nodes.
func (b *Builder) Connect(from, to string, weight float64) {
	u, ok1 := b.labels[from]
	v, ok2 := b.labels[to]
	if !ok1 || !ok2 {
		b.fail(fmt.Errorf("Connect(%q→%q): %w", from, to, ErrUnknownNode))

		return
	}
	b.AddEdge(u, v, weight)
}

// Len returns the number of nodes added so far.
func (b *Builder) Len() int { return len(b.nodes) }

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build validates the accumulated graph and computes every derived metric.
//
// Errors: any of the ErrMalformedGraph causes listed in the package doc.
// Complexity: O(V² + E) for relations plus one symmetric eigen-decomposition
// per edge for the TSVs.
func (b *Builder) Build() (*DAG, error) {
	if b.err != nil {
		return nil, fmt.Errorf("dag: %w", b.err)
	}
	if len(b.nodes) == 0 {
		return nil, fmt.Errorf("dag: empty graph: %w", ErrNoRoot)
	}

	g := &DAG{
		id:      b.opts.id,
		class:   b.opts.class,
		nodes:   make([]Node, len(b.nodes)),
		edges:   append([]Edge(nil), b.edges...),
		byLabel: make(map[string]NodeID, len(b.nodes)),
	}
	copy(g.nodes, b.nodes)
	for label, id := range b.labels {
		g.byLabel[label] = id
	}

	if err := g.validateAttributes(); err != nil {
		return nil, fmt.Errorf("dag: %w", err)
	}
	if err := g.link(); err != nil {
		return nil, fmt.Errorf("dag: %w", err)
	}
	if err := g.derive(); err != nil {
		return nil, fmt.Errorf("dag: %w", err)
	}
	g.computeTSVs(b.opts.maxTSVDm)

	return g, nil
}

// validateAttributes rejects negative or non-finite attribute values.
func (g *DAG) validateAttributes() error {
	bad := func(x float64) bool { return x < 0 || math.IsNaN(x) || math.IsInf(x, 0) }
	for i := range g.nodes {
		a := &g.nodes[i].Attr
		if bad(a.Extent) || bad(a.Cost) {
			return fmt.Errorf("node %q: %w", g.nodes[i].Label, ErrMissingAttributes)
		}
		for _, r := range a.Radius {
			if bad(r) {
				return fmt.Errorf("node %q radius: %w", g.nodes[i].Label, ErrMissingAttributes)
			}
		}
		if a.Cost == 0 {
			a.Cost = DefaultNodeCost
		}
	}

	return nil
}

// link builds adjacency lists and locates the unique root.
func (g *DAG) link() error {
	n := len(g.nodes)
	g.children = make([][]NodeID, n)
	g.childW = make([][]float64, n)
	g.parents = make([][]NodeID, n)
	seen := make(map[[2]NodeID]struct{}, len(g.edges))
	for _, e := range g.edges {
		key := [2]NodeID{e.From, e.To}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("edge %q→%q: %w", g.nodes[e.From].Label, g.nodes[e.To].Label, ErrDuplicateEdge)
		}
		seen[key] = struct{}{}
		g.children[e.From] = append(g.children[e.From], e.To)
		g.childW[e.From] = append(g.childW[e.From], e.Weight)
		g.parents[e.To] = append(g.parents[e.To], e.From)
	}

	roots := 0
	for i := 0; i < n; i++ {
		if len(g.parents[i]) == 0 {
			if roots == 0 {
				g.root = NodeID(i)
			}
			roots++
		}
	}
	switch {
	case roots == 0:
		return ErrNoRoot
	case roots > 1:
		return fmt.Errorf("%d roots: %w", roots, ErrMultipleRoots)
	}

	return nil
}
