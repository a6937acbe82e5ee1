// Package dag - derived per-node data, computed once at Build.
//
// derive runs a single depth-first pass from the root, then fills levels,
// subtree costs and the relation table from its postorder.
//
// Rationale (succinct):
//  1. White/gray/black coloring: a gray child closes a cycle, a white node
//     left after the pass is unreachable.
//  2. Reverse postorder is a topological order. Level is the longest path
//     from the root, relaxed along it.
//  3. Descendant sets are bitsets merged children-before-parents; siblings
//     of u are the union of its parents' descendant sets.
//
// Complexity:
//   - Traversal and levels: O(V + E).
//   - Descendant sets: O(V·E/64). Relation table: O(V²) time and memory.

package dag

import "fmt"

// Traversal colors.
const (
	white = iota
	gray
	black
)

// walker carries the state of the single depth-first pass from the root.
type walker struct {
	g     *DAG
	color []uint8
	next  int
	post  []NodeID
}

// traverse visits v, assigns its preorder rank and detects back edges.
func (w *walker) traverse(v NodeID) error {
	w.color[v] = gray
	w.g.nodes[v].DFSIndex = w.next
	w.g.preorder = append(w.g.preorder, v)
	w.next++
	for _, c := range w.g.children[v] {
		switch w.color[c] {
		case gray:
			return fmt.Errorf("edge %q→%q closes a cycle: %w", w.g.nodes[v].Label, w.g.nodes[c].Label, ErrCycle)
		case white:
			if err := w.traverse(c); err != nil {
				return err
			}
		}
	}
	w.color[v] = black
	w.post = append(w.post, v)

	return nil
}

// derive assigns DFS indices, levels, subtree costs and pairwise relations.
func (g *DAG) derive() error {
	n := len(g.nodes)
	w := &walker{g: g, color: make([]uint8, n), post: make([]NodeID, 0, n)}
	g.preorder = make([]NodeID, 0, n)
	if err := w.traverse(g.root); err != nil {
		return err
	}
	if w.next != n {
		for i := range w.color {
			if w.color[i] == white {
				return fmt.Errorf("node %q: %w", g.nodes[i].Label, ErrUnreachable)
			}
		}
	}

	// Reverse postorder is a topological order.
	topo := make([]NodeID, n)
	for i, v := range w.post {
		topo[n-1-i] = v
	}

	// Longest-path levels.
	for _, u := range topo {
		for _, c := range g.children[u] {
			if l := g.nodes[u].Level + 1; l > g.nodes[c].Level {
				g.nodes[c].Level = l
			}
		}
	}

	// Subtree costs and descendant sets, children before parents.
	desc := make([]bitset, n)
	for i := n - 1; i >= 0; i-- {
		u := topo[i]
		desc[u] = newBitset(n)
		sc := g.nodes[u].Attr.Cost
		for _, c := range g.children[u] {
			sc += g.nodes[c].SubtreeCost
			desc[u].set(int(c))
			desc[u].or(desc[c])
		}
		g.nodes[u].SubtreeCost = sc
	}
	g.relate(desc)

	return nil
}

// relate fills the relation table from the descendant sets.
func (g *DAG) relate(desc []bitset) {
	n := len(g.nodes)
	g.rel = make([]Relation, n*n)
	sib := newBitset(n)
	for u := 0; u < n; u++ {
		for i := range sib {
			sib[i] = 0
		}
		for _, p := range g.parents[u] {
			sib.or(desc[p])
		}
		row := g.rel[u*n : (u+1)*n]
		for v := 0; v < n; v++ {
			switch {
			case v == u:
				row[v] = Unrelated
			case desc[v].has(u):
				row[v] = Ancestor
			case desc[u].has(v):
				row[v] = Descendant
			case sib.has(v):
				row[v] = Sibling
			}
		}
	}
}

// descendants returns v's strict descendants in preorder-independent id order.
func (g *DAG) descendants(v NodeID) []NodeID {
	n := len(g.nodes)
	out := make([]NodeID, 0)
	for u := 0; u < n; u++ {
		if g.rel[int(v)*n+u] == Descendant {
			out = append(out, NodeID(u))
		}
	}

	return out
}
