// Package dag defines the attributed, rooted, directed acyclic graph used to
// describe a decomposed shape, together with every per-node metric the
// matcher and the retrieval engine depend on.
//
// A DAG is assembled with a Builder and frozen by Builder.Build. Build runs a
// single validation and derivation pass:
//
//   - exactly one root (in-degree 0) must exist, every node must be reachable
//     from it and no directed cycle may exist;
//   - a depth-first traversal from the root assigns every node its DFS index
//     (preorder rank, children visited in edge insertion order);
//   - levels are longest-path depths from the root (root level 0);
//   - subtree cost of v is Cost(v) plus the subtree costs of its children;
//   - ancestor / descendant / sibling relations are tabulated for all pairs;
//   - the topological signature vector (TSV) of every node is computed from
//     the spectra of its children's subtrees.
//
// After Build a DAG is read-only and safe for concurrent readers.
//
// # TSV
//
// For a node v with children c1..cd the i-th TSV entry is the eigen-sum of
// the subgraph induced by {v} ∪ subtree(ci): the sum of the outdeg(ci)+1
// largest |eigenvalues| of its symmetric weighted adjacency matrix. Entries are
// sorted in descending order. Leaves carry an empty TSV. Vectors of different
// length are compared as if the shorter one were zero-padded.
//
// Errors:
//
//	ErrMalformedGraph    - umbrella kind; every error below wraps it.
//	ErrNoRoot            - graph is empty or every node has a parent.
//	ErrMultipleRoots     - more than one node has in-degree 0.
//	ErrCycle             - a directed cycle is reachable from the root.
//	ErrUnreachable       - a node cannot be reached from the root.
//	ErrMissingAttributes - a node carries a negative or non-finite attribute.
//	ErrUnknownNode       - an edge endpoint does not exist.
//	ErrSelfLoop          - an edge connects a node to itself.
//	ErrDuplicateEdge     - the same parent→child edge was added twice.
//	ErrDuplicateLabel    - two nodes share one label.
package dag
