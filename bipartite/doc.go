// Package bipartite implements maximum-weight bipartite matching with the
// Hungarian (Kuhn–Munkres) algorithm.
//
// Both the pairwise matcher (re-solving the remaining candidate assignment
// after every commit) and the retrieval engine (resolving accumulated votes
// into one score per candidate graph) rely on it.
//
//   - MaxWeight solves a dense, possibly rectangular weight matrix.
//   - MaxWeightEdges solves a sparse edge list; parallel edges collapse to
//     their maximum weight, so multigraph input is accepted.
//
// Weights must be finite and non-negative. Zero weight means "no edge": such
// pairs never appear in the result, so the result is a maximum-weight
// matching rather than a perfect assignment.
//
// Complexity: O(n²·m) time and O(n·m) memory for n = min(rows, cols),
// m = max(rows, cols).
//
// Errors:
//
//	ErrNegativeWeight    - a weight is negative, NaN or infinite.
//	ErrDimensionMismatch - rows of a dense matrix differ in length.
//	ErrVertexOutOfRange  - an edge endpoint lies outside [0,nLeft) × [0,nRight).
package bipartite
