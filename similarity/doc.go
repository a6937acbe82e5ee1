// Package similarity provides the node-pairwise similarity functions used by
// the pairwise matcher.
//
// A Measurer maps a (query node, model node) pair to a score in [0,1]. Two
// strategies are available:
//
//   - Local compares intrinsic attributes only: type tag, extent, radius
//     profile and topological signature. It is symmetric.
//   - Contextual scales the local score by how well the two neighborhoods
//     agree (parent extent and the distribution of child extents). The
//     query side's neighborhood is the reference, so the score is not
//     symmetric in general.
//
// Both return 0 when the type tags differ; incompatibility is never an error.
// Both are non-increasing in attribute distance.
package similarity
