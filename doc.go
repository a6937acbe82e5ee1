// Package dagmatch matches and retrieves rooted shape DAGs.
//
// A shape is decomposed into parts arranged as a rooted, directed, acyclic
// graph. Every part carries geometric attributes (extent, a sampled radius
// profile, a cost and a type tag), and every node gets a topological
// signature vector (TSV) computed from the eigenvalues of its subtrees.
//
// Two workloads are supported:
//
//	pairwise  - matcher.Match finds the best node correspondence between a
//	            query and a model DAG by branch-and-bound over partial
//	            solutions and reports a similarity in [0,1].
//	retrieval - retrieval.Retriever ranks every DAG of a reference database
//	            against a query by TSV nearest-neighbor voting.
//
// Packages:
//
//	dag/        - graph model, builder, derived orderings, relations and TSVs
//	builder/    - synthetic shape constructors (paths, stars, trees, random)
//	similarity/ - local and contextual node similarity measurers
//	bipartite/  - maximum-weight bipartite matching (Hungarian)
//	matcher/    - branch-and-bound pairwise matcher and its policies
//	sigindex/   - static kd-tree over TSVs with badger persistence
//	refdb/      - append-only reference database file, reader and watcher
//	retrieval/  - signature voting, vote resolution and the hot-reload engine
//	config/     - YAML configuration with validation
//
// The dagmatch command (cmd/dagmatch) exposes gen, info, index, match and
// query on top of these packages.
package dagmatch
