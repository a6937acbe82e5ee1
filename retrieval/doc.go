// Package retrieval ranks the graphs of a reference database against a
// query DAG by signature voting.
//
// Every query node with a non-empty TSV looks up nearby signatures in a
// sigindex.Index (range query when a radius is set, k-NN otherwise). Each
// hit of a compatible type casts a vote for the hit's graph:
//
//	vote = ((1-w)·‖tsv_q‖/mass_q + w·‖tsv_m‖/mass_m) / (1 + ‖tsv_q - tsv_m‖)
//
// where mass is the graph's total TSV sum and w balances query-side against
// model-side normalization. Votes gather in one VoteList per candidate
// graph, keyed by database offset. A list resolves to a score either by
// maximum-weight bipartite matching over its (query node, model node)
// edges, so that no node is counted twice, or by a naive sum that can
// overcount. Scores below minSimilarity are dropped and the rest are sorted
// by score descending, then offset ascending.
//
// Optionally the best candidates are re-scored with the pairwise matcher.
//
// Engine ties a refdb file, a persisted signature store and the index
// together, and can hot-swap them when the database file changes.
package retrieval
