// Package matcher computes a one-to-one node correspondence between two
// attributed DAGs and a normalized similarity score in [0,1].
//
// The search is a best-first branch-and-bound over Solution Sets. A Solution
// Set holds the committed (query, model) pairs plus the penalized weights of
// every still-possible pair, and two bounds:
//
//   - PartialSimilarity: the sum of committed weights (a lower bound);
//   - TotalSimilarityEstimate: partial plus an optimistic value for the
//     uncommitted remainder (an upper bound; penalties only ever shrink
//     weights, so the bound is admissible).
//
// Search loop:
//  1. Pop the frontier entry with the highest estimate (ties: earlier first).
//     Prune it when estimate ≤ best.partial + Eps.
//  2. Walk the policy's branch candidates in decreasing weight, stopping at
//     weight 0 or after MaxBranchesPerExpansion children.
//  3. Commit each candidate into a child: the committed row and column are
//     removed, the remaining pairs are re-weighted by relation-preservation
//     penalties and the policy reassigns the remainder (bipartite re-solve or
//     non-zero reassignment) to obtain the child's estimate.
//  4. A child whose partial is ≥ the best partial becomes the new best; the
//     most recent child wins ties.
//  5. Non-terminal, non-pruned children are pushed. When the frontier holds
//     MaxFrontierSize entries the remaining children are dropped and the
//     result is flagged Truncated.
//  6. The first pushed child is expanded immediately (depth-first dive)
//     before the next global pop, which yields a strong incumbent early.
//
// Policies (Options.Algorithm) only vary steps 2–4:
//
//	Optimal     - bipartite re-solve; branch over every matching edge.
//	Greedy      - bipartite re-solve; branch over the heaviest edge only.
//	Topological - non-zero reassignment; branch over the candidates of the
//	              uncommitted query node with the lowest DFS index.
//	Adaptive    - bipartite re-solve; branch only over edges within
//	              AmbiguityMargin of the heaviest.
//
// Penalties: after committing (q, m), a remaining pair (q', m') keeps its
// weight when q' is unrelated to q. When q' relates to q the way m' relates
// to m (ancestor, descendant or sibling) the weight is multiplied by
//
//	pen + (1−pen)·exp(−diff² / 2σ²),  diff = Δlevel(q,q') − Δlevel(m,m')
//
// (1 when diff = 0 or σ = 0); otherwise it is multiplied by the break penalty
// pen of the query-side relation. Pairs dropping to 0 disappear.
//
// Score: Similarity = best.PartialSimilarity / N where
// N = |matched| + Σsal(query) + Σsal(model) − Σ_matched (sal(q)+sal(m)),
// so unmatched salient parts lower the score.
//
// Complexity: exponential in the worst case; each expansion costs one
// O(k³) bipartite solve per child for the re-solving policies, k = number
// of remaining candidate rows/columns.
//
// Concurrency: a single Match call is sequential. A Matcher holds no mutable
// state and may serve concurrent Match calls.
//
// Errors:
//
//	ErrNilGraph           - query or model is nil.
//	ErrUnknownAlgorithm   - unrecognized algorithm name.
//	ErrUnknownSimilarity  - unrecognized similarity function name.
package matcher
