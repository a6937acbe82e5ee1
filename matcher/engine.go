// Package matcher - best-first branch-and-bound over Solution Sets.
//
// Matcher.Match searches for the node correspondence between a query and a
// model DAG that maximizes the sum of penalized pair weights.
//
// Rationale (succinct):
//  1. The base similarity matrix is computed once per call, clamped to [0,1];
//     non-positive pairs never enter the search.
//  2. A Solution Set stores only its last committed pair and a parent
//     pointer; the committed chain is recovered by walking parents. Each set
//     owns its remaining, already penalized candidate list.
//  3. Search: pop the highest estimate, branch over the policy's candidates,
//     then dive depth-first into the first child. The incumbent is replaced
//     by every child whose partial is >= the incumbent's, so the most recent
//     of equally good sets wins.
//  4. Pruning: a set is dropped when estimate <= incumbent + Eps. The
//     estimate of the MWBM policies is partial + matching value, which never
//     underestimates what the set can still reach.
//  5. Caps: MaxBranchesPerExpansion bounds children per expansion,
//     MaxFrontierSize bounds the frontier. Only the frontier cap marks the
//     result Truncated. A frontier of one degrades to a single greedy dive.
//
// Complexity:
//   - Worst case exponential in min(|Q|,|M|) for Optimal without caps.
//   - Per expansion: O(|rem|) to derive each child plus the policy's
//     reassignment, O(k³) for a Kuhn-Munkres solve over k = max(|Q|,|M|).
//   - Memory: O(|Q|·|M|) per live Solution Set for its remaining list.
//
// Determinism:
//   - Frontier ties break by insertion sequence, branching order by
//     (weight desc, query DFS index, model DFS index). Identical inputs and
//     options give identical results.

package matcher

import (
	"container/heap"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/katalvlaran/dagmatch/dag"
	"github.com/katalvlaran/dagmatch/similarity"
)

// Matcher runs pairwise matches with a fixed configuration.
type Matcher struct {
	opts     Options
	measurer similarity.Measurer
	pol      policy
	log      *slog.Logger
}

// New resolves opts over DefaultOptions.
func New(opts ...Option) *Matcher {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Eps < 0 {
		o.Eps = 0
	}

	m := &Matcher{opts: o, pol: newPolicy(o), log: o.Logger}
	switch {
	case o.Measurer != nil:
		m.measurer = o.Measurer
	case o.Similarity == ContextualSimilarity:
		m.measurer = similarity.Contextual{
			Local:         similarity.Local{TSVWeight: o.TSVWeight},
			ContextWeight: o.ContextWeight,
		}
	default:
		m.measurer = similarity.Local{TSVWeight: o.TSVWeight}
	}
	if m.log == nil {
		m.log = slog.New(slog.DiscardHandler)
	}

	return m
}

// Options returns the resolved configuration.
func (mt *Matcher) Options() Options { return mt.opts }

// Match is a convenience wrapper around New(opts...).Match.
func Match(query, model *dag.DAG, opts ...Option) (Result, error) {
	return New(opts...).Match(query, model)
}

// engine holds the state of one search.
type engine struct {
	sp       *space
	opts     Options
	pol      policy
	frontier frontier
	best     *SolutionSet
	seq      uint64

	truncated bool
	stats     Stats
}

// Match finds the best correspondence of query against model.
func (mt *Matcher) Match(query, model *dag.DAG) (Result, error) {
	if query == nil || model == nil {
		return Result{}, fmt.Errorf("Match: %w", ErrNilGraph)
	}
	start := time.Now()

	e := &engine{
		sp:   &space{q: query, m: model, pen: mt.opts.Penalties},
		opts: mt.opts,
		pol:  mt.pol,
	}
	root := e.seed(mt.measurer)
	e.best = root
	e.push(root)
	for e.frontier.Len() > 0 {
		s := heap.Pop(&e.frontier).(*SolutionSet)
		e.expand(s)
	}

	res := e.result()
	matchRuns.WithLabelValues(mt.opts.Algorithm.String()).Inc()
	matchExpansions.Add(float64(res.Stats.Expanded))
	if res.Truncated {
		matchTruncated.Inc()
	}
	matchDuration.Observe(time.Since(start).Seconds())
	mt.log.Debug("match finished",
		"query", query.ID(), "model", model.ID(),
		"algorithm", mt.opts.Algorithm.String(),
		"similarity", res.Similarity,
		"expanded", res.Stats.Expanded,
		"truncated", res.Truncated)

	return res, nil
}

// seed builds the empty Solution Set from the base similarity matrix.
func (e *engine) seed(ms similarity.Measurer) *SolutionSet {
	q, m := e.sp.q, e.sp.m
	rem := make([]cand, 0, q.Len()*m.Len())
	for u := 0; u < q.Len(); u++ {
		for v := 0; v < m.Len(); v++ {
			w := ms.Similarity(q, dag.NodeID(u), m, dag.NodeID(v))
			if w > 1 {
				w = 1
			}
			if w > 0 {
				rem = append(rem, cand{q: dag.NodeID(u), m: dag.NodeID(v), w: w})
			}
		}
	}
	root := &SolutionSet{rem: rem, index: -1}
	var bound float64
	root.cands, bound = e.pol.reassign(e.sp, rem)
	root.estimate = bound

	return root
}

// push queues s with the next insertion sequence.
func (e *engine) push(s *SolutionSet) {
	e.seq++
	s.seq = e.seq
	heap.Push(&e.frontier, s)
	if n := e.frontier.Len(); n > e.stats.MaxFrontier {
		e.stats.MaxFrontier = n
	}
}

// commit derives the child of parent that additionally fixes c.
func (e *engine) commit(parent *SolutionSet, c cand) *SolutionSet {
	child := &SolutionSet{
		parent:  parent,
		last:    c,
		depth:   parent.depth + 1,
		rem:     e.sp.derive(parent.rem, c),
		partial: parent.partial + c.w,
		index:   -1,
	}
	var bound float64
	child.cands, bound = e.pol.reassign(e.sp, child.rem)
	child.estimate = child.partial + bound

	return child
}

// pruned reports whether s can no longer beat the incumbent.
func (e *engine) pruned(s *SolutionSet) bool {
	return s.estimate <= e.best.partial+e.opts.Eps
}

// expand branches on s and then dives into its first queued child.
func (e *engine) expand(s *SolutionSet) {
	if e.pruned(s) {
		e.stats.Pruned++

		return
	}
	e.stats.Expanded++

	var (
		first *SolutionSet
		limit = e.opts.MaxBranchesPerExpansion
		maxF  = e.opts.MaxFrontierSize
	)
	for i, c := range e.pol.branches(s) {
		if c.w <= 0 {
			break
		}
		if limit > 0 && i >= limit {
			break
		}
		child := e.commit(s, c)
		e.stats.Generated++
		if child.partial >= e.best.partial {
			e.best = child
		}
		if len(child.cands) == 0 {
			continue
		}
		if e.pruned(child) {
			e.stats.Pruned++
			continue
		}
		if maxF > 0 && e.frontier.Len() >= maxF {
			e.truncated = true
			break
		}
		e.push(child)
		if first == nil {
			first = child
		}
	}

	// Depth-first dive.
	if first != nil && first.index >= 0 {
		heap.Remove(&e.frontier, first.index)
		e.expand(first)
	}
}

// result converts the incumbent into a Result.
func (e *engine) result() Result {
	q, m := e.sp.q, e.sp.m
	param := e.opts.SaliencyParam
	chain := e.best.pairs()

	pairs := make([]Pair, len(chain))
	usedQ := make([]bool, q.Len())
	usedM := make([]bool, m.Len())
	for i, c := range chain {
		pairs[i] = Pair{
			Query:      c.q,
			Model:      c.m,
			QueryLabel: q.Node(c.q).Label,
			ModelLabel: m.Node(c.m).Label,
			Weight:     c.w,
		}
		usedQ[c.q], usedM[c.m] = true, true
	}
	sort.Slice(pairs, func(i, j int) bool {
		return q.Node(pairs[i].Query).DFSIndex < q.Node(pairs[j].Query).DFSIndex
	})

	// N = matched pairs + saliency of every unmatched node.
	norm := float64(len(pairs))
	for v, used := range usedQ {
		if !used {
			norm += q.Saliency(dag.NodeID(v), param)
		}
	}
	for v, used := range usedM {
		if !used {
			norm += m.Saliency(dag.NodeID(v), param)
		}
	}
	res := Result{
		Partial:        e.best.partial,
		Normalization:  norm,
		Correspondence: pairs,
		Truncated:      e.truncated,
		Algorithm:      e.opts.Algorithm,
		Stats:          e.stats,
		Solution:       e.best,
	}
	if norm > 0 {
		res.Similarity = e.best.partial / norm
	}
	if res.Similarity > 1 {
		res.Similarity = 1
	}

	return res
}
