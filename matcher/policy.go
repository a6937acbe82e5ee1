package matcher

import (
	"math"

	"github.com/katalvlaran/dagmatch/bipartite"
	"github.com/katalvlaran/dagmatch/dag"
)

// policy varies how remaining pairs are reassigned and which ones are branched on.
type policy interface {
	// reassign returns branching candidates for rem and an optimistic completion value.
	reassign(sp *space, rem []cand) ([]cand, float64)
	// branches returns the candidates of s to commit, in order.
	branches(s *SolutionSet) []cand
}

func newPolicy(o Options) policy {
	switch o.Algorithm {
	case Greedy:
		return greedyPolicy{}
	case Topological:
		return topologicalPolicy{}
	case Adaptive:
		return adaptivePolicy{margin: o.AmbiguityMargin}
	default:
		return optimalPolicy{}
	}
}

// mwbm reassigns rem one-to-one with a maximum-weight bipartite matching.
func mwbm(sp *space, rem []cand) ([]cand, float64) {
	if len(rem) == 0 {
		return nil, 0
	}
	edges := make([]bipartite.Edge, len(rem))
	for i, c := range rem {
		edges[i] = bipartite.Edge{Left: int(c.q), Right: int(c.m), Weight: c.w}
	}
	res, err := bipartite.MaxWeightEdges(sp.q.Len(), sp.m.Len(), edges)
	if err != nil {
		// Weights are clamped to [0,1] upstream; fall back to the weaker bound.
		return nonZero(sp, rem)
	}
	out := make([]cand, len(res.Pairs))
	for i, p := range res.Pairs {
		out[i] = cand{q: dag.NodeID(p.Left), m: dag.NodeID(p.Right), w: p.Weight}
	}
	sp.sort(out)

	return out, res.Total
}

// nonZero keeps every remaining pair and bounds the completion by the smaller
// of the row-maxima and column-maxima sums.
func nonZero(sp *space, rem []cand) ([]cand, float64) {
	if len(rem) == 0 {
		return nil, 0
	}
	rowMax := make(map[int]float64)
	colMax := make(map[int]float64)
	for _, c := range rem {
		rowMax[int(c.q)] = math.Max(rowMax[int(c.q)], c.w)
		colMax[int(c.m)] = math.Max(colMax[int(c.m)], c.w)
	}
	var rs, cs float64
	for _, w := range rowMax {
		rs += w
	}
	for _, w := range colMax {
		cs += w
	}
	out := append([]cand(nil), rem...)
	sp.sort(out)

	return out, math.Min(rs, cs)
}

type optimalPolicy struct{}

func (optimalPolicy) reassign(sp *space, rem []cand) ([]cand, float64) { return mwbm(sp, rem) }
func (optimalPolicy) branches(s *SolutionSet) []cand                    { return s.cands }

type greedyPolicy struct{}

func (greedyPolicy) reassign(sp *space, rem []cand) ([]cand, float64) { return mwbm(sp, rem) }
func (greedyPolicy) branches(s *SolutionSet) []cand {
	if len(s.cands) == 0 {
		return nil
	}

	return s.cands[:1]
}

type adaptivePolicy struct{ margin float64 }

func (adaptivePolicy) reassign(sp *space, rem []cand) ([]cand, float64) { return mwbm(sp, rem) }
func (p adaptivePolicy) branches(s *SolutionSet) []cand {
	if len(s.cands) == 0 {
		return nil
	}
	cut := s.cands[0].w - p.margin
	n := 1
	for n < len(s.cands) && s.cands[n].w >= cut {
		n++
	}

	return s.cands[:n]
}

type topologicalPolicy struct{}

func (topologicalPolicy) reassign(sp *space, rem []cand) ([]cand, float64) {
	out, bound := nonZero(sp, rem)
	if len(out) == 0 {
		return out, bound
	}
	// Keep only the candidates of the earliest query node, by DFS index.
	first := out[0].q
	for _, c := range out[1:] {
		if sp.q.Node(c.q).DFSIndex < sp.q.Node(first).DFSIndex {
			first = c.q
		}
	}
	sel := out[:0]
	for _, c := range out {
		if c.q == first {
			sel = append(sel, c)
		}
	}

	return sel, bound
}
func (topologicalPolicy) branches(s *SolutionSet) []cand { return s.cands }
