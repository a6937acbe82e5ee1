package retrieval

import (
	"github.com/katalvlaran/dagmatch/bipartite"
	"github.com/katalvlaran/dagmatch/dag"
)

// Vote is evidence that query node Query corresponds to model node Model.
type Vote struct {
	Query  dag.NodeID
	Model  dag.NodeID
	Weight float64
}

// VoteList accumulates the votes for one candidate graph.
type VoteList struct {
	votes []Vote
	sum   float64
}

// Add appends v. Non-positive weights are ignored.
func (l *VoteList) Add(v Vote) {
	if !(v.Weight > 0) {
		return
	}
	l.votes = append(l.votes, v)
	l.sum += v.Weight
}

// Len reports the number of votes.
func (l *VoteList) Len() int { return len(l.votes) }

// Sum is the naive total of all vote weights.
func (l *VoteList) Sum() float64 { return l.sum }

// Votes returns the recorded votes (shared, read-only).
func (l *VoteList) Votes() []Vote { return l.votes }

// Resolve returns the weight of a maximum-weight matching over the votes;
// each query node and each model node contributes at most once.
func (l *VoteList) Resolve() float64 {
	if len(l.votes) == 0 {
		return 0
	}

	left := make(map[dag.NodeID]int)
	right := make(map[dag.NodeID]int)
	edges := make([]bipartite.Edge, 0, len(l.votes))
	for _, v := range l.votes {
		li, ok := left[v.Query]
		if !ok {
			li = len(left)
			left[v.Query] = li
		}
		ri, ok := right[v.Model]
		if !ok {
			ri = len(right)
			right[v.Model] = ri
		}
		edges = append(edges, bipartite.Edge{Left: li, Right: ri, Weight: v.Weight})
	}

	m, err := bipartite.MaxWeightEdges(len(left), len(right), edges)
	if err != nil {
		// Unreachable for positive, in-range edges.
		var best float64
		for _, v := range l.votes {
			best = max(best, v.Weight)
		}
		return best
	}

	return m.Total
}
