package matcher

import (
	"math"
	"sort"

	"github.com/katalvlaran/dagmatch/dag"
)

// cand is one still-possible (query, model) pair with its current weight.
type cand struct {
	q, m dag.NodeID
	w    float64
}

// SolutionSet is an immutable search node: the pair committed at this step,
// a link to the parent holding the earlier commits, and the re-weighted
// candidates of every uncommitted node.
//
// Children never copy or mutate their parent; the parent's candidate list is
// read once to derive the child's own list.
type SolutionSet struct {
	parent *SolutionSet
	last   cand
	depth  int

	// rem holds every remaining pair with non-zero weight.
	rem []cand
	// cands is the policy's reassignment of rem, sorted for branching.
	cands []cand

	partial  float64
	estimate float64

	seq   uint64
	index int // heap position, -1 when not queued
}

// PartialSimilarity is the sum of committed weights.
func (s *SolutionSet) PartialSimilarity() float64 { return s.partial }

// TotalSimilarityEstimate is partial plus the optimistic remainder.
func (s *SolutionSet) TotalSimilarityEstimate() float64 { return s.estimate }

// TotalSimilarity is the value realized by this set's commits.
func (s *SolutionSet) TotalSimilarity() float64 { return s.partial }

// Len returns the number of committed pairs.
func (s *SolutionSet) Len() int { return s.depth }

// Remaining returns the number of still-possible pairs.
func (s *SolutionSet) Remaining() int { return len(s.rem) }

// pairs walks the parent chain and returns the committed pairs, newest first.
func (s *SolutionSet) pairs() []cand {
	out := make([]cand, 0, s.depth)
	for cur := s; cur != nil && cur.depth > 0; cur = cur.parent {
		out = append(out, cur.last)
	}

	return out
}

// space is the immutable context shared by every Solution Set of one search.
type space struct {
	q, m *dag.DAG
	pen  Penalties
}

// less orders candidates by weight desc, then query DFS index, then model DFS index.
func (sp *space) less(a, b cand) bool {
	if a.w != b.w {
		return a.w > b.w
	}
	if qa, qb := sp.q.Node(a.q).DFSIndex, sp.q.Node(b.q).DFSIndex; qa != qb {
		return qa < qb
	}

	return sp.m.Node(a.m).DFSIndex < sp.m.Node(b.m).DFSIndex
}

func (sp *space) sort(cs []cand) {
	sort.Slice(cs, func(i, j int) bool { return sp.less(cs[i], cs[j]) })
}

// penalty returns the factor applied to x after committing c. A relation
// present on either side must be present on the other.
func (sp *space) penalty(c, x cand) float64 {
	rq := sp.q.Relation(c.q, x.q)
	rm := sp.m.Relation(c.m, x.m)
	if rq == dag.Unrelated {
		if rm == dag.Unrelated {
			return 1
		}
		pen, _ := sp.pen.of(rm)

		return pen
	}
	pen, sigma := sp.pen.of(rq)
	if rm != rq {
		return pen
	}
	diff := float64((sp.q.Node(x.q).Level - sp.q.Node(c.q).Level) - (sp.m.Node(x.m).Level - sp.m.Node(c.m).Level))
	if diff == 0 || sigma == 0 {
		return 1
	}

	return pen + (1-pen)*math.Exp(-diff*diff/(2*sigma*sigma))
}

// of returns the break penalty and decay width for a relation.
func (p Penalties) of(r dag.Relation) (pen, sigma float64) {
	switch r {
	case dag.Ancestor:
		return p.BreakAncestor, p.SigmaAncestor
	case dag.Descendant:
		return p.BreakDescendant, p.SigmaDescendant
	default:
		return p.BreakSibling, p.SigmaSibling
	}
}

// derive removes c's row and column from rem and re-weights the rest.
func (sp *space) derive(rem []cand, c cand) []cand {
	out := make([]cand, 0, len(rem))
	for _, x := range rem {
		if x.q == c.q || x.m == c.m {
			continue
		}
		w := x.w * sp.penalty(c, x)
		if w <= 0 {
			continue
		}
		out = append(out, cand{q: x.q, m: x.m, w: w})
	}

	return out
}
