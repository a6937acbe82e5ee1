package similarity

import (
	"sort"

	"github.com/katalvlaran/dagmatch/dag"
)

// Contextual refines Local with neighborhood agreement:
//
//	sim = local · ((1−ContextWeight) + ContextWeight·ctx)
//
// where ctx averages the parent-extent ratio and the similarity of the sorted
// child-extent profiles. Two roots have parent agreement 1; a root against a
// non-root has 0.
type Contextual struct {
	Local         Local
	ContextWeight float64
}

// NewContextual returns a Contextual measurer with default weights.
func NewContextual() Contextual {
	return Contextual{Local: NewLocal(), ContextWeight: DefaultContextWeight}
}

// Similarity implements Measurer.
func (c Contextual) Similarity(a *dag.DAG, u dag.NodeID, b *dag.DAG, v dag.NodeID) float64 {
	local := c.Local.Similarity(a, u, b, v)
	if local == 0 {
		return 0
	}
	beta := clamp01(c.ContextWeight)
	ctx := 0.5*parentAgreement(a, u, b, v) + 0.5*childAgreement(a, u, b, v)

	return clamp01(local * (1 - beta*(1-ctx)))
}

func parentAgreement(a *dag.DAG, u dag.NodeID, b *dag.DAG, v dag.NodeID) float64 {
	pa, pb := a.Parents(u), b.Parents(v)
	switch {
	case len(pa) == 0 && len(pb) == 0:
		return 1
	case len(pa) == 0 || len(pb) == 0:
		return 0
	}

	return Ratio(meanExtent(a, pa), meanExtent(b, pb))
}

// childAgreement compares child extents sorted in descending order. The
// query-side child count fixes the comparison length; surplus model
// children are ignored, missing ones count as zero.
func childAgreement(a *dag.DAG, u dag.NodeID, b *dag.DAG, v dag.NodeID) float64 {
	ea := sortedExtents(a, a.Children(u))
	eb := sortedExtents(b, b.Children(v))
	if len(ea) == 0 {
		if len(eb) == 0 {
			return 1
		}

		return 0
	}
	if len(eb) > len(ea) {
		eb = eb[:len(ea)]
	} else if len(eb) < len(ea) {
		eb = append(eb, make([]float64, len(ea)-len(eb))...)
	}

	return ProfileSimilarity(ea, eb)
}

func sortedExtents(g *dag.DAG, ids []dag.NodeID) []float64 {
	out := make([]float64, len(ids))
	for i, id := range ids {
		out[i] = g.Node(id).Attr.Extent
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))

	return out
}

func meanExtent(g *dag.DAG, ids []dag.NodeID) float64 {
	var s float64
	for _, id := range ids {
		s += g.Node(id).Attr.Extent
	}

	return s / float64(len(ids))
}
