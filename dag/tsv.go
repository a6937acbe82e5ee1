package dag

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// computeTSVs fills Node.TSV, the per-node norms and the graph totals.
// maxDim > 0 truncates each vector to its maxDim largest entries.
func (g *DAG) computeTSVs(maxDim int) {
	n := len(g.nodes)
	g.tsvNorm = make([]float64, n)
	for v := 0; v < n; v++ {
		kids := g.children[v]
		if len(kids) == 0 {
			continue
		}
		tsv := make([]float64, len(kids))
		for i, c := range kids {
			tsv[i] = g.eigenSum(NodeID(v), c)
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(tsv)))
		if maxDim > 0 && len(tsv) > maxDim {
			tsv = tsv[:maxDim]
		}
		g.nodes[v].TSV = tsv
		g.tsvNorm[v] = floats.Norm(tsv, 2)
		g.totalTSV += g.tsvNorm[v]
		if len(tsv) > g.maxTSV {
			g.maxTSV = len(tsv)
		}
	}
}

// eigenSum returns the sum of the outdeg(c)+1 largest |eigenvalues| of the
// symmetric adjacency matrix induced by {v} ∪ subtree(c).
func (g *DAG) eigenSum(v, c NodeID) float64 {
	members := append([]NodeID{v, c}, g.descendants(c)...)
	pos := make(map[NodeID]int, len(members))
	for i, m := range members {
		pos[m] = i
	}

	k := len(members)
	a := mat.NewSymDense(k, nil)
	for _, m := range members {
		i := pos[m]
		for j, ch := range g.children[m] {
			if q, ok := pos[ch]; ok {
				a.SetSym(i, q, g.childW[m][j])
			}
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(a, false); !ok {
		return 0
	}
	vals := es.Values(nil)
	for i := range vals {
		vals[i] = math.Abs(vals[i])
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(vals)))

	top := len(g.children[c]) + 1
	if top > len(vals) {
		top = len(vals)
	}

	return floats.Sum(vals[:top])
}
