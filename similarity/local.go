package similarity

import (
	"math"

	"github.com/katalvlaran/dagmatch/dag"
)

// Local compares intrinsic node attributes.
//
// Similarity = TSVWeight·tsvSim + (1−TSVWeight)·attrSim when the type tags
// agree and attrSim > 0, and 0 otherwise.
type Local struct {
	// TSVWeight balances signature against attribute similarity, in [0,1].
	TSVWeight float64
}

// NewLocal returns a Local measurer with the default TSV weight.
func NewLocal() Local { return Local{TSVWeight: DefaultTSVWeight} }

// Similarity implements Measurer.
func (l Local) Similarity(a *dag.DAG, u dag.NodeID, b *dag.DAG, v dag.NodeID) float64 {
	na, nb := a.Node(u), b.Node(v)
	if na.Attr.Type != nb.Attr.Type {
		return 0
	}
	as := AttributeSimilarity(na.Attr, nb.Attr)
	if as <= 0 {
		return 0
	}
	w := clamp01(l.TSVWeight)

	return clamp01(as + w*(TSVSimilarity(na.TSV, nb.TSV)-as))
}

// AttributeSimilarity multiplies the extent ratio by the radius-profile similarity.
func AttributeSimilarity(x, y dag.Attributes) float64 {
	return Ratio(x.Extent, y.Extent) * ProfileSimilarity(x.Radius, y.Radius)
}

// Ratio returns min/max of two non-negative values, 1 when both are zero.
func Ratio(x, y float64) float64 {
	hi := math.Max(x, y)
	if hi == 0 {
		return 1
	}

	return math.Min(x, y) / hi
}

// ProfileSimilarity compares two sampled functions after resampling them to a
// common length: 1 − Σ|p−q| / Σ max(p,q). Empty or all-zero pairs score 1.
func ProfileSimilarity(p, q []float64) float64 {
	if len(p) == 0 && len(q) == 0 {
		return 1
	}
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	p, q = resample(p, n), resample(q, n)

	var diff, total float64
	for i := 0; i < n; i++ {
		diff += math.Abs(p[i] - q[i])
		total += math.Max(p[i], q[i])
	}
	if total == 0 {
		return 1
	}

	return clamp01(1 - diff/total)
}

// resample linearly interpolates xs onto n equally spaced samples.
// An empty input resamples to zeros.
func resample(xs []float64, n int) []float64 {
	if len(xs) == n {
		return xs
	}
	out := make([]float64, n)
	switch len(xs) {
	case 0:
		return out
	case 1:
		for i := range out {
			out[i] = xs[0]
		}

		return out
	}
	if n == 1 {
		out[0] = xs[0]

		return out
	}
	scale := float64(len(xs)-1) / float64(n-1)
	for i := range out {
		pos := float64(i) * scale
		lo := int(math.Floor(pos))
		if lo >= len(xs)-1 {
			out[i] = xs[len(xs)-1]
			continue
		}
		f := pos - float64(lo)
		out[i] = xs[lo]*(1-f) + xs[lo+1]*f
	}

	return out
}
