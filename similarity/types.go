package similarity

import "github.com/katalvlaran/dagmatch/dag"

// Measurer scores the correspondence of node u in a with node v in b.
// Implementations must be safe for concurrent use.
type Measurer interface {
	Similarity(a *dag.DAG, u dag.NodeID, b *dag.DAG, v dag.NodeID) float64
}

// Defaults.
const (
	DefaultTSVWeight     = 0.3
	DefaultContextWeight = 0.5
)

// clamp01 limits x to [0,1].
func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
