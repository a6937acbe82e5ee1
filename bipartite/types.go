package bipartite

import "errors"

// Sentinel errors.
var (
	ErrNegativeWeight    = errors.New("bipartite: negative or non-finite weight")
	ErrDimensionMismatch = errors.New("bipartite: ragged weight matrix")
	ErrVertexOutOfRange  = errors.New("bipartite: vertex out of range")
)

// Pair is one matched (left, right) couple with its weight.
type Pair struct {
	Left   int
	Right  int
	Weight float64
}

// Edge is one weighted left–right connection of a sparse instance.
type Edge struct {
	Left   int
	Right  int
	Weight float64
}

// Matching is the solver output. Pairs are sorted by Left.
type Matching struct {
	Pairs []Pair
	Total float64
}
