package bipartite_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/dagmatch/bipartite"
)

// bruteForce enumerates every injective row→column assignment (including
// leaving rows unmatched) and returns the best total.
func bruteForce(w [][]float64) float64 {
	rows, cols := len(w), len(w[0])
	used := make([]bool, cols)
	var rec func(i int) float64
	rec = func(i int) float64 {
		if i == rows {
			return 0
		}
		best := rec(i + 1) // row i unmatched
		for j := 0; j < cols; j++ {
			if used[j] {
				continue
			}
			used[j] = true
			if s := w[i][j] + rec(i+1); s > best {
				best = s
			}
			used[j] = false
		}

		return best
	}

	return rec(0)
}

// TestMaxWeight_BeatsGreedy checks an instance where picking the heaviest edge first is wrong.
func TestMaxWeight_BeatsGreedy(t *testing.T) {
	m, err := bipartite.MaxWeight([][]float64{
		{3, 2},
		{2, 0},
	})
	require.NoError(t, err)
	require.InDelta(t, 4.0, m.Total, 1e-12)
	require.Equal(t, []bipartite.Pair{{Left: 0, Right: 1, Weight: 2}, {Left: 1, Right: 0, Weight: 2}}, m.Pairs)
}

// TestMaxWeight_Rectangular covers both orientations of a non-square matrix.
func TestMaxWeight_Rectangular(t *testing.T) {
	wide := [][]float64{
		{1, 5, 0},
		{4, 6, 1},
	}
	m, err := bipartite.MaxWeight(wide)
	require.NoError(t, err)
	require.InDelta(t, 9.0, m.Total, 1e-12)

	tall := [][]float64{{1, 4}, {5, 6}, {0, 1}}
	m, err = bipartite.MaxWeight(tall)
	require.NoError(t, err)
	require.InDelta(t, 9.0, m.Total, 1e-12)
	for _, p := range m.Pairs {
		require.Equal(t, tall[p.Left][p.Right], p.Weight)
	}
}

// TestMaxWeight_ZeroEdgesOmitted checks that zero weights never appear as pairs.
func TestMaxWeight_ZeroEdgesOmitted(t *testing.T) {
	m, err := bipartite.MaxWeight([][]float64{{0, 0}, {0, 2}})
	require.NoError(t, err)
	require.Len(t, m.Pairs, 1)
	require.Equal(t, bipartite.Pair{Left: 1, Right: 1, Weight: 2}, m.Pairs[0])

	m, err = bipartite.MaxWeight(nil)
	require.NoError(t, err)
	require.Empty(t, m.Pairs)
}

// TestMaxWeight_Random compares against exhaustive search on small instances.
func TestMaxWeight_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		rows, cols := 1+rng.Intn(5), 1+rng.Intn(5)
		w := make([][]float64, rows)
		for i := range w {
			w[i] = make([]float64, cols)
			for j := range w[i] {
				if rng.Float64() < 0.7 {
					w[i][j] = math.Round(rng.Float64()*100) / 10
				}
			}
		}
		m, err := bipartite.MaxWeight(w)
		require.NoError(t, err)
		require.InDelta(t, bruteForce(w), m.Total, 1e-9, "instance %v", w)

		seenR := map[int]bool{}
		for _, p := range m.Pairs {
			require.False(t, seenR[p.Right], "column matched twice")
			seenR[p.Right] = true
		}
	}
}

// TestMaxWeightEdges_Multigraph keeps the heaviest parallel edge and maps ids back.
func TestMaxWeightEdges_Multigraph(t *testing.T) {
	m, err := bipartite.MaxWeightEdges(10, 10, []bipartite.Edge{
		{Left: 7, Right: 3, Weight: 0.2},
		{Left: 7, Right: 3, Weight: 0.9},
		{Left: 2, Right: 3, Weight: 0.5},
		{Left: 2, Right: 8, Weight: 0.4},
	})
	require.NoError(t, err)
	require.InDelta(t, 1.3, m.Total, 1e-12)
	require.Equal(t, []bipartite.Pair{{Left: 2, Right: 8, Weight: 0.4}, {Left: 7, Right: 3, Weight: 0.9}}, m.Pairs)
}

// TestErrors checks input validation.
func TestErrors(t *testing.T) {
	_, err := bipartite.MaxWeight([][]float64{{1, 2}, {1}})
	require.ErrorIs(t, err, bipartite.ErrDimensionMismatch)
	_, err = bipartite.MaxWeight([][]float64{{-1}})
	require.ErrorIs(t, err, bipartite.ErrNegativeWeight)
	_, err = bipartite.MaxWeight([][]float64{{math.NaN()}})
	require.ErrorIs(t, err, bipartite.ErrNegativeWeight)
	_, err = bipartite.MaxWeightEdges(2, 2, []bipartite.Edge{{Left: 2, Right: 0, Weight: 1}})
	require.ErrorIs(t, err, bipartite.ErrVertexOutOfRange)
}
