// Package bipartite - Kuhn-Munkres (Hungarian) maximum-weight matching.
//
// MaxWeight and MaxWeightEdges reduce to one dense solve on cost = -weight.
//
// Rationale (succinct):
//  1. Rectangular instances are transposed so the smaller side plays rows;
//     every row is then assigned and the dummy-free formulation stays exact.
//  2. Shortest augmenting paths with row and column potentials: each row
//     insertion costs O(m) relaxations per visited column.
//  3. Assignments of weight 0 are dropped, so absent edges never appear in
//     a Matching.
//  4. Sparse input is compacted to the touched vertices before densifying;
//     parallel edges keep their maximum weight.
//
// Complexity:
//   - Time: O(n²·m) for n = min(rows, cols), m = max(rows, cols).
//   - Memory: O(n + m) besides the weight lookup.
//
// Determinism:
//   - Columns are scanned in ascending order and ties keep the first column
//     found; pairs are returned sorted by left vertex.

package bipartite

import (
	"fmt"
	"math"
	"sort"
)

// MaxWeight returns a maximum-weight matching of the dense rows×cols matrix w.
func MaxWeight(w [][]float64) (Matching, error) {
	rows := len(w)
	if rows == 0 {
		return Matching{}, nil
	}
	cols := len(w[0])
	for i, row := range w {
		if len(row) != cols {
			return Matching{}, fmt.Errorf("bipartite: row %d has %d columns, want %d: %w", i, len(row), cols, ErrDimensionMismatch)
		}
		for j, x := range row {
			if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
				return Matching{}, fmt.Errorf("bipartite: w[%d][%d]=%g: %w", i, j, x, ErrNegativeWeight)
			}
		}
	}
	if cols == 0 {
		return Matching{}, nil
	}

	return solve(rows, cols, func(i, j int) float64 { return w[i][j] }), nil
}

// MaxWeightEdges returns a maximum-weight matching of a sparse instance with
// nLeft left and nRight right vertices. Parallel edges keep their maximum.
func MaxWeightEdges(nLeft, nRight int, edges []Edge) (Matching, error) {
	var (
		lIdx = make(map[int]int)
		rIdx = make(map[int]int)
		lIDs []int
		rIDs []int
	)
	for _, e := range edges {
		if e.Left < 0 || e.Left >= nLeft || e.Right < 0 || e.Right >= nRight {
			return Matching{}, fmt.Errorf("bipartite: edge (%d,%d): %w", e.Left, e.Right, ErrVertexOutOfRange)
		}
		if e.Weight < 0 || math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return Matching{}, fmt.Errorf("bipartite: edge (%d,%d) weight %g: %w", e.Left, e.Right, e.Weight, ErrNegativeWeight)
		}
		if _, ok := lIdx[e.Left]; !ok {
			lIdx[e.Left] = len(lIDs)
			lIDs = append(lIDs, e.Left)
		}
		if _, ok := rIdx[e.Right]; !ok {
			rIdx[e.Right] = len(rIDs)
			rIDs = append(rIDs, e.Right)
		}
	}
	if len(lIDs) == 0 {
		return Matching{}, nil
	}

	// Compact dense matrix over the touched vertices only.
	dense := make([]float64, len(lIDs)*len(rIDs))
	nc := len(rIDs)
	for _, e := range edges {
		k := lIdx[e.Left]*nc + rIdx[e.Right]
		if e.Weight > dense[k] {
			dense[k] = e.Weight
		}
	}
	m := solve(len(lIDs), nc, func(i, j int) float64 { return dense[i*nc+j] })
	for i := range m.Pairs {
		m.Pairs[i].Left = lIDs[m.Pairs[i].Left]
		m.Pairs[i].Right = rIDs[m.Pairs[i].Right]
	}
	sort.Slice(m.Pairs, func(i, j int) bool { return m.Pairs[i].Left < m.Pairs[j].Left })

	return m, nil
}

// solve runs Kuhn–Munkres with potentials on cost = −weight. The smaller side
// plays the row role so every row is assigned; zero-weight assignments are
// dropped from the result.
func solve(rows, cols int, at func(i, j int) float64) Matching {
	transposed := rows > cols
	n, m := rows, cols
	cost := func(i, j int) float64 { return -at(i, j) }
	if transposed {
		n, m = cols, rows
		cost = func(i, j int) float64 { return -at(j, i) }
	}

	var (
		inf  = math.Inf(1)
		u    = make([]float64, n+1)
		v    = make([]float64, m+1)
		p    = make([]int, m+1) // p[j]: row assigned to column j (1-based, 0 = free)
		way  = make([]int, m+1)
		minv = make([]float64, m+1)
		used = make([]bool, m+1)
	)
	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = inf
			used[j] = false
		}
		for {
			used[j0] = true
			i0, delta, j1 := p[j0], inf, 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		// Augment along the alternating path.
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	var out Matching
	for j := 1; j <= m; j++ {
		if p[j] == 0 {
			continue
		}
		l, r := p[j]-1, j-1
		if transposed {
			l, r = r, l
		}
		w := at(l, r)
		if w <= 0 {
			continue
		}
		out.Pairs = append(out.Pairs, Pair{Left: l, Right: r, Weight: w})
		out.Total += w
	}
	sort.Slice(out.Pairs, func(i, j int) bool { return out.Pairs[i].Left < out.Pairs[j].Left })

	return out
}
