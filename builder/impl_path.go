// SPDX-License-Identifier: MIT
// Package: dagmatch/builder
//
// impl_path.go - Path(n): a chain top→p1→…→p(n-1).
//
// Contract:
//   - n ≥ 1 (else ErrTooFewVertices).
//   - Edges are emitted top-down in index order.

package builder

import "github.com/katalvlaran/dagmatch/dag"

const (
	methodPath   = "Path"
	minPathNodes = 1
)

// Path returns a Constructor that appends a chain of n parts.
func Path(n int) Constructor {
	return func(b *dag.Builder, cfg builderConfig) error {
		if n < minPathNodes {
			return builderErrorf(methodPath, ErrTooFewVertices, "n=%d < min=%d", n, minPathNodes)
		}
		prev, depth := top(b, cfg)
		for i := 1; i < n; i++ {
			v := addPart(b, cfg, depth+i)
			link(b, cfg, prev, v)
			prev = v
		}

		return nil
	}
}
