// SPDX-License-Identifier: MIT
// Package: dagmatch/builder
//
// impl_star.go - Star(n): one hub with n-1 leaves.
//
// Contract:
//   - n ≥ 2 (else ErrTooFewVertices).
//   - Spokes hub→leaf are emitted in increasing leaf index.

package builder

import "github.com/katalvlaran/dagmatch/dag"

const (
	methodStar   = "Star"
	minStarNodes = 2
)

// Star returns a Constructor that appends a hub with n-1 leaves.
func Star(n int) Constructor {
	return func(b *dag.Builder, cfg builderConfig) error {
		if n < minStarNodes {
			return builderErrorf(methodStar, ErrTooFewVertices, "n=%d < min=%d", n, minStarNodes)
		}
		hub, depth := top(b, cfg)
		for i := 1; i < n; i++ {
			link(b, cfg, hub, addPart(b, cfg, depth+1))
		}

		return nil
	}
}
