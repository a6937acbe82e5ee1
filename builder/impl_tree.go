// SPDX-License-Identifier: MIT
// Package: dagmatch/builder
//
// impl_tree.go - BinaryTree(depth): a complete binary tree with 2^(depth+1)-1 parts.
//
// Contract:
//   - depth ≥ 0 (else ErrTooFewVertices).
//   - Nodes are created level by level, left to right.

package builder

import "github.com/katalvlaran/dagmatch/dag"

const (
	methodBinaryTree = "BinaryTree"
	maxTreeDepth     = 16
)

// BinaryTree returns a Constructor that appends a complete binary tree.
func BinaryTree(depth int) Constructor {
	return func(b *dag.Builder, cfg builderConfig) error {
		if depth < 0 {
			return builderErrorf(methodBinaryTree, ErrTooFewVertices, "depth=%d < 0", depth)
		}
		if depth > maxTreeDepth {
			return builderErrorf(methodBinaryTree, ErrConstructFailed, "depth=%d > max=%d", depth, maxTreeDepth)
		}
		root, base := top(b, cfg)
		level := []dag.NodeID{root}
		for d := 1; d <= depth; d++ {
			next := make([]dag.NodeID, 0, 2*len(level))
			for _, p := range level {
				for k := 0; k < 2; k++ {
					c := addPart(b, cfg, base+d)
					link(b, cfg, p, c)
					next = append(next, c)
				}
			}
			level = next
		}

		return nil
	}
}
