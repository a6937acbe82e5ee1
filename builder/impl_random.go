// SPDX-License-Identifier: MIT
// Package: dagmatch/builder
//
// impl_random.go - RandomTree(n) and RandomDAG(n, p).
//
// Contract:
//   - n ≥ 1 (else ErrTooFewVertices); cfg.rng required (else ErrNeedRandSource).
//   - Node i > 0 picks its tree parent uniformly among the earlier nodes of the shape.
//   - RandomDAG adds a forward edge i→j (i < j, not already linked) with
//     probability p; forward edges cannot close a cycle.
//   - Deterministic for a fixed seed.

package builder

import "github.com/katalvlaran/dagmatch/dag"

const (
	methodRandomTree = "RandomTree"
	methodRandomDAG  = "RandomDAG"
)

// RandomTree returns a Constructor that appends a random tree of n parts.
func RandomTree(n int) Constructor {
	return func(b *dag.Builder, cfg builderConfig) error {
		_, err := randomTree(b, cfg, n, methodRandomTree)

		return err
	}
}

// RandomDAG returns a Constructor that appends a random tree of n parts plus
// forward cross edges drawn with probability p.
func RandomDAG(n int, p float64) Constructor {
	return func(b *dag.Builder, cfg builderConfig) error {
		if p < 0 || p > 1 {
			return builderErrorf(methodRandomDAG, ErrInvalidProbability, "p=%g", p)
		}
		ids, err := randomTree(b, cfg, n, methodRandomDAG)
		if err != nil {
			return err
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				if cfg.rng.Float64() < p && !ids.linked(i, j) {
					link(b, cfg, ids[i].id, ids[j].id)
					ids.mark(i, j)
				}
			}
		}

		return nil
	}
}

// shapeNode remembers the tree parent of each generated node.
type shapeNode struct {
	id     dag.NodeID
	parent int
	extra  map[int]struct{}
}

type shape []shapeNode

func (s shape) linked(i, j int) bool {
	if s[j].parent == i {
		return true
	}
	_, ok := s[i].extra[j]

	return ok
}

func (s shape) mark(i, j int) {
	if s[i].extra == nil {
		s[i].extra = make(map[int]struct{})
	}
	s[i].extra[j] = struct{}{}
}

func randomTree(b *dag.Builder, cfg builderConfig, n int, method string) (shape, error) {
	if n < 1 {
		return nil, builderErrorf(method, ErrTooFewVertices, "n=%d < 1", n)
	}
	if cfg.rng == nil {
		return nil, builderErrorf(method, ErrNeedRandSource, "n=%d", n)
	}
	first, base := top(b, cfg)
	out := make(shape, 1, n)
	out[0] = shapeNode{id: first, parent: -1}
	depth := []int{base}
	for i := 1; i < n; i++ {
		p := cfg.rng.Intn(i)
		d := depth[p] + 1
		v := addPart(b, cfg, d)
		link(b, cfg, out[p].id, v)
		out = append(out, shapeNode{id: v, parent: p})
		depth = append(depth, d)
	}

	return out, nil
}
