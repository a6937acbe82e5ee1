// SPDX-License-Identifier: MIT
// Package: dagmatch/builder
//
// api.go - public entry point for the builder package.
//
// Design contract:
//   - One orchestrator: BuildDAG(gopts, bopts, cons...). Creates the dag.Builder,
//     resolves cfg, runs cons in order and freezes the result.
//   - Functional options (BuilderOption) resolve into an immutable builderConfig.
//   - Determinism: same inputs/options/seed and constructor order ⇒ identical DAGs.

package builder

import (
	"fmt"

	"github.com/katalvlaran/dagmatch/dag"
)

// Constructor appends a shape to b using the resolved builderConfig.
// Constructors validate parameters first and return sentinel errors.
type Constructor func(b *dag.Builder, cfg builderConfig) error

// BuildDAG creates a dag.Builder with gopts, resolves bopts, applies every
// constructor in order and returns the frozen DAG.
//
// Errors:
//   - constructor sentinels (ErrTooFewVertices, ErrNeedRandSource, ...) wrapped with "BuildDAG: %w";
//   - ErrConstructFailed wrapping the dag error when the result cannot be frozen.
func BuildDAG(gopts []dag.Option, bopts []BuilderOption, cons ...Constructor) (*dag.DAG, error) {
	b := dag.NewBuilder(gopts...)
	cfg := newBuilderConfig(bopts...)
	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildDAG: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(b, cfg); err != nil {
			return nil, fmt.Errorf("BuildDAG: %w", err)
		}
	}
	g, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("BuildDAG: %w: %w", ErrConstructFailed, err)
	}

	return g, nil
}

// addPart appends one node at the given depth using the configured label,
// extent and radius generators.
func addPart(b *dag.Builder, cfg builderConfig, depth int) dag.NodeID {
	idx := b.Len()
	extent := cfg.extentFn(cfg.rng, idx, depth)
	radius := make([]float64, cfg.radiusSamples)
	for i := range radius {
		// Linear taper from extent/4 down to extent/8.
		radius[i] = extent / 4 * (1 - 0.5*float64(i)/float64(cfg.radiusSamples))
	}

	return b.AddNode(cfg.idFn(idx), dag.Attributes{Extent: extent, Radius: radius, Type: cfg.nodeType})
}

// link adds parent→child with a configured weight.
func link(b *dag.Builder, cfg builderConfig, parent, child dag.NodeID) {
	b.AddEdge(parent, child, cfg.weightFn(cfg.rng))
}

// anchor returns the composite root and the depth at which a new shape's top
// node starts. ok is false for the first constructor.
func anchor(b *dag.Builder) (root dag.NodeID, depth int, ok bool) {
	if b.Len() == 0 {
		return 0, 0, false
	}

	return 0, 1, true
}

// top adds a shape's first node, hanging it under the composite root when one exists.
func top(b *dag.Builder, cfg builderConfig) (dag.NodeID, int) {
	root, depth, ok := anchor(b)
	v := addPart(b, cfg, depth)
	if ok {
		link(b, cfg, root, v)
	}

	return v, depth
}
