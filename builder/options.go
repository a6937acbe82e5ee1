// SPDX-License-Identifier: MIT
// Package: dagmatch/builder
//
// options.go - functional options for the builder package.
//
// Contract:
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Option constructors panic on meaningless inputs; constructors never do.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.

package builder

import (
	"fmt"
	"math/rand"
)

// BuilderOption customizes constructor behavior.
type BuilderOption func(*builderConfig)

// WithIDScheme sets the label generator. Nil is ignored.
func WithIDScheme(fn IDFn) BuilderOption {
	return func(c *builderConfig) {
		if fn != nil {
			c.idFn = fn
		}
	}
}

// WithRand provides an explicit RNG. Nil is ignored.
func WithRand(r *rand.Rand) BuilderOption {
	return func(c *builderConfig) {
		if r != nil {
			c.rng = r
		}
	}
}

// WithSeed creates a deterministic RNG.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithWeightFn overrides the per-edge weight generator. Panics on nil.
func WithWeightFn(fn WeightFn) BuilderOption {
	if fn == nil {
		panic("WithWeightFn: nil WeightFn")
	}

	return func(c *builderConfig) { c.weightFn = fn }
}

// WithExtentFn overrides the node extent generator. Panics on nil.
func WithExtentFn(fn ExtentFn) BuilderOption {
	if fn == nil {
		panic("WithExtentFn: nil ExtentFn")
	}

	return func(c *builderConfig) { c.extentFn = fn }
}

// WithRadiusSamples sets the radius profile length. Panics if n < 0.
func WithRadiusSamples(n int) BuilderOption {
	if n < 0 {
		panic(fmt.Sprintf("WithRadiusSamples: n must be ≥ 0, got %d", n))
	}

	return func(c *builderConfig) { c.radiusSamples = n }
}

// WithType sets the type tag of every generated node.
func WithType(t string) BuilderOption {
	return func(c *builderConfig) { c.nodeType = t }
}
