// SPDX-License-Identifier: MIT
// Package: dagmatch/builder
//
// config.go - internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • idFn          = DefaultIDFn        ("0","1","2",...)
//   • rng           = nil                (pure unless seeded)
//   • weightFn      = DefaultWeightFn    (1)
//   • extentFn      = DefaultExtentFn    (idx+1, every part distinct)
//   • radiusSamples = 4
//   • nodeType      = "part"

package builder

import "math/rand"

// builderConfig aggregates all knobs used by constructors.
// It is passed by VALUE to constructors.
type builderConfig struct {
	idFn     IDFn
	rng      *rand.Rand
	weightFn WeightFn
	extentFn ExtentFn

	radiusSamples int
	nodeType      string
}

const (
	defaultRadiusSamples = 4
	defaultNodeType      = "part"
)

// newBuilderConfig applies opts over the defaults, last option wins.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		idFn:          DefaultIDFn,
		weightFn:      DefaultWeightFn,
		extentFn:      DefaultExtentFn,
		radiusSamples: defaultRadiusSamples,
		nodeType:      defaultNodeType,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
