package builder

import (
	"fmt"
	"math/rand"
)

// DefaultEdgeWeight is the weight used when no WeightFn is configured.
const DefaultEdgeWeight float64 = 1

// WeightFn produces an edge weight from an optional RNG.
type WeightFn func(rng *rand.Rand) float64

// DefaultWeightFn always returns DefaultEdgeWeight.
func DefaultWeightFn(_ *rand.Rand) float64 { return DefaultEdgeWeight }

// ConstantWeightFn always yields value. Panics if value <= 0.
func ConstantWeightFn(value float64) WeightFn {
	if value <= 0 {
		panic(fmt.Sprintf("ConstantWeightFn: value must be > 0, got %g", value))
	}

	return func(_ *rand.Rand) float64 { return value }
}

// UniformWeightFn samples uniformly in [min, max). Without an RNG it yields
// DefaultEdgeWeight. Panics unless 0 < min ≤ max.
func UniformWeightFn(min, max float64) WeightFn {
	if min <= 0 || max < min {
		panic(fmt.Sprintf("UniformWeightFn: require 0 < min ≤ max, got min=%g, max=%g", min, max))
	}

	return func(rng *rand.Rand) float64 {
		if rng == nil {
			return DefaultEdgeWeight
		}
		if max == min {
			return min
		}

		return min + rng.Float64()*(max-min)
	}
}

// WithUniformWeight sets weights ∼ U[min,max).
func WithUniformWeight(min, max float64) BuilderOption {
	return WithWeightFn(UniformWeightFn(min, max))
}

// ExtentFn returns the extent of the node with global index idx at the given depth.
type ExtentFn func(rng *rand.Rand, idx, depth int) float64

// DefaultExtentFn gives node idx the extent idx+1, so no two parts look alike.
func DefaultExtentFn(_ *rand.Rand, idx, _ int) float64 { return float64(idx + 1) }

// TaperedExtentFn halves the extent at every level below the root and adds
// up to jitter·extent of uniform noise when an RNG is configured.
func TaperedExtentFn(base, jitter float64) ExtentFn {
	if base <= 0 || jitter < 0 {
		panic(fmt.Sprintf("TaperedExtentFn: require base > 0, jitter ≥ 0, got %g, %g", base, jitter))
	}

	return func(rng *rand.Rand, _, depth int) float64 {
		e := base / float64(int(1)<<uint(depth))
		if rng != nil && jitter > 0 {
			e += e * jitter * rng.Float64()
		}

		return e
	}
}
