package similarity

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// pad returns a and b extended with zeros to a common length.
func pad(a, b []float64) ([]float64, []float64) {
	switch {
	case len(a) == len(b):
		return a, b
	case len(a) < len(b):
		x := make([]float64, len(b))
		copy(x, a)

		return x, b
	default:
		y := make([]float64, len(a))
		copy(y, b)

		return a, y
	}
}

// TSVDistance is the Euclidean distance between two signatures, the shorter
// one zero-padded.
func TSVDistance(a, b []float64) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	x, y := pad(a, b)

	return floats.Distance(x, y, 2)
}

// TSVSimilarity returns 1 − ‖a−b‖ / max(‖a‖, ‖b‖), 1 for two zero vectors and
// 0 once the difference exceeds the larger norm.
func TSVSimilarity(a, b []float64) float64 {
	na, nb := norm(a), norm(b)
	m := math.Max(na, nb)
	if m == 0 {
		return 1
	}
	d := TSVDistance(a, b)
	if d > m {
		return 0
	}

	return 1 - d/m
}

func norm(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return floats.Norm(x, 2)
}
