package matcher

import "math"

// EuclideanDistance computes the Euclidean distance between two vectors
// in raw descriptor space. Mismatched or empty inputs return the maximum
// distance so they never count as a match.
func EuclideanDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.MaxFloat64
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}

	return math.Sqrt(sum)
}
