package matcher

import (
	"math"
	"testing"
)

func TestEuclideanDistance(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"unit apart", []float32{0, 0}, []float32{1, 0}, 1},
		{"pythagorean", []float32{0, 0}, []float32{3, 4}, 5},
		{"negative components", []float32{-1, -1}, []float32{2, 3}, 5},
		{"single dimension", []float32{0.5}, []float32{0.25}, 0.25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EuclideanDistance(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-6 {
				t.Errorf("EuclideanDistance(%v, %v) = %f; want %f", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestEuclideanDistanceInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
	}{
		{"mismatched lengths", []float32{1, 2}, []float32{1, 2, 3}},
		{"both empty", nil, nil},
		{"one empty", []float32{1}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := EuclideanDistance(tc.a, tc.b); got != math.MaxFloat64 {
				t.Errorf("EuclideanDistance(%v, %v) = %f; want MaxFloat64", tc.a, tc.b, got)
			}
		})
	}
}

func TestEuclideanDistanceSymmetry(t *testing.T) {
	a := []float32{0.1, -0.7, 3.2, 0}
	b := []float32{-2, 0.5, 1, 1}

	if EuclideanDistance(a, b) != EuclideanDistance(b, a) {
		t.Error("distance must be symmetric")
	}
}
