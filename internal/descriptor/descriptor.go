// Package descriptor extracts local keypoint descriptors from images.
// Keypoint detection and descriptor computation are performed by an
// external Detector; this package owns image loading, normalization
// and the extraction contract.
package descriptor

import (
	"context"
	"image"
)

// Dim is the descriptor vector dimension produced by the detector.
const Dim = 128

// Descriptor is a fixed-dimension feature vector describing the visual
// appearance of one local image keypoint.
type Descriptor []float32

// Collection is an unordered set of descriptors extracted from one image.
// It may be empty when no keypoints were detected.
type Collection []Descriptor

// Keypoint is a distinctive local image location found by a detector.
type Keypoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	Angle    float64 `json:"angle"`
	Response float64 `json:"response"`
}

// Detector finds keypoints in a normalized grayscale image and computes
// one fixed-dimension descriptor per keypoint.
type Detector interface {
	Detect(ctx context.Context, img *image.Gray) ([]Keypoint, error)
	Compute(ctx context.Context, img *image.Gray, keypoints []Keypoint) (Collection, error)
}
