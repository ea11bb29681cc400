package descriptor

import (
	"context"
	"fmt"
)

// DefaultSize is the default resize target for the longest image side.
// Smaller values speed up extraction, larger values improve accuracy.
const DefaultSize = 300

// Extractor turns an image file into a collection of keypoint
// descriptors. Construct one with the settings you'd like to use and
// pass it explicitly; it carries no hidden global state.
type Extractor struct {
	detector Detector
	size     int
}

// NewExtractor creates an extractor using the given detector. Images are
// resized so their longest side equals size before detection; a
// non-positive size falls back to DefaultSize.
func NewExtractor(detector Detector, size int) *Extractor {
	if size <= 0 {
		size = DefaultSize
	}
	return &Extractor{
		detector: detector,
		size:     size,
	}
}

// Size returns the configured resize target.
func (e *Extractor) Size() int {
	return e.size
}

// Extract loads the image at path, normalizes it and returns one
// descriptor per detected keypoint. An image with zero detected
// keypoints yields an empty collection, not an error.
func (e *Extractor) Extract(ctx context.Context, path string) (Collection, error) {
	img, err := loadGray(path, e.size)
	if err != nil {
		return nil, err
	}

	keypoints, err := e.detector.Detect(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("keypoint detection failed: %w", err)
	}
	if len(keypoints) == 0 {
		return Collection{}, nil
	}

	descriptors, err := e.detector.Compute(ctx, img, keypoints)
	if err != nil {
		return nil, fmt.Errorf("descriptor computation failed: %w", err)
	}

	return descriptors, nil
}
