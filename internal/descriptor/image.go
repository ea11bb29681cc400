package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// ErrEmptyImage is returned for images with zero-sized dimensions.
var ErrEmptyImage = errors.New("image has zero-sized dimensions")

// loadGray reads an image from disk and normalizes it for descriptor
// extraction: scaled so the longer side equals size, then converted to
// single-channel intensity.
func loadGray(path string, size int) (*image.Gray, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return normalize(img, size)
}

// normalize resizes img with a uniform scale factor of size/max(w,h),
// rounding both dimensions to the nearest pixel, and converts the result
// to grayscale.
func normalize(img image.Image, size int) (*image.Gray, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}

	factor := float64(size) / float64(max(width, height))
	newWidth := int(math.Round(float64(width) * factor))
	newHeight := int(math.Round(float64(height) * factor))
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.BiLinear.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	return toGray(resized), nil
}

// toGray converts an image to single-channel intensity.
func toGray(img *image.RGBA) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// ITU-R BT.601 luma formula.
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			if luma > 255 {
				luma = 255
			}
			gray.SetGray(x, y, color.Gray{Y: uint8(luma)})
		}
	}

	return gray
}
