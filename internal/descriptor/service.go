package descriptor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

const defaultServiceURL = "http://localhost:8000"

// Service is a Detector backed by a keypoint descriptor server. The
// normalized image is uploaded as a PNG and the server responds with
// JSON keypoints and descriptor vectors.
type Service struct {
	baseURL string
	dim     int
	client  *http.Client
}

// NewService creates a new descriptor service client.
func NewService(baseURL string, dim int) *Service {
	if baseURL == "" {
		baseURL = defaultServiceURL
	}
	if dim <= 0 {
		dim = Dim
	}
	return &Service{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		dim:     dim,
		client:  &http.Client{},
	}
}

// detectResponse represents the response from the detect endpoint
type detectResponse struct {
	Keypoints []Keypoint `json:"keypoints"`
}

// computeResponse represents the response from the compute endpoint
type computeResponse struct {
	Dim         int         `json:"dim"`
	Descriptors [][]float32 `json:"descriptors"`
}

// Detect uploads the image and returns the keypoints the server found.
func (s *Service) Detect(ctx context.Context, img *image.Gray) ([]Keypoint, error) {
	body, err := s.postImage(ctx, "/detect", img, nil)
	if err != nil {
		return nil, err
	}

	var resp detectResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return resp.Keypoints, nil
}

// Compute uploads the image together with its keypoints and returns one
// descriptor per keypoint. Descriptors with an unexpected dimension are
// rejected.
func (s *Service) Compute(ctx context.Context, img *image.Gray, keypoints []Keypoint) (Collection, error) {
	body, err := s.postImage(ctx, "/compute", img, keypoints)
	if err != nil {
		return nil, err
	}

	var resp computeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	descriptors := make(Collection, 0, len(resp.Descriptors))
	for i, vec := range resp.Descriptors {
		if len(vec) != s.dim {
			return nil, fmt.Errorf("descriptor %d has dimension %d, want %d", i, len(vec), s.dim)
		}
		descriptors = append(descriptors, Descriptor(vec))
	}

	return descriptors, nil
}

// postImage constructs a multipart form with the PNG-encoded image and
// an optional keypoints part, and posts it to the given endpoint.
func (s *Service) postImage(ctx context.Context, endpoint string, img *image.Gray, keypoints []Keypoint) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", "image.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if err := png.Encode(part, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	if keypoints != nil {
		field, err := writer.CreateFormField("keypoints")
		if err != nil {
			return nil, fmt.Errorf("failed to create keypoints field: %w", err)
		}
		if err := json.NewEncoder(field).Encode(keypoints); err != nil {
			return nil, fmt.Errorf("failed to encode keypoints: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}
