package descriptor

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"
)

func grayImage(width, height int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, width, height))
}

func TestServiceDetect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detect" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile("image"); err != nil {
			http.Error(w, "missing image", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"keypoints": [{"x": 10, "y": 20, "size": 3.5}, {"x": 30, "y": 40, "size": 2.0}]}`)
	}))
	defer server.Close()

	service := NewService(server.URL, Dim)

	keypoints, err := service.Detect(context.Background(), grayImage(100, 100))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(keypoints) != 2 {
		t.Fatalf("got %d keypoints; want 2", len(keypoints))
	}
	if keypoints[0].X != 10 || keypoints[0].Y != 20 {
		t.Errorf("keypoint 0 = %+v; want x=10 y=20", keypoints[0])
	}
}

func TestServiceCompute(t *testing.T) {
	vec := make([]float32, Dim)
	vec[0] = 0.5

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/compute" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		// The keypoints travel as a JSON form field.
		var keypoints []Keypoint
		if err := json.Unmarshal([]byte(r.FormValue("keypoints")), &keypoints); err != nil {
			http.Error(w, "bad keypoints", http.StatusBadRequest)
			return
		}
		if len(keypoints) != 1 {
			http.Error(w, "wrong keypoint count", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"dim":         Dim,
			"descriptors": [][]float32{vec},
		})
	}))
	defer server.Close()

	service := NewService(server.URL, Dim)

	descriptors, err := service.Compute(context.Background(), grayImage(100, 100), []Keypoint{{X: 1, Y: 1}})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(descriptors) != 1 {
		t.Fatalf("got %d descriptors; want 1", len(descriptors))
	}
	if len(descriptors[0]) != Dim {
		t.Errorf("descriptor dimension = %d; want %d", len(descriptors[0]), Dim)
	}
	if descriptors[0][0] != 0.5 {
		t.Errorf("descriptor[0][0] = %f; want 0.5", descriptors[0][0])
	}
}

func TestServiceComputeDimensionMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"dim":         64,
			"descriptors": [][]float32{make([]float32, 64)},
		})
	}))
	defer server.Close()

	service := NewService(server.URL, Dim)

	_, err := service.Compute(context.Background(), grayImage(100, 100), []Keypoint{{X: 1, Y: 1}})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestServiceErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "detector overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	service := NewService(server.URL, Dim)

	_, err := service.Detect(context.Background(), grayImage(100, 100))
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
