package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kozaktomas/imgmatch/internal/catalog"
	"github.com/kozaktomas/imgmatch/internal/matcher"
)

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// CatalogEntry describes one persisted descriptor collection.
type CatalogEntry struct {
	Name        string `json:"name"`
	Descriptors int    `json:"descriptors"`
}

// CatalogResponse is the response of the catalog listing endpoint.
type CatalogResponse struct {
	Entries []CatalogEntry `json:"entries"`
	Count   int            `json:"count"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	paths, err := catalog.List(s.catalogDir)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read catalog")
		return
	}

	entries := make([]CatalogEntry, 0, len(paths))
	for _, path := range paths {
		descriptors, err := catalog.Load(path)
		if err != nil {
			// Corrupt entries are omitted from the listing, matching
			// the matcher's per-entry skip contract.
			continue
		}
		entries = append(entries, CatalogEntry{
			Name:        strings.TrimSuffix(filepath.Base(path), catalog.FileExt),
			Descriptors: len(descriptors),
		})
	}

	respondJSON(w, http.StatusOK, CatalogResponse{Entries: entries, Count: len(entries)})
}

// MatchResponse is the response of the match endpoint. Results are
// sorted by score, descending.
type MatchResponse struct {
	Threshold float64         `json:"threshold"`
	Results   []matcher.Match `json:"results"`
	Count     int             `json:"count"`
	Skipped   int             `json:"skipped,omitempty"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing image upload")
		return
	}
	defer file.Close()

	threshold := matcher.DefaultThreshold
	if s.config != nil {
		threshold = s.config.Matcher.Threshold
	}
	if v := r.URL.Query().Get("threshold"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil || t < 0 {
			respondError(w, http.StatusBadRequest, "invalid threshold")
			return
		}
		threshold = t
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	// The extractor reads from disk, so spool the upload to a temp file.
	tmp, err := os.CreateTemp("", "imgmatch-query-*")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	if err := tmp.Close(); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	m := matcher.New(s.extractor, threshold)
	scores, err := m.Match(r.Context(), tmp.Name(), s.catalogDir)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("match failed: %v", err))
		return
	}

	var results []matcher.Match
	for scores.Next() {
		results = append(results, scores.Match())
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	respondJSON(w, http.StatusOK, MatchResponse{
		Threshold: threshold,
		Results:   results,
		Count:     len(results),
		Skipped:   len(scores.Skipped()),
	})
}
