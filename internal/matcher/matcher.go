// Package matcher scores catalog entries against a query image by
// accumulating threshold-gated nearest-neighbor distances between each
// entry's descriptors and the query's descriptor set.
package matcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kozaktomas/imgmatch/internal/catalog"
	"github.com/kozaktomas/imgmatch/internal/descriptor"
)

// DefaultThreshold is the distance gate below which a nearest-neighbor
// hit contributes to the score. It is compared against raw
// descriptor-space Euclidean distance; tune it for your detector's
// characteristic scale. Lower values give more differing scores but may
// produce more false negatives.
const DefaultThreshold = 0.1

// Match pairs a catalog entry name with its similarity score. Higher
// means more similar. Scores are not normalized across differing
// collection sizes; they scale with the matched-keypoint count.
type Match struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Matcher scores every entry of a descriptor catalog against a query
// image.
type Matcher struct {
	extractor *descriptor.Extractor
	threshold float64
}

// New creates a matcher using the given extractor and distance
// threshold. A threshold of 0 is legal and makes every entry score 0.
func New(extractor *descriptor.Extractor, threshold float64) *Matcher {
	return &Matcher{
		extractor: extractor,
		threshold: threshold,
	}
}

// Match extracts the query image's descriptors, builds the reference
// index over them and returns a lazy score sequence over the catalog.
// Query extraction errors are returned immediately; there are no partial
// results without a valid query.
func (m *Matcher) Match(ctx context.Context, queryPath, catalogDir string) (*Scores, error) {
	descriptors, err := m.extractor.Extract(ctx, queryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to extract query descriptors: %w", err)
	}

	paths, err := catalog.List(catalogDir)
	if err != nil {
		return nil, err
	}

	return &Scores{
		index:     newRefIndex(descriptors),
		threshold: m.threshold,
		paths:     paths,
	}, nil
}

// Scores is a pull-based sequence of per-entry match scores. It walks
// the catalog once, computes the next score on demand and cannot be
// restarted; abandoning it early is safe. No ranking is performed;
// callers who want ordered results sort the emitted matches themselves.
type Scores struct {
	index     *refIndex
	threshold float64
	paths     []string
	pos       int
	current   Match
	skipped   []string
}

// Next advances to the next catalog entry. Entries that cannot be read
// are skipped and recorded; Next returns false once the catalog is
// exhausted.
func (s *Scores) Next() bool {
	for s.pos < len(s.paths) {
		path := s.paths[s.pos]
		s.pos++

		descriptors, err := catalog.Load(path)
		if err != nil {
			s.skipped = append(s.skipped, path)
			continue
		}

		name := strings.TrimSuffix(filepath.Base(path), catalog.FileExt)
		s.current = Match{Name: name, Score: s.score(descriptors)}
		return true
	}
	return false
}

// Match returns the entry produced by the last successful call to Next.
func (s *Scores) Match() Match {
	return s.current
}

// Skipped returns the catalog entry files that could not be read.
func (s *Scores) Skipped() []string {
	return s.skipped
}

// score accumulates threshold-gated nearest-neighbor contributions for
// one catalog entry: a vector at distance d contributes threshold-d when
// d < threshold and nothing otherwise.
func (s *Scores) score(descriptors descriptor.Collection) float64 {
	var score float64
	for _, v := range descriptors {
		dist, ok := s.index.nearest(v)
		if !ok {
			continue
		}
		if dist < s.threshold {
			score += s.threshold - dist
		}
	}
	return score
}
