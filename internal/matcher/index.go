package matcher

import (
	"github.com/coder/hnsw"
	"github.com/kozaktomas/imgmatch/internal/descriptor"
)

// HNSW index parameters for 128-dim keypoint descriptors.
const (
	// hnswMaxNeighbors (M) is the maximum number of neighbors per node.
	// Higher values improve recall but increase memory and build time.
	hnswMaxNeighbors = 16
)

// refIndex is a 1-nearest-neighbor index over the query image's own
// descriptors. The query side is the reference set; catalog vectors are
// probed against it, not the other way around.
type refIndex struct {
	graph *hnsw.Graph[int]
}

// newRefIndex builds the reference index from the query's descriptors.
// An empty collection yields an empty index; every probe then misses.
func newRefIndex(descriptors descriptor.Collection) *refIndex {
	g := hnsw.NewGraph[int]()
	g.M = hnswMaxNeighbors
	g.Ml = 1.0 / float64(hnswMaxNeighbors) // Standard HNSW formula
	g.Distance = hnsw.EuclideanDistance

	added := 0
	for i, d := range descriptors {
		if len(d) == 0 {
			continue
		}
		g.Add(hnsw.MakeNode(i, []float32(d)))
		added++
	}

	if added == 0 {
		return &refIndex{}
	}
	return &refIndex{graph: g}
}

// nearest returns the exact Euclidean distance from v to its closest
// query descriptor. The second return value is false when the index is
// empty and no neighbor exists.
func (ix *refIndex) nearest(v descriptor.Descriptor) (float64, bool) {
	if ix.graph == nil {
		return 0, false
	}

	neighbors := ix.graph.Search([]float32(v), 1)
	if len(neighbors) == 0 {
		return 0, false
	}

	// Recompute the exact distance from the stored vector; the graph's
	// own ranking is approximate.
	return EuclideanDistance([]float32(v), neighbors[0].Value), true
}
