package community

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/vizboard/internal/core/model"
)

func TestLPA_DisconnectedComponents(t *testing.T) {
	// Two triangles with no link between them.
	ns := nodes("1", "2", "3", "4", "5", "6")
	edges := []model.GraphEdge{
		{Source: "1", Target: "2"}, {Source: "2", Target: "3"}, {Source: "3", Target: "1"},
		{Source: "4", Target: "5"}, {Source: "5", Target: "6"}, {Source: "6", Target: "4"},
	}

	detector := NewLabelPropagationDetector()
	communities, err := detector.Detect(ns, edges)
	assert.NoError(t, err)

	assert.Len(t, communities, 2)
	for _, c := range communities {
		assert.Len(t, c, 3)
	}
	// Ordered by smallest member id on equal size.
	assert.Equal(t, "1", communities[0][0].Name)
}

func TestLPA_BridgeNode(t *testing.T) {
	// Two triangles joined by the edge 3-4. Intra-cluster edges outweigh
	// the bridge, so they stay separate.
	ns := nodes("1", "2", "3", "4", "5", "6")
	edges := []model.GraphEdge{
		{Source: "1", Target: "2"}, {Source: "2", Target: "3"}, {Source: "3", Target: "1"},
		{Source: "3", Target: "4"},
		{Source: "4", Target: "5"}, {Source: "5", Target: "6"}, {Source: "6", Target: "4"},
	}

	detector := NewLabelPropagationDetector()
	communities, err := detector.Detect(ns, edges)
	assert.NoError(t, err)

	assert.Len(t, communities, 2)
}

func TestLPA_LargeClique(t *testing.T) {
	ns := nodes("1", "2", "3", "4", "5")
	var edges []model.GraphEdge
	for i := range ns {
		for j := i + 1; j < len(ns); j++ {
			edges = append(edges, model.GraphEdge{
				Source: ns[i].Name,
				Target: ns[j].Name,
			})
		}
	}

	detector := NewLabelPropagationDetector()
	communities, err := detector.Detect(ns, edges)
	assert.NoError(t, err)

	assert.Len(t, communities, 1)
	assert.Len(t, communities[0], 5)
}

func TestLPA_IgnoresSelfLoopsAndUnknownNodes(t *testing.T) {
	ns := nodes("a", "b")
	edges := []model.GraphEdge{
		{Source: "a", Target: "a"},
		{Source: "a", Target: "zzz"},
		{Source: "a", Target: "b"},
	}

	communities, err := NewLabelPropagationDetector().Detect(ns, edges)
	assert.NoError(t, err)
	assert.Len(t, communities, 1)
}

func TestLPA_Empty(t *testing.T) {
	communities, err := NewLabelPropagationDetector().Detect(nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, communities)
}
