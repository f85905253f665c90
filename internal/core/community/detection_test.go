package community

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/vizboard/internal/core/model"
)

func nodes(names ...string) []model.GraphNode {
	out := make([]model.GraphNode, len(names))
	for i, n := range names {
		out[i] = model.GraphNode{ID: int64(i), Name: n}
	}
	return out
}

func TestComponentDetector(t *testing.T) {
	ns := nodes("A", "B", "C", "D")
	edges := []model.GraphEdge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
		// D is isolated
	}

	detector, err := NewDetector("components")
	require.NoError(t, err)
	communities, err := detector.Detect(ns, edges)

	assert.NoError(t, err)
	// D is size 1, so filtered out.
	assert.Len(t, communities, 1)
	assert.Len(t, communities[0], 3)

	commMap := make(map[string]bool)
	for _, n := range communities[0] {
		commMap[n.Name] = true
	}
	assert.True(t, commMap["A"])
	assert.True(t, commMap["B"])
	assert.True(t, commMap["C"])
}

func TestComponentDetector_MultipleCommunities(t *testing.T) {
	ns := nodes("1", "2", "3", "4", "5")
	edges := []model.GraphEdge{
		{Source: "1", Target: "2"},
		{Source: "3", Target: "4"},
		{Source: "4", Target: "5"},
	}

	communities, err := (&ComponentDetector{}).Detect(ns, edges)

	assert.NoError(t, err)
	require.Len(t, communities, 2)
	// Largest first.
	assert.Len(t, communities[0], 3)
	assert.Len(t, communities[1], 2)
}

func TestNewDetector(t *testing.T) {
	d, err := NewDetector("")
	require.NoError(t, err)
	assert.IsType(t, &LabelPropagationDetector{}, d)

	_, err = NewDetector("louvain")
	assert.Error(t, err)
}

func TestAssign(t *testing.T) {
	ns := nodes("A", "B", "C", "D", "E")
	communities := [][]model.GraphNode{
		{ns[2], ns[3]},
		{ns[0], ns[1]},
	}

	Assign(ns, communities)

	assert.Equal(t, 1, ns[0].Community)
	assert.Equal(t, 1, ns[1].Community)
	assert.Equal(t, 0, ns[2].Community)
	assert.Equal(t, 0, ns[3].Community)
	assert.Equal(t, -1, ns[4].Community)
}
