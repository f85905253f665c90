package community

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/vizboard/internal/core/model"
)

func TestBuildGraph(t *testing.T) {
	edges := []model.GraphEdge{
		{Source: "alice", Target: "bob"},
		{Source: "bob", Target: "carol"},
		{Source: "bob", Target: "alice"},
		{Source: "dave", Target: "dave"},
	}

	g, ns := BuildGraph(edges)

	require.Len(t, ns, 4)
	assert.Equal(t, "alice", ns[0].Name)
	assert.Equal(t, int64(3), ns[3].ID)
	assert.Equal(t, -1, ns[3].Community)

	assert.Equal(t, 4, g.Nodes().Len())
	assert.Equal(t, 2, g.Edges().Len())
	assert.True(t, g.HasEdgeBetween(0, 1))
	assert.False(t, g.HasEdgeBetween(3, 3))
}
