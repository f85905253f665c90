package community

import (
	"gonum.org/v1/gonum/graph/simple"

	"github.com/agenthands/vizboard/internal/core/model"
)

// BuildGraph turns an edge list into an undirected graph. Node ids follow
// order of first appearance. Self loops keep their node but add no edge.
func BuildGraph(edges []model.GraphEdge) (*simple.UndirectedGraph, []model.GraphNode) {
	g := simple.NewUndirectedGraph()
	ids := make(map[string]int64)
	var nodes []model.GraphNode

	nodeID := func(name string) int64 {
		if id, ok := ids[name]; ok {
			return id
		}
		id := int64(len(nodes))
		ids[name] = id
		nodes = append(nodes, model.GraphNode{ID: id, Name: name, Community: -1})
		g.AddNode(simple.Node(id))
		return id
	}

	for _, e := range edges {
		s, t := nodeID(e.Source), nodeID(e.Target)
		if s == t {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(s), T: simple.Node(t)})
	}
	return g, nodes
}
