package community

import (
	"fmt"
	"sort"

	"github.com/agenthands/vizboard/internal/core/model"
)

type CommunityDetector interface {
	Detect(nodes []model.GraphNode, edges []model.GraphEdge) ([][]model.GraphNode, error)
}

// NewDetector returns the detector configured by name: "lpa" (default) or
// "components".
func NewDetector(algorithm string) (CommunityDetector, error) {
	switch algorithm {
	case "", "lpa":
		return NewLabelPropagationDetector(), nil
	case "components":
		return &ComponentDetector{}, nil
	default:
		return nil, fmt.Errorf("unknown community algorithm: %s", algorithm)
	}
}

// ComponentDetector treats every connected component of two or more nodes
// as a community.
type ComponentDetector struct{}

func (d *ComponentDetector) Detect(nodes []model.GraphNode, edges []model.GraphEdge) ([][]model.GraphNode, error) {
	nodeMap := make(map[string]model.GraphNode)
	adj := make(map[string][]string)

	for _, n := range nodes {
		nodeMap[n.Name] = n
	}

	for _, e := range edges {
		if _, ok := nodeMap[e.Source]; !ok {
			continue
		}
		if _, ok := nodeMap[e.Target]; !ok {
			continue
		}

		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}

	visited := make(map[string]bool)
	var communities [][]model.GraphNode

	for _, n := range nodes {
		if visited[n.Name] {
			continue
		}
		var component []string
		d.dfs(n.Name, adj, visited, &component)

		if len(component) >= 2 {
			var community []model.GraphNode
			for _, name := range component {
				community = append(community, nodeMap[name])
			}
			communities = append(communities, community)
		}
	}

	sortCommunities(communities)
	return communities, nil
}

func (d *ComponentDetector) dfs(u string, adj map[string][]string, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for _, v := range adj[u] {
		if !visited[v] {
			d.dfs(v, adj, visited, component)
		}
	}
}

// Assign writes each node's community index (position in communities) into
// nodes. Nodes outside every community get -1.
func Assign(nodes []model.GraphNode, communities [][]model.GraphNode) {
	index := make(map[string]int)
	for i, c := range communities {
		for _, n := range c {
			index[n.Name] = i
		}
	}
	for i := range nodes {
		if c, ok := index[nodes[i].Name]; ok {
			nodes[i].Community = c
		} else {
			nodes[i].Community = -1
		}
	}
}

// sortCommunities orders members by id and communities largest first, so
// colours stay stable between renders.
func sortCommunities(communities [][]model.GraphNode) {
	for _, c := range communities {
		sort.Slice(c, func(i, j int) bool { return c[i].ID < c[j].ID })
	}
	sort.SliceStable(communities, func(i, j int) bool {
		if len(communities[i]) != len(communities[j]) {
			return len(communities[i]) > len(communities[j])
		}
		return communities[i][0].ID < communities[j][0].ID
	})
}
