package community

import (
	"sort"

	"github.com/agenthands/vizboard/internal/core/model"
)

// LabelPropagationDetector implements community detection using Label Propagation Algorithm (LPA).
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

func (d *LabelPropagationDetector) Detect(nodes []model.GraphNode, edges []model.GraphEdge) ([][]model.GraphNode, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	// Parallel edges count as a stronger connection.
	adj := make(map[string]map[string]int) // node -> neighbor -> weight
	nodeMap := make(map[string]model.GraphNode)

	for _, n := range nodes {
		nodeMap[n.Name] = n
		adj[n.Name] = make(map[string]int)
	}

	for _, e := range edges {
		if _, ok := nodeMap[e.Source]; !ok {
			continue
		}
		if _, ok := nodeMap[e.Target]; !ok {
			continue
		}
		if e.Source == e.Target {
			continue
		}

		adj[e.Source][e.Target]++
		adj[e.Target][e.Source]++
	}

	// Each node starts with its own label.
	labels := make(map[string]string)
	for _, n := range nodes {
		labels[n.Name] = n.Name
	}

	order := make([]string, len(nodes))
	for i, n := range nodes {
		order[i] = n.Name
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changeCount := 0

		for _, u := range order {
			neighbors := adj[u]
			if len(neighbors) == 0 {
				continue
			}

			labelCounts := make(map[string]int)
			maxCount := 0

			for v, weight := range neighbors {
				label := labels[v]
				labelCounts[label] += weight
				if labelCounts[label] > maxCount {
					maxCount = labelCounts[label]
				}
			}

			var candidates []string
			for label, count := range labelCounts {
				if count == maxCount {
					candidates = append(candidates, label)
				}
			}

			// Ties go to the lexicographically largest label.
			sort.Strings(candidates)
			bestLabel := candidates[len(candidates)-1]

			if labels[u] != bestLabel {
				labels[u] = bestLabel
				changeCount++
			}
		}

		if changeCount == 0 {
			break
		}
	}

	clusters := make(map[string][]model.GraphNode)
	for name, label := range labels {
		if node, ok := nodeMap[name]; ok {
			clusters[label] = append(clusters[label], node)
		}
	}

	var communities [][]model.GraphNode
	for _, cluster := range clusters {
		if len(cluster) >= 2 {
			communities = append(communities, cluster)
		}
	}

	sortCommunities(communities)
	return communities, nil
}
