package model

// GraphEdge links two cell values taken from the source and target columns.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}
