package model

// GraphNode is a vertex of the social network view. ID is the gonum
// node id, Name the cell text it was built from.
type GraphNode struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Community int    `json:"community"`
}
