package model

type DatasetInsight struct {
	Summary string `json:"summary"`
}
