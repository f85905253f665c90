package viz

import (
	"context"
	"fmt"

	"github.com/agenthands/vizboard/internal/core/model"
)

type NetworkSpec struct {
	Title     string
	SourceCol string
	TargetCol string
	Edges     []model.GraphEdge
}

type NetworkHandler struct{}

func (h *NetworkHandler) Kind() Kind    { return KindNetwork }
func (h *NetworkHandler) Title() string { return Title(KindNetwork) }

func (h *NetworkHandler) Roles(ds *model.Dataset, sel Selection) []Role {
	options := ds.Names()
	return []Role{
		role(sel, "source", "Source Column", options),
		role(sel, "target", "Target Column", options),
	}
}

func (h *NetworkHandler) Render(ctx context.Context, ds *model.Dataset, sel Selection, lib Library, out Display) error {
	if len(ds.Columns) < 2 {
		return reject(KindNetwork, "Dataset must have at least two columns (Source and Target).", out)
	}

	src, tgt := h.Columns(ds, sel)
	edges := EdgeList(src, tgt)
	if len(edges) == 0 {
		return reject(KindNetwork, fmt.Sprintf("No edges found between '%s' and '%s'.", src.Name, tgt.Name), out)
	}

	a, err := lib.Network(ctx, NetworkSpec{
		Title:     h.Title(),
		SourceCol: src.Name,
		TargetCol: tgt.Name,
		Edges:     edges,
	})
	return show(KindNetwork, a, err, out)
}

// Columns resolves the source and target columns for sel.
func (h *NetworkHandler) Columns(ds *model.Dataset, sel Selection) (*model.Column, *model.Column) {
	roles := h.Roles(ds, sel)
	src, _ := ds.Column(roles[0].Value)
	tgt, _ := ds.Column(roles[1].Value)
	return src, tgt
}

// EdgeList pairs source and target cells row by row, skipping rows where
// either side is empty.
func EdgeList(src, tgt *model.Column) []model.GraphEdge {
	var edges []model.GraphEdge
	for i := range src.Raw {
		s, t := src.Raw[i], tgt.Raw[i]
		if s == "" || t == "" {
			continue
		}
		edges = append(edges, model.GraphEdge{Source: s, Target: t})
	}
	return edges
}
