package viz

import (
	"context"

	"github.com/agenthands/vizboard/internal/core/model"
)

type LineSpec struct {
	Title string
	XCol  string
	YCol  string
	X     []float64
	Y     []float64
	// Frames[k] is the last row index drawn in animation frame k.
	Frames []int
}

type LineHandler struct {
	MaxFrames int // 0 = one frame per row
}

func (h *LineHandler) Kind() Kind    { return KindLine }
func (h *LineHandler) Title() string { return Title(KindLine) }

func (h *LineHandler) Roles(ds *model.Dataset, sel Selection) []Role {
	options := ds.NumericNames()
	return []Role{
		role(sel, "x", "X-axis", options),
		role(sel, "y", "Y-axis", options),
	}
}

func (h *LineHandler) Render(ctx context.Context, ds *model.Dataset, sel Selection, lib Library, out Display) error {
	if len(ds.NumericColumns()) < 2 {
		return reject(KindLine, "Dataset must have at least two numerical columns.", out)
	}

	roles := h.Roles(ds, sel)
	xCol, _ := ds.Column(roles[0].Value)
	yCol, _ := ds.Column(roles[1].Value)

	a, err := lib.Line(ctx, LineSpec{
		Title:  h.Title(),
		XCol:   xCol.Name,
		YCol:   yCol.Name,
		X:      xCol.Values,
		Y:      yCol.Values,
		Frames: FrameIndices(ds.Rows, h.MaxFrames),
	})
	return show(KindLine, a, err, out)
}

// FrameIndices spreads at most max frames evenly over n rows. The last
// frame always ends on the last row.
func FrameIndices(n, max int) []int {
	if n <= 0 {
		return nil
	}
	if max <= 0 || n <= max {
		frames := make([]int, n)
		for i := range frames {
			frames[i] = i
		}
		return frames
	}
	frames := make([]int, max)
	for k := range frames {
		frames[k] = (k+1)*n/max - 1
	}
	return frames
}
