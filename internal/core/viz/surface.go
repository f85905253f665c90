package viz

import (
	"context"
	"fmt"
	"math"

	"github.com/agenthands/vizboard/internal/core/model"
)

type SurfaceSpec struct {
	Title string
	XCol  string
	YCol  string
	ZCol  string
	// X and Y are the distinct axis values in order of first appearance.
	X []float64
	Y []float64
	// Z has len(X) rows of len(Y) values.
	Z [][]float64
}

type SurfaceHandler struct{}

func (h *SurfaceHandler) Kind() Kind    { return KindSurface }
func (h *SurfaceHandler) Title() string { return Title(KindSurface) }

func (h *SurfaceHandler) Roles(ds *model.Dataset, sel Selection) []Role {
	options := ds.NumericNames()
	return []Role{
		role(sel, "x", "X-axis", options),
		role(sel, "y", "Y-axis", options),
		role(sel, "z", "Z-axis", options),
	}
}

func (h *SurfaceHandler) Render(ctx context.Context, ds *model.Dataset, sel Selection, lib Library, out Display) error {
	if len(ds.NumericColumns()) < 3 {
		return reject(KindSurface, "Dataset must have at least 3 numerical columns.", out)
	}

	roles := h.Roles(ds, sel)
	xCol, _ := ds.Column(roles[0].Value)
	yCol, _ := ds.Column(roles[1].Value)
	zCol, _ := ds.Column(roles[2].Value)

	xs := uniqueValues(xCol.Values)
	ys := uniqueValues(yCol.Values)
	z, err := reshape(zCol.Values, len(xs), len(ys))
	if err != nil {
		return reject(KindSurface, fmt.Sprintf("Cannot reshape %d values of '%s' into %dx%d grid.", len(zCol.Values), zCol.Name, len(xs), len(ys)), out)
	}

	a, err := lib.Surface(ctx, SurfaceSpec{
		Title: h.Title(),
		XCol:  xCol.Name,
		YCol:  yCol.Name,
		ZCol:  zCol.Name,
		X:     xs,
		Y:     ys,
		Z:     z,
	})
	return show(KindSurface, a, err, out)
}

// uniqueValues keeps the first occurrence of each value. NaN counts as one value.
func uniqueValues(values []float64) []float64 {
	seen := make(map[uint64]bool)
	var out []float64
	for _, v := range values {
		key := math.Float64bits(v)
		if math.IsNaN(v) {
			key = math.Float64bits(math.NaN())
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// reshape lays values out row-major into rows x cols.
func reshape(values []float64, rows, cols int) ([][]float64, error) {
	if rows*cols != len(values) {
		return nil, fmt.Errorf("cannot reshape %d values into %dx%d", len(values), rows, cols)
	}
	grid := make([][]float64, rows)
	for r := range grid {
		grid[r] = append([]float64(nil), values[r*cols:(r+1)*cols]...)
	}
	return grid, nil
}
