package render

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"

	"github.com/agenthands/vizboard/internal/core/viz"
)

// surfaceGrid exposes a SurfaceSpec as a gonum GridXYZ. Columns run along X.
type surfaceGrid struct {
	x, y []float64
	z    [][]float64
}

func newSurfaceGrid(spec viz.SurfaceSpec) surfaceGrid {
	return surfaceGrid{x: axisValues(spec.X), y: axisValues(spec.Y), z: spec.Z}
}

func (g surfaceGrid) Dims() (c, r int)   { return len(g.x), len(g.y) }
func (g surfaceGrid) Z(c, r int) float64 { return g.z[c][r] }
func (g surfaceGrid) X(c int) float64    { return g.x[c] }
func (g surfaceGrid) Y(r int) float64    { return g.y[r] }

// axisValues returns v when it is finite and strictly increasing, otherwise
// the positions 0..n-1 so the grid stays drawable.
func axisValues(v []float64) []float64 {
	increasing := true
	for i, x := range v {
		if !finite(x) || (i > 0 && x <= v[i-1]) {
			increasing = false
			break
		}
	}
	if increasing {
		return v
	}
	idx := make([]float64, len(v))
	for i := range idx {
		idx[i] = float64(i)
	}
	return idx
}

func surfaceColorMap(name string) palette.ColorMap {
	switch name {
	case "kindlmann":
		return moreland.Kindlmann()
	case "coolwarm":
		return moreland.SmoothBlueRed()
	default:
		return moreland.ExtendedBlackBody()
	}
}

// Surface draws the Z grid from above: a filled heat map with contour lines.
func (l *Library) Surface(ctx context.Context, spec viz.SurfaceSpec) (*viz.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grid := newSurfaceGrid(spec)
	lo, hi, finite := gridRange(grid)
	if !finite {
		return nil, fmt.Errorf("surface has no finite values")
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XCol
	p.Y.Label.Text = spec.YCol

	cm := surfaceColorMap(l.Config.SurfacePalette)
	cm.SetMin(0)
	cm.SetMax(1)
	pal := cm.Palette(255)
	heat := plotter.NewHeatMap(grid, pal)
	heat.NaN = nanColor
	// Infinite cells fall outside the finite range and take the end colours.
	heat.Min, heat.Max = lo, hi
	if lo == hi {
		heat.Min, heat.Max = lo-0.5, hi+0.5
	}
	colors := pal.Colors()
	heat.Underflow, heat.Overflow = colors[0], colors[len(colors)-1]
	p.Add(heat)

	if levels := contourLevels(lo, hi, l.Config.ContourLevels); len(levels) > 0 && drawableContour(grid) {
		contour := plotter.NewContour(grid, levels, palette.Heat(len(levels), 1))
		p.Add(contour)
	}

	p.Legend.Add(fmt.Sprintf("%s: %.3g .. %.3g", spec.ZCol, lo, hi))
	p.Legend.Top = true

	data, err := encodePNG(p, l.Config.Width, l.Config.Height)
	if err != nil {
		return nil, err
	}
	return &viz.Artifact{Kind: viz.KindSurface, Title: spec.Title, ContentType: viz.ContentPNG, Data: data}, nil
}

func gridRange(g surfaceGrid) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	cols, rows := g.Dims()
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			v := g.Z(c, r)
			if !finite(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi, !math.IsInf(lo, 1)
}

// drawableContour reports whether contour lines can be traced: at least
// a 2x2 grid with every value finite.
func drawableContour(g surfaceGrid) bool {
	cols, rows := g.Dims()
	if cols < 2 || rows < 2 {
		return false
	}
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			if !finite(g.Z(c, r)) {
				return false
			}
		}
	}
	return true
}

// contourLevels spaces n levels strictly inside (lo, hi).
func contourLevels(lo, hi float64, n int) []float64 {
	if n <= 0 || hi <= lo {
		return nil
	}
	step := (hi - lo) / float64(n+1)
	levels := make([]float64, n)
	for i := range levels {
		levels[i] = lo + step*float64(i+1)
	}
	return levels
}
