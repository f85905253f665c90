package render

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"

	"github.com/agenthands/vizboard/internal/core/viz"
)

// corrGrid puts the first column at the top, like a printed matrix.
type corrGrid struct {
	m [][]float64
}

func (g corrGrid) Dims() (c, r int)   { return len(g.m), len(g.m) }
func (g corrGrid) Z(c, r int) float64 { return g.m[len(g.m)-1-r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

func (l *Library) Heatmap(ctx context.Context, spec viz.HeatmapSpec) (*viz.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := len(spec.Columns)
	if n == 0 || len(spec.Matrix) != n {
		return nil, fmt.Errorf("correlation matrix is %d wide for %d columns", len(spec.Matrix), n)
	}

	p := plot.New()
	p.Title.Text = spec.Title

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	grid := corrGrid{m: spec.Matrix}
	heat := plotter.NewHeatMap(grid, cm.Palette(255))
	heat.Min, heat.Max = -1, 1
	heat.NaN = nanColor
	p.Add(heat)

	if spec.Annotate {
		labels, err := annotations(grid)
		if err != nil {
			return nil, err
		}
		p.Add(labels)
	}

	xTicks := make([]plot.Tick, n)
	yTicks := make([]plot.Tick, n)
	for i, name := range spec.Columns {
		xTicks[i] = plot.Tick{Value: float64(i), Label: name}
		yTicks[i] = plot.Tick{Value: float64(n - 1 - i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter

	data, err := encodePNG(p, l.Config.Width, l.Config.Height)
	if err != nil {
		return nil, err
	}
	return &viz.Artifact{Kind: viz.KindHeatmap, Title: spec.Title, ContentType: viz.ContentPNG, Data: data}, nil
}

// annotations writes each coefficient in the middle of its cell.
func annotations(g corrGrid) (*plotter.Labels, error) {
	cols, rows := g.Dims()
	var xys plotter.XYs
	var values []string
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			xys = append(xys, plotter.XY{X: g.X(c), Y: g.Y(r)})
			values = append(values, formatCoefficient(g.Z(c, r)))
		}
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: values})
	if err != nil {
		return nil, fmt.Errorf("failed to create heatmap labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
	}
	return labels, nil
}

func formatCoefficient(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", v)
}
