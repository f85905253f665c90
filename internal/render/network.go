package render

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/agenthands/vizboard/internal/core/community"
	"github.com/agenthands/vizboard/internal/core/viz"
)

// Network lays the graph out with the Eades spring embedder and draws it
// with nodes coloured by community.
func (l *Library) Network(ctx context.Context, spec viz.NetworkSpec) (*viz.Artifact, error) {
	g, nodes := community.BuildGraph(spec.Edges)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("graph has no nodes")
	}

	communities, err := l.Detector.Detect(nodes, spec.Edges)
	if err != nil {
		return nil, fmt.Errorf("community detection failed: %w", err)
	}
	community.Assign(nodes, communities)

	updates := l.Config.LayoutUpdates
	if updates <= 0 {
		updates = 1
	}
	eades := layout.EadesR2{Repulsion: 1, Rate: 0.05, Updates: updates, Theta: 0.2}
	o := layout.NewOptimizerR2(g, eades.Update)
	for o.Update() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	bg := hexColor(l.Config.NetworkBackground, nanColor)
	fg := hexColor(l.Config.NetworkFontColor, nanColor)

	p := plot.New()
	p.Title.Text = spec.Title
	p.Title.TextStyle.Color = fg
	p.BackgroundColor = bg
	p.HideAxes()

	edgeColor := withAlpha(fg, 0x80)
	edges := g.Edges()
	for edges.Next() {
		e := edges.Edge()
		a, b := o.Coord2(e.From().ID()), o.Coord2(e.To().ID())
		line, err := plotter.NewLine(plotter.XYs{{X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}})
		if err != nil {
			return nil, fmt.Errorf("failed to draw edge: %w", err)
		}
		line.Color = edgeColor
		line.Width = vg.Points(0.6)
		p.Add(line)
	}

	groups := make(map[int]plotter.XYs)
	var order []int
	xys := make(plotter.XYs, len(nodes))
	names := make([]string, len(nodes))
	for i, n := range nodes {
		pos := o.Coord2(n.ID)
		xys[i] = plotter.XY{X: pos.X, Y: pos.Y}
		names[i] = n.Name
		if _, ok := groups[n.Community]; !ok {
			order = append(order, n.Community)
		}
		groups[n.Community] = append(groups[n.Community], xys[i])
	}

	for _, c := range order {
		scatter, err := plotter.NewScatter(groups[c])
		if err != nil {
			return nil, fmt.Errorf("failed to draw nodes: %w", err)
		}
		scatter.GlyphStyle.Color = seriesColor(c)
		scatter.GlyphStyle.Radius = vg.Points(5)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: names})
	if err != nil {
		return nil, fmt.Errorf("failed to label nodes: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = fg
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YBottom
	}
	labels.Offset = vg.Point{Y: vg.Points(7)}
	p.Add(labels)

	data, err := encodePNG(p, l.Config.Width, l.Config.NetworkHeight)
	if err != nil {
		return nil, err
	}
	return &viz.Artifact{Kind: viz.KindNetwork, Title: spec.Title, ContentType: viz.ContentPNG, Data: data}, nil
}
