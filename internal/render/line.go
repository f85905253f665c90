package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/vizboard/internal/core/viz"
)

// lastFrameHold keeps the completed chart on screen before the loop restarts.
const lastFrameHold = 150

type point struct {
	row  int
	x, y float64
}

// Line renders one go-chart frame per entry of spec.Frames and stitches
// them into a looping GIF. Axis ranges are fixed across frames.
func (l *Library) Line(ctx context.Context, spec viz.LineSpec) (*viz.Artifact, error) {
	pts := plottable(spec.X, spec.Y)
	if len(pts) == 0 {
		return nil, fmt.Errorf("no rows with both %s and %s", spec.XCol, spec.YCol)
	}
	xr, yr := extent(pts, func(p point) float64 { return p.x }), extent(pts, func(p point) float64 { return p.y })

	frames := framesWithData(spec.Frames, pts[0].row)
	images := make([]*image.Paletted, len(frames))

	g, gctx := errgroup.WithContext(ctx)
	if l.Config.FrameWorkers > 0 {
		g.SetLimit(l.Config.FrameWorkers)
	}
	for k, last := range frames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := l.lineFrame(spec, visible(pts, last), xr, yr)
			if err != nil {
				return fmt.Errorf("frame %d: %w", k, err)
			}
			images[k] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	anim := &gif.GIF{Image: images, Delay: make([]int, len(images))}
	for i := range anim.Delay {
		anim.Delay[i] = l.Config.FrameDelay
	}
	anim.Delay[len(anim.Delay)-1] = lastFrameHold

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("failed to encode animation: %w", err)
	}
	return &viz.Artifact{Kind: viz.KindLine, Title: spec.Title, ContentType: viz.ContentGIF, Data: buf.Bytes()}, nil
}

// lineFrame gets its own copy of the axis ranges: go-chart sets the
// range domain while rendering.
func (l *Library) lineFrame(spec viz.LineSpec, pts []point, xr, yr chart.ContinuousRange) (*image.Paletted, error) {
	bg := drawing.ColorFromHex(trimHash(l.Config.LineBackground))
	fg := drawing.ColorFromHex(trimHash(l.Config.LineForeground))
	stroke := drawing.ColorFromHex(trimHash(l.Config.LineColor))
	gridColor := fg.WithAlpha(40)

	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.x, p.y
	}

	axisStyle := chart.Style{FontColor: fg, StrokeColor: gridColor}
	graph := chart.Chart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontColor: fg},
		Width:      l.Config.Width,
		Height:     l.Config.Height,
		Background: chart.Style{
			FillColor: bg,
			Padding:   chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: bg},
		XAxis: chart.XAxis{
			Name:      spec.XCol,
			NameStyle: chart.Style{FontColor: fg},
			Style:     axisStyle,
			Range:     &xr,
			GridMajorStyle: chart.Style{
				StrokeColor: gridColor,
				StrokeWidth: 1,
			},
		},
		YAxis: chart.YAxis{
			Name:      spec.YCol,
			NameStyle: chart.Style{FontColor: fg},
			Style:     axisStyle,
			Range:     &yr,
			GridMajorStyle: chart.Style{
				StrokeColor: gridColor,
				StrokeWidth: 1,
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    spec.YCol,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: stroke,
					StrokeWidth: 2,
					DotColor:    stroke,
					DotWidth:    3,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode chart: %w", err)
	}

	frame := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(frame, img.Bounds(), img, image.Point{})
	return frame, nil
}

func plottable(xs, ys []float64) []point {
	var pts []point
	for i := range xs {
		if i >= len(ys) || !finite(xs[i]) || !finite(ys[i]) {
			continue
		}
		pts = append(pts, point{row: i, x: xs[i], y: ys[i]})
	}
	return pts
}

// visible returns the points up to and including row last.
func visible(pts []point, last int) []point {
	n := 0
	for n < len(pts) && pts[n].row <= last {
		n++
	}
	return pts[:n]
}

// framesWithData drops leading frames that would be empty.
func framesWithData(frames []int, firstRow int) []int {
	for i, f := range frames {
		if f >= firstRow {
			return frames[i:]
		}
	}
	return []int{firstRow}
}

func extent(pts []point, v func(point) float64) chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		lo = math.Min(lo, v(p))
		hi = math.Max(hi, v(p))
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.05
	return chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
