// Package render adapts the charting and graph libraries to viz.Library.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/agenthands/vizboard/internal/config"
	"github.com/agenthands/vizboard/internal/core/community"
	"github.com/agenthands/vizboard/internal/core/viz"
)

// screenDPI is the resolution gonum/plot uses for PNG output.
const screenDPI = 96

type Library struct {
	Config   config.ChartConfig
	Detector community.CommunityDetector
}

var _ viz.Library = (*Library)(nil)

func NewLibrary(cfg config.ChartConfig) (*Library, error) {
	detector, err := community.NewDetector(cfg.Community)
	if err != nil {
		return nil, err
	}
	return &Library{Config: cfg, Detector: detector}, nil
}

// encodePNG renders p at the given pixel size.
func encodePNG(p *plot.Plot, width, height int) ([]byte, error) {
	w, err := p.WriterTo(pixels(width), pixels(height), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / screenDPI
}

// hexColor parses "#rrggbb", falling back when s is empty.
func hexColor(s string, fallback color.Color) color.Color {
	if s == "" {
		return fallback
	}
	return drawing.ColorFromHex(trimHash(s))
}

func trimHash(s string) string {
	if len(s) > 0 && s[0] == '#' {
		return s[1:]
	}
	return s
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

var nanColor = color.Gray{Y: 0xcc}

// Series colours, indexed by community.
var seriesColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

func seriesColor(i int) color.Color {
	if i < 0 {
		return color.RGBA{R: 0x97, G: 0xc2, B: 0xfc, A: 0xff}
	}
	return hexColor(seriesColors[i%len(seriesColors)], color.Black)
}
