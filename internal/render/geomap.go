package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/agenthands/vizboard/internal/core/viz"
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))

type mapPage struct {
	Title       string
	CenterLat   float64
	CenterLon   float64
	Zoom        int
	TileURL     string
	Attribution string
	Markers     []viz.Marker
}

// Map writes a standalone Leaflet page. Tiles are fetched by the browser.
func (l *Library) Map(ctx context.Context, spec viz.MapSpec) (*viz.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err := mapTemplate.Execute(&buf, mapPage{
		Title:       spec.Title,
		CenterLat:   spec.CenterLat,
		CenterLon:   spec.CenterLon,
		Zoom:        spec.Zoom,
		TileURL:     l.Config.TileURL,
		Attribution: l.Config.TileAttribution,
		Markers:     spec.Markers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render map page: %w", err)
	}
	return &viz.Artifact{Kind: viz.KindMap, Title: spec.Title, ContentType: viz.ContentHTML, Data: buf.Bytes()}, nil
}
