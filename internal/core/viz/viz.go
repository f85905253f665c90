// Package viz validates a dataset against the column requirements of each
// chart type and maps the user's dropdown selections into a single call on
// a charting Library.
package viz

import (
	"context"
	"fmt"

	"github.com/agenthands/vizboard/internal/core/model"
)

type Kind string

const (
	KindSurface Kind = "surface"
	KindHeatmap Kind = "heatmap"
	KindMap     Kind = "map"
	KindLine    Kind = "line"
	KindNetwork Kind = "network"
)

var kinds = []Kind{KindSurface, KindHeatmap, KindMap, KindLine, KindNetwork}

// Kinds returns the chart kinds in sidebar order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind maps a query value to a Kind. Unknown values fall back to the
// first entry, like an untouched select box.
func ParseKind(s string) Kind {
	for _, k := range kinds {
		if string(k) == s {
			return k
		}
	}
	return kinds[0]
}

// Artifact is the rendered output of a chart.
type Artifact struct {
	Kind        Kind
	Title       string
	ContentType string
	Data        []byte
}

const (
	ContentPNG  = "image/png"
	ContentGIF  = "image/gif"
	ContentHTML = "text/html; charset=utf-8"
)

// Library is the boundary to the charting and graphing libraries.
type Library interface {
	Surface(ctx context.Context, spec SurfaceSpec) (*Artifact, error)
	Heatmap(ctx context.Context, spec HeatmapSpec) (*Artifact, error)
	Map(ctx context.Context, spec MapSpec) (*Artifact, error)
	Line(ctx context.Context, spec LineSpec) (*Artifact, error)
	Network(ctx context.Context, spec NetworkSpec) (*Artifact, error)
}

// Display receives the outcome of one render: an error message or an artifact.
type Display interface {
	Error(msg string)
	Show(a *Artifact)
}

type Handler interface {
	Kind() Kind
	Title() string
	// Roles lists the dropdowns for ds with the effective choice filled in.
	Roles(ds *model.Dataset, sel Selection) []Role
	Render(ctx context.Context, ds *model.Dataset, sel Selection, lib Library, out Display) error
}

type Registry struct {
	handlers map[Kind]Handler
}

func NewRegistry(cfg Options) *Registry {
	r := &Registry{handlers: make(map[Kind]Handler)}
	r.Register(&SurfaceHandler{})
	r.Register(&HeatmapHandler{})
	r.Register(&MapHandler{})
	r.Register(&LineHandler{MaxFrames: cfg.MaxFrames})
	r.Register(&NetworkHandler{})
	return r
}

// Options tune handler behaviour.
type Options struct {
	MaxFrames int
}

func (r *Registry) Register(h Handler) {
	r.handlers[h.Kind()] = h
}

func (r *Registry) Handler(kind Kind) (Handler, error) {
	h, ok := r.handlers[kind]
	if !ok {
		return nil, fmt.Errorf("unknown visualization: %s", kind)
	}
	return h, nil
}

// Dispatch routes one interaction to the handler for kind.
func (r *Registry) Dispatch(ctx context.Context, kind Kind, ds *model.Dataset, sel Selection, lib Library, out Display) error {
	h, err := r.Handler(kind)
	if err != nil {
		out.Error(err.Error())
		return err
	}
	return h.Render(ctx, ds, sel, lib, out)
}

// Title returns the display title for kind.
func Title(kind Kind) string {
	switch kind {
	case KindSurface:
		return "3D Surface Plot"
	case KindHeatmap:
		return "Correlation Heatmap"
	case KindMap:
		return "Mapping Locations"
	case KindLine:
		return "Animated Line Chart"
	case KindNetwork:
		return "Social Network Graph"
	}
	return string(kind)
}

// show hands the library result to the display, turning a library error
// into a display error.
func show(kind Kind, a *Artifact, err error, out Display) error {
	if err != nil {
		out.Error(fmt.Sprintf("Failed to render %s.", Title(kind)))
		return fmt.Errorf("render %s: %w", kind, err)
	}
	out.Show(a)
	return nil
}
