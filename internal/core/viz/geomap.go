package viz

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/agenthands/vizboard/internal/core/model"
)

const defaultMapZoom = 5

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type Marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
}

type MapSpec struct {
	Title     string
	CenterLat float64
	CenterLon float64
	Zoom      int
	Markers   []Marker
}

type MapHandler struct{}

func (h *MapHandler) Kind() Kind    { return KindMap }
func (h *MapHandler) Title() string { return Title(KindMap) }

func (h *MapHandler) Roles(ds *model.Dataset, sel Selection) []Role {
	return nil
}

func (h *MapHandler) Render(ctx context.Context, ds *model.Dataset, sel Selection, lib Library, out Display) error {
	lat, okLat := ds.Column("latitude")
	lon, okLon := ds.Column("longitude")
	if !okLat || !okLon {
		return reject(KindMap, "Dataset must have 'latitude' and 'longitude' columns.", out)
	}
	if !lat.IsNumeric() || !lon.IsNumeric() {
		return reject(KindMap, "Columns 'latitude' and 'longitude' must be numeric.", out)
	}
	name, hasName := ds.Column("name")

	var markers []Marker
	var lats, lons []float64
	for i := 0; i < ds.Rows; i++ {
		la, lo := lat.Values[i], lon.Values[i]
		if !finite(la) || !finite(lo) {
			continue
		}
		popup := "Location"
		if hasName && name.Raw[i] != "" {
			popup = name.Raw[i]
		}
		markers = append(markers, Marker{Lat: la, Lon: lo, Popup: popup})
		lats = append(lats, la)
		lons = append(lons, lo)
	}
	if len(markers) == 0 {
		return reject(KindMap, "No rows with valid coordinates.", out)
	}

	a, err := lib.Map(ctx, MapSpec{
		Title:     h.Title(),
		CenterLat: stat.Mean(lats, nil),
		CenterLon: stat.Mean(lons, nil),
		Zoom:      defaultMapZoom,
		Markers:   markers,
	})
	return show(KindMap, a, err, out)
}
