package viz

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/agenthands/vizboard/internal/core/model"
)

type HeatmapSpec struct {
	Title    string
	Columns  []string
	Matrix   [][]float64
	Annotate bool
}

type HeatmapHandler struct{}

func (h *HeatmapHandler) Kind() Kind    { return KindHeatmap }
func (h *HeatmapHandler) Title() string { return Title(KindHeatmap) }

func (h *HeatmapHandler) Roles(ds *model.Dataset, sel Selection) []Role {
	return nil
}

func (h *HeatmapHandler) Render(ctx context.Context, ds *model.Dataset, sel Selection, lib Library, out Display) error {
	numeric := ds.NumericColumns()
	if len(numeric) == 0 {
		return reject(KindHeatmap, "No numerical columns found.", out)
	}

	names := make([]string, len(numeric))
	for i, c := range numeric {
		names[i] = c.Name
	}

	a, err := lib.Heatmap(ctx, HeatmapSpec{
		Title:    h.Title(),
		Columns:  names,
		Matrix:   CorrelationMatrix(numeric),
		Annotate: true,
	})
	return show(KindHeatmap, a, err, out)
}

// CorrelationMatrix returns Pearson correlations between every pair of
// columns, using only rows where both values are present. Pairs with fewer
// than two such rows are NaN.
func CorrelationMatrix(cols []*model.Column) [][]float64 {
	n := len(cols)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pairwiseCorrelation(cols[i].Values, cols[j].Values)
			m[i][j], m[j][i] = r, r
		}
	}
	return m
}

func pairwiseCorrelation(a, b []float64) float64 {
	var x, y []float64
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}
