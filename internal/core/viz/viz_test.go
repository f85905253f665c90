package viz

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatch(t *testing.T, kind Kind, csv string, sel Selection) (*MockLibrary, *MockDisplay, error) {
	t.Helper()
	lib := &MockLibrary{}
	out := &MockDisplay{}
	err := NewRegistry(Options{MaxFrames: 4}).Dispatch(context.Background(), kind, mustParse(t, csv), sel, lib, out)
	return lib, out, err
}

func assertRejected(t *testing.T, lib *MockLibrary, out *MockDisplay, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, []string{msg}, out.Errors)
	assert.Empty(t, out.Shown)
	assert.Empty(t, lib.Calls)
}

func assertRenderedOnce(t *testing.T, lib *MockLibrary, out *MockDisplay, err error, kind Kind) {
	t.Helper()
	require.NoError(t, err)
	assert.Empty(t, out.Errors)
	assert.Equal(t, []string{string(kind)}, lib.Calls)
	require.Len(t, out.Shown, 1)
	assert.Equal(t, kind, out.Shown[0].Kind)
}

func TestSurface_RequiresThreeNumericColumns(t *testing.T) {
	lib, out, err := dispatch(t, KindSurface, "a,b,label\n1,2,x\n3,4,y\n", nil)
	assertRejected(t, lib, out, err, "Dataset must have at least 3 numerical columns.")
}

func TestSurface_RendersSelectedColumns(t *testing.T) {
	csv := "id,x,y,z\n9,1,10,5\n9,1,20,6\n9,2,10,7\n9,2,20,8\n"
	lib, out, err := dispatch(t, KindSurface, csv, Selection{"x": "x", "y": "y", "z": "z"})
	assertRenderedOnce(t, lib, out, err, KindSurface)

	spec := lib.LastSurface
	assert.Equal(t, "3D Surface Plot", spec.Title)
	assert.Equal(t, "x", spec.XCol)
	assert.Equal(t, "y", spec.YCol)
	assert.Equal(t, "z", spec.ZCol)
	assert.Equal(t, []float64{1, 2}, spec.X)
	assert.Equal(t, []float64{10, 20}, spec.Y)
	assert.Equal(t, [][]float64{{5, 6}, {7, 8}}, spec.Z)
}

func TestSurface_ReshapeMismatch(t *testing.T) {
	csv := "x,y,z\n1,1,1\n2,2,2\n3,3,3\n"
	lib, out, err := dispatch(t, KindSurface, csv, Selection{"x": "x", "y": "y", "z": "z"})
	assertRejected(t, lib, out, err, "Cannot reshape 3 values of 'z' into 3x3 grid.")
}

func TestSurface_DefaultsToFirstNumericColumn(t *testing.T) {
	h := &SurfaceHandler{}
	ds := mustParse(t, "label,a,b,c\nx,1,2,3\n")

	roles := h.Roles(ds, Selection{"y": "c", "z": "missing"})
	require.Len(t, roles, 3)
	assert.Equal(t, []string{"a", "b", "c"}, roles[0].Options)
	assert.Equal(t, "a", roles[0].Value)
	assert.Equal(t, "c", roles[1].Value)
	assert.Equal(t, "a", roles[2].Value)
}

func TestHeatmap_RequiresNumericColumns(t *testing.T) {
	lib, out, err := dispatch(t, KindHeatmap, "a,b\nx,y\n", nil)
	assertRejected(t, lib, out, err, "No numerical columns found.")
}

func TestHeatmap_CorrelatesNumericColumns(t *testing.T) {
	csv := "a,label,b,c\n1,x,2,3\n2,y,4,1\n3,z,6,2\n"
	lib, out, err := dispatch(t, KindHeatmap, csv, nil)
	assertRenderedOnce(t, lib, out, err, KindHeatmap)

	spec := lib.LastHeatmap
	assert.Equal(t, []string{"a", "b", "c"}, spec.Columns)
	assert.True(t, spec.Annotate)
	assert.InDelta(t, 1.0, spec.Matrix[0][0], 1e-9)
	assert.InDelta(t, 1.0, spec.Matrix[0][1], 1e-9)
	assert.InDelta(t, -0.5, spec.Matrix[0][2], 1e-9)
	assert.InDelta(t, spec.Matrix[0][2], spec.Matrix[2][0], 1e-12)
}

func TestCorrelationMatrix_PairwiseComplete(t *testing.T) {
	ds := mustParse(t, "a,b,k\n1,2,5\n2,,5\n3,6,5\n4,8,5\n")
	m := CorrelationMatrix(ds.NumericColumns())

	assert.InDelta(t, 1.0, m[0][1], 1e-9)
	assert.True(t, math.IsNaN(m[0][2]), "constant column has no correlation")
}

func TestMap_RequiresCoordinates(t *testing.T) {
	lib, out, err := dispatch(t, KindMap, "lat,lon\n1,2\n", nil)
	assertRejected(t, lib, out, err, "Dataset must have 'latitude' and 'longitude' columns.")
}

func TestMap_RequiresNumericCoordinates(t *testing.T) {
	lib, out, err := dispatch(t, KindMap, "latitude,longitude\nnorth,east\n", nil)
	assertRejected(t, lib, out, err, "Columns 'latitude' and 'longitude' must be numeric.")
}

func TestMap_PlacesMarkers(t *testing.T) {
	csv := "name,latitude,longitude\nOslo,60,10\n,62,12\nBad,,4\n"
	lib, out, err := dispatch(t, KindMap, csv, nil)
	assertRenderedOnce(t, lib, out, err, KindMap)

	spec := lib.LastMap
	assert.Equal(t, 5, spec.Zoom)
	assert.InDelta(t, 61.0, spec.CenterLat, 1e-9)
	assert.InDelta(t, 11.0, spec.CenterLon, 1e-9)
	assert.Equal(t, []Marker{
		{Lat: 60, Lon: 10, Popup: "Oslo"},
		{Lat: 62, Lon: 12, Popup: "Location"},
	}, spec.Markers)
}

func TestMap_SkipsNonFiniteCoordinates(t *testing.T) {
	csv := "name,latitude,longitude\nOslo,60,10\nUp,inf,30\nLeft,62,-inf\n"
	lib, out, err := dispatch(t, KindMap, csv, nil)
	assertRenderedOnce(t, lib, out, err, KindMap)

	spec := lib.LastMap
	assert.Equal(t, []Marker{{Lat: 60, Lon: 10, Popup: "Oslo"}}, spec.Markers)
	assert.InDelta(t, 60.0, spec.CenterLat, 1e-9)
	assert.InDelta(t, 10.0, spec.CenterLon, 1e-9)

	lib, out, err = dispatch(t, KindMap, "latitude,longitude\ninf,1\n2,-Infinity\n", nil)
	assertRejected(t, lib, out, err, "No rows with valid coordinates.")
}

func TestMap_NoValidRows(t *testing.T) {
	lib, out, err := dispatch(t, KindMap, "latitude,longitude,x\n1,,a\n,2,b\n", nil)
	assertRejected(t, lib, out, err, "No rows with valid coordinates.")
}

func TestLine_RequiresTwoNumericColumns(t *testing.T) {
	lib, out, err := dispatch(t, KindLine, "a,label\n1,x\n2,y\n", nil)
	assertRejected(t, lib, out, err, "Dataset must have at least two numerical columns.")
}

func TestLine_RendersSelectedColumns(t *testing.T) {
	csv := "t,label,v\n1,a,10\n2,b,20\n3,c,15\n4,d,30\n5,e,25\n6,f,40\n"
	lib, out, err := dispatch(t, KindLine, csv, Selection{"x": "t", "y": "v"})
	assertRenderedOnce(t, lib, out, err, KindLine)

	spec := lib.LastLine
	assert.Equal(t, "t", spec.XCol)
	assert.Equal(t, "v", spec.YCol)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, spec.X)
	assert.Equal(t, []float64{10, 20, 15, 30, 25, 40}, spec.Y)
	assert.Equal(t, []int{0, 2, 3, 5}, spec.Frames)
}

func TestFrameIndices(t *testing.T) {
	assert.Nil(t, FrameIndices(0, 10))
	assert.Equal(t, []int{0, 1, 2}, FrameIndices(3, 10))
	assert.Equal(t, []int{0, 1, 2}, FrameIndices(3, 0))
	assert.Equal(t, []int{4, 9}, FrameIndices(10, 2))

	frames := FrameIndices(1000, 60)
	assert.Len(t, frames, 60)
	assert.Equal(t, 999, frames[len(frames)-1])
}

func TestNetwork_RequiresTwoColumns(t *testing.T) {
	lib, out, err := dispatch(t, KindNetwork, "only\nx\n", nil)
	assertRejected(t, lib, out, err, "Dataset must have at least two columns (Source and Target).")
}

func TestNetwork_BuildsEdgeList(t *testing.T) {
	csv := "weight,src,dst\n1,A,B\n2,B,C\n3,,D\n"
	lib, out, err := dispatch(t, KindNetwork, csv, Selection{"source": "src", "target": "dst"})
	assertRenderedOnce(t, lib, out, err, KindNetwork)

	spec := lib.LastNetwork
	assert.Equal(t, "src", spec.SourceCol)
	assert.Equal(t, "dst", spec.TargetCol)
	require.Len(t, spec.Edges, 2)
	assert.Equal(t, "A", spec.Edges[0].Source)
	assert.Equal(t, "C", spec.Edges[1].Target)
}

func TestNetwork_NoEdges(t *testing.T) {
	lib, out, err := dispatch(t, KindNetwork, "a,b,c\nx,,1\n,y,2\n", Selection{"source": "a", "target": "b"})
	assertRejected(t, lib, out, err, "No edges found between 'a' and 'b'.")
}

func TestDispatch_LibraryFailure(t *testing.T) {
	lib := &MockLibrary{Err: errors.New("boom")}
	out := &MockDisplay{}

	err := NewRegistry(Options{}).Dispatch(context.Background(), KindHeatmap, mustParse(t, "a\n1\n2\n"), nil, lib, out)
	require.Error(t, err)
	assert.False(t, IsValidation(err))
	assert.Equal(t, []string{"Failed to render Correlation Heatmap."}, out.Errors)
	assert.Empty(t, out.Shown)
	assert.Len(t, lib.Calls, 1)
}

func TestDispatch_UnknownKind(t *testing.T) {
	lib := &MockLibrary{}
	out := &MockDisplay{}

	err := NewRegistry(Options{}).Dispatch(context.Background(), Kind("pie"), mustParse(t, "a\n1\n"), nil, lib, out)
	assert.Error(t, err)
	assert.Len(t, out.Errors, 1)
	assert.Empty(t, lib.Calls)
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindMap, ParseKind("map"))
	assert.Equal(t, KindSurface, ParseKind(""))
	assert.Equal(t, KindSurface, ParseKind("pie"))
	assert.Equal(t, []Kind{KindSurface, KindHeatmap, KindMap, KindLine, KindNetwork}, Kinds())
}

const infiniteCSV = "x,y,z,latitude,longitude,name,friend\n" +
	"1,1,1,60,10,a,b\n" +
	"1,2,2,inf,20,b,c\n" +
	"2,1,3,61,-inf,c,a\n" +
	"2,2,inf,62,12,d,a\n"

func TestInfiniteCells_RenderOnce(t *testing.T) {
	require.True(t, mustParse(t, infiniteCSV).Columns[2].IsNumeric(), "inf parses as a number")

	tests := []struct {
		kind Kind
		sel  Selection
	}{
		{KindSurface, Selection{"x": "x", "y": "y", "z": "z"}},
		{KindHeatmap, nil},
		{KindMap, nil},
		{KindLine, Selection{"x": "x", "y": "z"}},
		{KindNetwork, Selection{"source": "name", "target": "friend"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			lib, out, err := dispatch(t, tt.kind, infiniteCSV, tt.sel)
			assertRenderedOnce(t, lib, out, err, tt.kind)
		})
	}
}

func TestSurface_PassesInfiniteZ(t *testing.T) {
	lib, out, err := dispatch(t, KindSurface, "x,y,z\n1,1,1\n1,2,2\n2,1,3\n2,2,inf\n", nil)
	assertRenderedOnce(t, lib, out, err, KindSurface)
	assert.True(t, math.IsInf(lib.LastSurface.Z[1][1], 1))
}
