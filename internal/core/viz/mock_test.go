package viz

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agenthands/vizboard/internal/core/dataset"
	"github.com/agenthands/vizboard/internal/core/model"
)

type MockLibrary struct {
	Calls       []string
	LastSurface *SurfaceSpec
	LastHeatmap *HeatmapSpec
	LastMap     *MapSpec
	LastLine    *LineSpec
	LastNetwork *NetworkSpec
	Err         error
}

func (m *MockLibrary) artifact(kind Kind) (*Artifact, error) {
	m.Calls = append(m.Calls, string(kind))
	if m.Err != nil {
		return nil, m.Err
	}
	return &Artifact{Kind: kind, ContentType: ContentPNG, Data: []byte(kind)}, nil
}

func (m *MockLibrary) Surface(ctx context.Context, spec SurfaceSpec) (*Artifact, error) {
	m.LastSurface = &spec
	return m.artifact(KindSurface)
}

func (m *MockLibrary) Heatmap(ctx context.Context, spec HeatmapSpec) (*Artifact, error) {
	m.LastHeatmap = &spec
	return m.artifact(KindHeatmap)
}

func (m *MockLibrary) Map(ctx context.Context, spec MapSpec) (*Artifact, error) {
	m.LastMap = &spec
	return m.artifact(KindMap)
}

func (m *MockLibrary) Line(ctx context.Context, spec LineSpec) (*Artifact, error) {
	m.LastLine = &spec
	return m.artifact(KindLine)
}

func (m *MockLibrary) Network(ctx context.Context, spec NetworkSpec) (*Artifact, error) {
	m.LastNetwork = &spec
	return m.artifact(KindNetwork)
}

type MockDisplay struct {
	Errors []string
	Shown  []*Artifact
}

func (m *MockDisplay) Error(msg string) { m.Errors = append(m.Errors, msg) }
func (m *MockDisplay) Show(a *Artifact) { m.Shown = append(m.Shown, a) }

func mustParse(t *testing.T, csv string) *model.Dataset {
	t.Helper()
	ds, err := dataset.Parse("test.csv", strings.NewReader(csv), dataset.DefaultOptions())
	require.NoError(t, err)
	return ds
}
