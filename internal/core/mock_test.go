package core

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/vizboard/internal/core/viz"
)

type executedQuery struct {
	Query  string
	Params map[string]interface{}
}

type MockDriver struct {
	Executed   []executedQuery
	MockResult neo4j.EagerResult
	Err        error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.Executed = append(m.Executed, executedQuery{Query: query, Params: params})
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	return m.MockResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

type MockLLM struct {
	Response string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return m.Response, nil
}

// StubLibrary answers every chart call with a tiny artifact.
type StubLibrary struct {
	Calls int
}

func (s *StubLibrary) artifact(kind viz.Kind) (*viz.Artifact, error) {
	s.Calls++
	return &viz.Artifact{Kind: kind, ContentType: viz.ContentPNG, Data: []byte("png")}, nil
}

func (s *StubLibrary) Surface(ctx context.Context, spec viz.SurfaceSpec) (*viz.Artifact, error) {
	return s.artifact(viz.KindSurface)
}

func (s *StubLibrary) Heatmap(ctx context.Context, spec viz.HeatmapSpec) (*viz.Artifact, error) {
	return s.artifact(viz.KindHeatmap)
}

func (s *StubLibrary) Map(ctx context.Context, spec viz.MapSpec) (*viz.Artifact, error) {
	return s.artifact(viz.KindMap)
}

func (s *StubLibrary) Line(ctx context.Context, spec viz.LineSpec) (*viz.Artifact, error) {
	return s.artifact(viz.KindLine)
}

func (s *StubLibrary) Network(ctx context.Context, spec viz.NetworkSpec) (*viz.Artifact, error) {
	return s.artifact(viz.KindNetwork)
}

type recordingDisplay struct {
	errors []string
	shown  []*viz.Artifact
}

func (r *recordingDisplay) Error(msg string)     { r.errors = append(r.errors, msg) }
func (r *recordingDisplay) Show(a *viz.Artifact) { r.shown = append(r.shown, a) }
