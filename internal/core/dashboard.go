package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/agenthands/vizboard/internal/core/community"
	"github.com/agenthands/vizboard/internal/core/dataset"
	"github.com/agenthands/vizboard/internal/core/insight"
	"github.com/agenthands/vizboard/internal/core/model"
	"github.com/agenthands/vizboard/internal/core/viz"
	"github.com/agenthands/vizboard/internal/driver"
	"github.com/agenthands/vizboard/internal/store"
)

var ErrExportDisabled = errors.New("graph export is disabled: no memgraph uri configured")

// Dashboard ties uploads, chart dispatch and the optional graph export and
// insight features together. Every interaction looks the dataset up again.
type Dashboard struct {
	Sessions  *store.Sessions
	Registry  *viz.Registry
	Library   viz.Library
	Driver    driver.GraphDriver
	Describer *insight.Describer
	Detector  community.CommunityDetector

	ParseOptions dataset.Options
	Now          func() time.Time
}

func NewDashboard(sessions *store.Sessions, registry *viz.Registry, lib viz.Library, graphDriver driver.GraphDriver, describer *insight.Describer) *Dashboard {
	return &Dashboard{
		Sessions:     sessions,
		Registry:     registry,
		Library:      lib,
		Driver:       graphDriver,
		Describer:    describer,
		Detector:     community.NewLabelPropagationDetector(),
		ParseOptions: dataset.DefaultOptions(),
		Now:          time.Now,
	}
}

func (d *Dashboard) Upload(ctx context.Context, name string, r io.Reader) (*model.Dataset, error) {
	ds, err := dataset.Parse(name, r, d.ParseOptions)
	if err != nil {
		return nil, err
	}
	d.Sessions.Put(ds)
	log.Printf("Stored dataset %s (%s): %d rows, %d columns", ds.ID, ds.Name, ds.Rows, len(ds.Columns))
	return ds, nil
}

func (d *Dashboard) Dataset(id string) (*model.Dataset, error) {
	return d.Sessions.Get(id)
}

// Roles returns the dropdowns the chart kind offers for the dataset.
func (d *Dashboard) Roles(id string, kind viz.Kind, sel viz.Selection) ([]viz.Role, error) {
	ds, err := d.Sessions.Get(id)
	if err != nil {
		return nil, err
	}
	h, err := d.Registry.Handler(kind)
	if err != nil {
		return nil, err
	}
	return h.Roles(ds, sel), nil
}

// Render runs one chart interaction against the stored dataset.
func (d *Dashboard) Render(ctx context.Context, id string, kind viz.Kind, sel viz.Selection, out viz.Display) error {
	ds, err := d.Sessions.Get(id)
	if err != nil {
		return err
	}
	return d.Registry.Dispatch(ctx, kind, ds, sel, d.Library, out)
}

type ExportResult struct {
	DatasetID   string `json:"dataset_id"`
	SourceCol   string `json:"source"`
	TargetCol   string `json:"target"`
	Nodes       int    `json:"nodes"`
	Edges       int    `json:"edges"`
	Communities int    `json:"communities"`
}

// ExportGraph writes the social network selected by sel to the graph store,
// tagging each person with its community.
func (d *Dashboard) ExportGraph(ctx context.Context, id string, sel viz.Selection) (*ExportResult, error) {
	if d.Driver == nil {
		return nil, ErrExportDisabled
	}
	ds, err := d.Sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if len(ds.Columns) < 2 {
		return nil, &viz.ValidationError{Kind: viz.KindNetwork, Message: "Dataset must have at least two columns (Source and Target)."}
	}

	src, tgt := (&viz.NetworkHandler{}).Columns(ds, sel)
	edges := viz.EdgeList(src, tgt)
	if len(edges) == 0 {
		return nil, &viz.ValidationError{Kind: viz.KindNetwork, Message: fmt.Sprintf("No edges found between '%s' and '%s'.", src.Name, tgt.Name)}
	}

	edgeParams := make([]map[string]interface{}, len(edges))
	for i, e := range edges {
		edgeParams[i] = map[string]interface{}{"source": e.Source, "target": e.Target}
	}
	_, err = d.Driver.ExecuteQuery(ctx, driver.SaveDatasetGraphQuery, map[string]interface{}{
		"dataset_id":    ds.ID,
		"edges":         edgeParams,
		"source_column": src.Name,
		"target_column": tgt.Name,
		"exported_at":   d.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save graph: %w", err)
	}

	_, nodes := community.BuildGraph(edges)
	communities, err := d.Detector.Detect(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("community detection failed: %w", err)
	}
	for i, c := range communities {
		members := make([]string, len(c))
		for j, n := range c {
			members[j] = n.Name
		}
		_, err := d.Driver.ExecuteQuery(ctx, driver.SaveCommunityQuery, map[string]interface{}{
			"dataset_id": ds.ID,
			"community":  i,
			"members":    members,
		})
		if err != nil {
			log.Printf("Failed to tag community %d of dataset %s: %v", i, ds.ID, err)
		}
	}

	return &ExportResult{
		DatasetID:   ds.ID,
		SourceCol:   src.Name,
		TargetCol:   tgt.Name,
		Nodes:       len(nodes),
		Edges:       len(edges),
		Communities: len(communities),
	}, nil
}

// DeleteGraph removes a previously exported graph. The dataset itself may
// already have expired.
func (d *Dashboard) DeleteGraph(ctx context.Context, id string) error {
	if d.Driver == nil {
		return ErrExportDisabled
	}
	_, err := d.Driver.ExecuteQuery(ctx, driver.DeleteDatasetGraphQuery, map[string]interface{}{"dataset_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete graph: %w", err)
	}
	return nil
}

func (d *Dashboard) Describe(ctx context.Context, id string) (string, error) {
	ds, err := d.Sessions.Get(id)
	if err != nil {
		return "", err
	}
	return d.Describer.Describe(ctx, ds)
}

func (d *Dashboard) Forget(id string) bool {
	return d.Sessions.Delete(id)
}

// Sweep drops expired sessions.
func (d *Dashboard) Sweep() int {
	n := d.Sessions.Sweep()
	if n > 0 {
		log.Printf("Evicted %d expired datasets", n)
	}
	return n
}
