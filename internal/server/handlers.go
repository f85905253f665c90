package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/vizboard/internal/core"
	"github.com/agenthands/vizboard/internal/core/dataset"
	"github.com/agenthands/vizboard/internal/core/insight"
	"github.com/agenthands/vizboard/internal/core/model"
	"github.com/agenthands/vizboard/internal/core/viz"
	"github.com/agenthands/vizboard/internal/store"
)

// selectionParams are the query keys read as dropdown choices.
var selectionParams = []string{"x", "y", "z", "source", "target"}

type kindOption struct {
	Kind     viz.Kind
	Title    string
	Selected bool
}

type datasetPage struct {
	Dataset     *model.Dataset
	Kind        viz.Kind
	Title       string
	Kinds       []kindOption
	Roles       []viz.Role
	Preview     [][]string
	Display     *htmlDisplay
	CanExport   bool
	CanDescribe bool
}

func (s *Server) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html.tmpl", gin.H{"MaxUploadMB": s.Config.Server.MaxUploadMB})
}

func (s *Server) uploadError(c *gin.Context, status int, msg string) {
	c.HTML(status, "index.html.tmpl", gin.H{"MaxUploadMB": s.Config.Server.MaxUploadMB, "Error": msg})
}

func (s *Server) Upload(c *gin.Context) {
	limit := s.Config.Server.MaxUploadMB << 20
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.uploadError(c, http.StatusRequestEntityTooLarge, "File is too large.")
			return
		}
		s.uploadError(c, http.StatusBadRequest, "Please choose a CSV file to upload.")
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
		s.uploadError(c, http.StatusBadRequest, "Only .csv files are supported.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		log.Printf("Failed to open upload: %v", err)
		s.uploadError(c, http.StatusInternalServerError, "Failed to read the upload.")
		return
	}
	defer f.Close()

	ds, err := s.Dashboard.Upload(c.Request.Context(), filepath.Base(fh.Filename), f)
	if err != nil {
		s.uploadError(c, http.StatusBadRequest, uploadMessage(err))
		return
	}

	c.Redirect(http.StatusSeeOther, "/datasets/"+ds.ID)
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, dataset.ErrEmpty), errors.Is(err, dataset.ErrNoRows):
		return "The file has no data rows."
	case errors.Is(err, dataset.ErrNotText):
		return "The file does not look like a CSV text file."
	case errors.Is(err, dataset.ErrTooManyRows):
		return "The file has too many rows."
	}
	log.Printf("Failed to parse upload: %v", err)
	return "The file could not be parsed as CSV."
}

func selection(c *gin.Context) viz.Selection {
	sel := viz.Selection{}
	for _, key := range selectionParams {
		if v := c.Query(key); v != "" {
			sel[key] = v
		}
	}
	return sel
}

func (s *Server) DatasetPage(c *gin.Context) {
	id := c.Param("id")
	ds, err := s.Dashboard.Dataset(id)
	if err != nil {
		s.uploadError(c, http.StatusNotFound, "Dataset not found or expired. Please upload it again.")
		return
	}

	kind := viz.ParseKind(c.Query("viz"))
	sel := selection(c)

	roles, err := s.Dashboard.Roles(id, kind, sel)
	if err != nil {
		log.Printf("Failed to resolve columns for %s: %v", kind, err)
	}

	out := &htmlDisplay{}
	if err := s.Dashboard.Render(c.Request.Context(), id, kind, sel, out); err != nil && !viz.IsValidation(err) {
		log.Printf("Failed to render %s for dataset %s: %v", kind, id, err)
	}

	kinds := make([]kindOption, 0, len(viz.Kinds()))
	for _, k := range viz.Kinds() {
		kinds = append(kinds, kindOption{Kind: k, Title: viz.Title(k), Selected: k == kind})
	}

	c.HTML(http.StatusOK, "dataset.html.tmpl", datasetPage{
		Dataset:     ds,
		Kind:        kind,
		Title:       viz.Title(kind),
		Kinds:       kinds,
		Roles:       roles,
		Preview:     ds.Head(s.Config.Server.PreviewRows),
		Display:     out,
		CanExport:   s.Dashboard.Driver != nil,
		CanDescribe: s.Dashboard.Describer != nil && s.Dashboard.Describer.LLM != nil,
	})
}

func knownKind(name string) (viz.Kind, bool) {
	for _, k := range viz.Kinds() {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

// Chart serves the raw artifact for one visualization.
func (s *Server) Chart(c *gin.Context) {
	kind, ok := knownKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown visualization"})
		return
	}

	out := &htmlDisplay{}
	err := s.Dashboard.Render(c.Request.Context(), c.Param("id"), kind, selection(c), out)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
		return
	case viz.IsValidation(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Printf("Failed to render %s: %v", kind, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": strings.Join(out.Errors, " ")})
		return
	}

	c.Data(http.StatusOK, out.Artifact.ContentType, out.Artifact.Data)
}

func (s *Server) GetDataset(c *gin.Context) {
	ds, err := s.Dashboard.Dataset(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
		return
	}

	visualizations := make([]gin.H, 0, len(viz.Kinds()))
	for _, k := range viz.Kinds() {
		visualizations = append(visualizations, gin.H{"kind": k, "title": viz.Title(k)})
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             ds.ID,
		"name":           ds.Name,
		"rows":           ds.Rows,
		"columns":        ds.Summary(),
		"visualizations": visualizations,
	})
}

func (s *Server) DeleteDataset(c *gin.Context) {
	if !s.Dashboard.Forget(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) Insight(c *gin.Context) {
	summary, err := s.Dashboard.Describe(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
		return
	case errors.Is(err, insight.ErrInsightDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Printf("Failed to describe dataset: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to describe dataset"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

type ExportRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func (s *Server) ExportGraph(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sel := viz.Selection{}
	if req.Source != "" {
		sel["source"] = req.Source
	}
	if req.Target != "" {
		sel["target"] = req.Target
	}

	res, err := s.Dashboard.ExportGraph(c.Request.Context(), c.Param("id"), sel)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
		return
	case errors.Is(err, core.ErrExportDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case viz.IsValidation(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Printf("Failed to export graph: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export graph"})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) DeleteGraph(c *gin.Context) {
	err := s.Dashboard.DeleteGraph(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, core.ErrExportDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Printf("Failed to delete graph: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete graph"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "datasets": s.Dashboard.Sessions.Len()})
}
