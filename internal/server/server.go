package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/vizboard/internal/config"
	"github.com/agenthands/vizboard/internal/core"
	"github.com/agenthands/vizboard/internal/core/insight"
	"github.com/agenthands/vizboard/internal/core/viz"
	"github.com/agenthands/vizboard/internal/driver"
	"github.com/agenthands/vizboard/internal/llm"
	"github.com/agenthands/vizboard/internal/render"
	"github.com/agenthands/vizboard/internal/store"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type Server struct {
	Dashboard *core.Dashboard
	Config    *config.Config

	templates *template.Template
	closer    func(context.Context) error
}

// NewServer wires the dashboard from cfg. Memgraph and the LLM provider are
// only connected when configured.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	ttl, err := cfg.Server.TTL()
	if err != nil {
		return nil, err
	}

	lib, err := render.NewLibrary(cfg.Charts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chart library: %w", err)
	}

	var graphDriver driver.GraphDriver
	var closer func(context.Context) error
	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Memgraph: %w", err)
		}
		if err := d.BuildIndices(ctx); err != nil {
			log.Printf("Warning: failed to build indices: %v", err)
		}
		graphDriver = d
		closer = d.Close
	} else {
		log.Println("No Memgraph URI configured, graph export disabled")
	}

	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	if llmClient == nil {
		log.Println("No LLM provider configured, dataset insight disabled")
	}

	dash := core.NewDashboard(
		store.NewSessions(ttl),
		viz.NewRegistry(viz.Options{MaxFrames: cfg.Charts.MaxFrames}),
		lib,
		graphDriver,
		insight.NewDescriber(llmClient, cfg.Prompts),
	)
	dash.Detector = lib.Detector
	if cfg.Server.MaxRows > 0 {
		dash.ParseOptions.MaxRows = cfg.Server.MaxRows
	}

	return New(dash, cfg, closer)
}

// New builds a Server around an already wired dashboard.
func New(dash *core.Dashboard, cfg *config.Config, closer func(context.Context) error) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Server{
		Dashboard: dash,
		Config:    cfg,
		templates: tmpl,
		closer:    closer,
	}, nil
}

func (s *Server) Close(ctx context.Context) error {
	if s.closer == nil {
		return nil
	}
	return s.closer(ctx)
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	var proxies []string
	if s.Config.Server.TrustedProxy != "" {
		proxies = []string{s.Config.Server.TrustedProxy}
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		log.Printf("Warning: invalid trusted proxy %q: %v", s.Config.Server.TrustedProxy, err)
	}

	r.MaxMultipartMemory = s.Config.Server.MaxUploadMB << 20
	r.SetHTMLTemplate(s.templates)

	r.GET("/", s.Index)
	r.POST("/datasets", s.Upload)
	r.GET("/datasets/:id", s.DatasetPage)
	r.GET("/datasets/:id/charts/:kind", s.Chart)

	api := r.Group("/api/datasets/:id")
	api.GET("", s.GetDataset)
	api.DELETE("", s.DeleteDataset)
	api.POST("/insight", s.Insight)
	api.POST("/graph/export", s.ExportGraph)
	api.DELETE("/graph", s.DeleteGraph)

	r.GET("/healthz", s.Health)

	return r
}

// Sweeper evicts expired datasets every interval until ctx is done. A zero
// interval disables it.
func (s *Server) Sweeper(ctx context.Context) error {
	interval, err := s.Config.Server.SweepInterval()
	if err != nil {
		return err
	}
	if interval <= 0 {
		return nil
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Dashboard.Sweep()
			}
		}
	}()
	return nil
}
