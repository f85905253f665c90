package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port         string `toml:"port"`
	MaxUploadMB  int64  `toml:"max_upload_mb"`
	MaxRows      int    `toml:"max_rows"`
	PreviewRows  int    `toml:"preview_rows"`
	SessionTTL   string `toml:"session_ttl"`
	SweepEvery   string `toml:"sweep_every"`
	TrustedProxy string `toml:"trusted_proxy"`
}

type ChartConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`

	SurfacePalette string `toml:"surface_palette"`
	ContourLevels  int    `toml:"contour_levels"`

	LineBackground string `toml:"line_background"`
	LineForeground string `toml:"line_foreground"`
	LineColor      string `toml:"line_color"`
	MaxFrames      int    `toml:"max_frames"`
	FrameDelay     int    `toml:"frame_delay"` // hundredths of a second
	FrameWorkers   int    `toml:"frame_workers"`

	NetworkHeight     int    `toml:"network_height"`
	NetworkBackground string `toml:"network_background"`
	NetworkFontColor  string `toml:"network_font_color"`
	LayoutUpdates     int    `toml:"layout_updates"`
	Community         string `toml:"community"`

	TileURL         string `toml:"tile_url"`
	TileAttribution string `toml:"tile_attribution"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type InsightPrompts struct {
	Dataset string `toml:"dataset"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Charts   ChartConfig    `toml:"charts"`
	LLM      LLMConfig      `toml:"llm"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	Prompts  InsightPrompts `toml:"prompts"`
}

const DefaultDatasetPrompt = `You are a data analyst. A user uploaded a table named %q.

Columns:
%s
Pearson correlations between numeric columns:
%s
Describe the dataset in three or four sentences and point out the strongest relationships.
Respond with JSON: {"summary": "..."}`

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			MaxUploadMB: 32,
			MaxRows:     100000,
			PreviewRows: 5,
			SessionTTL:  "1h",
			SweepEvery:  "5m",
		},
		Charts: ChartConfig{
			Width:             900,
			Height:            600,
			SurfacePalette:    "blackbody",
			ContourLevels:     10,
			LineBackground:    "#111111",
			LineForeground:    "#f2f5fa",
			LineColor:         "#636efa",
			MaxFrames:         60,
			FrameDelay:        8,
			FrameWorkers:      4,
			NetworkHeight:     500,
			NetworkBackground: "#222222",
			NetworkFontColor:  "#ffffff",
			LayoutUpdates:     50,
			Community:         "lpa",
			TileURL:           "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			TileAttribution:   "&copy; OpenStreetMap contributors",
		},
		Prompts: InsightPrompts{
			Dataset: DefaultDatasetPrompt,
		},
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file
// keep their default value.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyEnv overrides file values with environment variables when set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Server.Port, "PORT")
	set(&c.Server.SessionTTL, "SESSION_TTL")
	set(&c.Memgraph.URI, "MEMGRAPH_URI")
	set(&c.Memgraph.User, "MEMGRAPH_USER")
	set(&c.Memgraph.Password, "MEMGRAPH_PASSWORD")
	set(&c.LLM.Provider, "LLM_PROVIDER")
	set(&c.LLM.Model, "LLM_MODEL")
	set(&c.LLM.APIKey, "LLM_API_KEY")
	set(&c.LLM.BaseURL, "LLM_BASE_URL")

	if v := getenv("MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Server.MaxUploadMB = n
		}
	}
}

func (c *Config) Validate() error {
	if _, err := c.Server.TTL(); err != nil {
		return fmt.Errorf("invalid server.session_ttl: %w", err)
	}
	if _, err := c.Server.SweepInterval(); err != nil {
		return fmt.Errorf("invalid server.sweep_every: %w", err)
	}
	if c.Charts.Width <= 0 || c.Charts.Height <= 0 {
		return fmt.Errorf("charts.width and charts.height must be positive")
	}
	return nil
}

func (s ServerConfig) TTL() (time.Duration, error) {
	if s.SessionTTL == "" {
		return 0, nil
	}
	return time.ParseDuration(s.SessionTTL)
}

func (s ServerConfig) SweepInterval() (time.Duration, error) {
	if s.SweepEvery == "" {
		return 0, nil
	}
	return time.ParseDuration(s.SweepEvery)
}
