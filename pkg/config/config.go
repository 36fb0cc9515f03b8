// Package config handles loading and saving sectorlens configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/sectorlens/config.yaml
//   - Data:    ~/.local/share/sectorlens/ (exports)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "sectorlens"

// Source is a named pair of feed locations. A location is a file path, an
// http(s) URL, or a .db snapshot written by `sectorlens export`.
type Source struct {
	Name    string `yaml:"name"`
	Primary string `yaml:"primary"`
	Overlay string `yaml:"overlay,omitempty"`
}

// DataConfig names the default feeds.
type DataConfig struct {
	Primary string   `yaml:"primary,omitempty"`
	Overlay string   `yaml:"overlay,omitempty"`
	Sources []Source `yaml:"sources,omitempty"`
}

// RenderConfig sizes the chart surfaces in CSS pixels.
type RenderConfig struct {
	DPR           float64 `yaml:"dpr,omitempty"`
	Width         float64 `yaml:"width,omitempty"` // Matrix and export width
	ScatterHeight float64 `yaml:"scatter_height,omitempty"`
	ChartHeight   float64 `yaml:"chart_height,omitempty"` // Growth/profit and ranking charts
	SparkWidth    float64 `yaml:"spark_width,omitempty"`
	SparkHeight   float64 `yaml:"spark_height,omitempty"`
}

// UIConfig holds dashboard preferences.
type UIConfig struct {
	DefaultMode    string `yaml:"default_mode,omitempty"`    // heatmap, growth-profit, ikb-ranking
	DefaultSegment string `yaml:"default_segment,omitempty"` // all, developing, core, watchlist
}

// WatchConfig controls live reload of local feed files.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled,omitempty"`
	DebounceMs int  `yaml:"debounce_ms,omitempty"`
	PollMs     int  `yaml:"poll_ms,omitempty"` // Non-zero forces polling instead of fsnotify
}

// ExportConfig holds snapshot export defaults.
type ExportConfig struct {
	Format string `yaml:"format,omitempty"` // png or svg
	Dir    string `yaml:"dir,omitempty"`
}

// Config is the top-level configuration for sectorlens.
type Config struct {
	Data   DataConfig   `yaml:"data,omitempty"`
	Render RenderConfig `yaml:"render,omitempty"`
	UI     UIConfig     `yaml:"ui,omitempty"`
	Watch  WatchConfig  `yaml:"watch,omitempty"`
	Export ExportConfig `yaml:"export,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			Primary: "data/dashboard_data.json",
		},
		Render: RenderConfig{
			DPR:           1,
			Width:         1000,
			ScatterHeight: 320,
			ChartHeight:   420,
			SparkWidth:    220,
			SparkHeight:   60,
		},
		UI: UIConfig{
			DefaultMode:    "heatmap",
			DefaultSegment: "all",
		},
		Watch: WatchConfig{
			DebounceMs: 200,
		},
		Export: ExportConfig{
			Format: "png",
			Dir:    filepath.Join(DataDir(), "exports"),
		},
	}
}

// ConfigDir returns the XDG config directory for sectorlens.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// DataDir returns the XDG data directory for sectorlens.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Data.Primary = expandHome(cfg.Data.Primary)
	cfg.Data.Overlay = expandHome(cfg.Data.Overlay)
	for i := range cfg.Data.Sources {
		cfg.Data.Sources[i].Primary = expandHome(cfg.Data.Sources[i].Primary)
		cfg.Data.Sources[i].Overlay = expandHome(cfg.Data.Sources[i].Overlay)
	}
	cfg.Export.Dir = expandHome(cfg.Export.Dir)
	cfg.normalize()

	return cfg, nil
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Render.DPR <= 0 {
		c.Render.DPR = def.Render.DPR
	}
	if c.Render.Width <= 0 {
		c.Render.Width = def.Render.Width
	}
	if c.Render.ScatterHeight <= 0 {
		c.Render.ScatterHeight = def.Render.ScatterHeight
	}
	if c.Render.ChartHeight <= 0 {
		c.Render.ChartHeight = def.Render.ChartHeight
	}
	if c.Render.SparkWidth <= 0 {
		c.Render.SparkWidth = def.Render.SparkWidth
	}
	if c.Render.SparkHeight <= 0 {
		c.Render.SparkHeight = def.Render.SparkHeight
	}
	if c.Watch.DebounceMs <= 0 {
		c.Watch.DebounceMs = def.Watch.DebounceMs
	}
	c.Export.Format = strings.ToLower(strings.TrimPrefix(c.Export.Format, "."))
	if c.Export.Format != "png" && c.Export.Format != "svg" {
		c.Export.Format = def.Export.Format
	}
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// FindSource returns the named source, or nil.
func (c Config) FindSource(name string) *Source {
	for i := range c.Data.Sources {
		if strings.EqualFold(c.Data.Sources[i].Name, name) {
			return &c.Data.Sources[i]
		}
	}
	return nil
}

// UseSource makes the named source the active primary/overlay pair.
func (c *Config) UseSource(name string) error {
	src := c.FindSource(name)
	if src == nil {
		return fmt.Errorf("unknown source %q", name)
	}
	c.Data.Primary = src.Primary
	c.Data.Overlay = src.Overlay
	return nil
}

// Debounce returns the watch debounce interval.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}

// PollInterval returns the forced polling interval, or 0 for fsnotify.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Watch.PollMs) * time.Millisecond
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
