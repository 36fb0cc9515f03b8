// Package hooks runs user commands around `sectorlens export`.
// Hooks are configured in .sectorlens/hooks.yaml and run before the surfaces
// are written (pre-export) or after (post-export).
package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// HookPhase says when a hook runs.
type HookPhase string

const (
	// PreExport runs before any surface is written. Failure cancels the export.
	PreExport HookPhase = "pre-export"
	// PostExport runs after the export. Failure is reported but the files stay.
	PostExport HookPhase = "post-export"
)

// Hook is one configured command.
type Hook struct {
	Name    string            `yaml:"name"`
	Command string            `yaml:"command"`
	Timeout time.Duration     `yaml:"timeout,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	OnError string            `yaml:"on_error,omitempty"` // "fail" or "continue"
}

// Config holds all hook configurations.
type Config struct {
	Hooks HooksByPhase `yaml:"hooks"`
}

// HooksByPhase groups hooks by phase.
type HooksByPhase struct {
	PreExport  []Hook `yaml:"pre-export,omitempty"`
	PostExport []Hook `yaml:"post-export,omitempty"`
}

// ExportContext describes the export to the hook commands.
type ExportContext struct {
	Dir          string    // SECTORLENS_EXPORT_DIR
	Format       string    // SECTORLENS_EXPORT_FORMAT: png or svg
	SurfaceCount int       // SECTORLENS_SURFACE_COUNT: 0 before the export runs
	Year         string    // SECTORLENS_YEAR: label of the exported year, "2021*" for forecasts
	Segment      string    // SECTORLENS_SEGMENT
	SQLitePath   string    // SECTORLENS_SQLITE_PATH, empty when no snapshot is written
	Timestamp    time.Time // SECTORLENS_TIMESTAMP (RFC3339)
}

// ToEnv converts the context to environment variables.
func (c ExportContext) ToEnv() []string {
	return []string{
		"SECTORLENS_EXPORT_DIR=" + c.Dir,
		"SECTORLENS_EXPORT_FORMAT=" + c.Format,
		"SECTORLENS_SURFACE_COUNT=" + strconv.Itoa(c.SurfaceCount),
		"SECTORLENS_YEAR=" + c.Year,
		"SECTORLENS_SEGMENT=" + c.Segment,
		"SECTORLENS_SQLITE_PATH=" + c.SQLitePath,
		"SECTORLENS_TIMESTAMP=" + c.Timestamp.Format(time.RFC3339),
	}
}

// DefaultTimeout is the default hook execution timeout.
const DefaultTimeout = 30 * time.Second

// Loader loads hook configuration from <project>/.sectorlens/hooks.yaml.
type Loader struct {
	projectDir string
	config     *Config
	warnings   []string
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithProjectDir sets the project directory (default: current directory).
func WithProjectDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.projectDir = dir
	}
}

// NewLoader creates a hook loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.projectDir == "" {
		l.projectDir, _ = os.Getwd()
	}
	return l
}

// Path returns the hooks file location.
func (l *Loader) Path() string {
	return filepath.Join(l.projectDir, ".sectorlens", "hooks.yaml")
}

// Load reads the hooks file. A missing file means no hooks.
func (l *Loader) Load() error {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.config = &Config{}
			return nil
		}
		return fmt.Errorf("reading hooks config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	config.Hooks.PreExport, l.warnings = normalizeHooks(config.Hooks.PreExport, PreExport, l.warnings)
	config.Hooks.PostExport, l.warnings = normalizeHooks(config.Hooks.PostExport, PostExport, l.warnings)
	l.config = &config
	return nil
}

// normalizeHooks applies defaults, drops empty commands, and accumulates warnings.
func normalizeHooks(hooks []Hook, phase HookPhase, warnings []string) ([]Hook, []string) {
	var out []Hook
	for i, hook := range hooks {
		if strings.TrimSpace(hook.Command) == "" {
			warnings = append(warnings, fmt.Sprintf("%s hook %d has empty command; skipping", phase, i+1))
			continue
		}
		if hook.Timeout <= 0 {
			hook.Timeout = DefaultTimeout
		}
		if hook.OnError == "" {
			if phase == PreExport {
				hook.OnError = "fail"
			} else {
				hook.OnError = "continue"
			}
		}
		if hook.Name == "" {
			hook.Name = fmt.Sprintf("%s-%d", phase, i+1)
		}
		out = append(out, hook)
	}
	return out, warnings
}

// Config returns the loaded configuration, or an empty one.
func (l *Loader) Config() *Config {
	if l.config == nil {
		return &Config{}
	}
	return l.config
}

// HasHooks reports whether any hook is configured.
func (l *Loader) HasHooks() bool {
	if l.config == nil {
		return false
	}
	return len(l.config.Hooks.PreExport) > 0 || len(l.config.Hooks.PostExport) > 0
}

// GetHooks returns the hooks for phase.
func (l *Loader) GetHooks(phase HookPhase) []Hook {
	if l.config == nil {
		return nil
	}
	switch phase {
	case PreExport:
		return l.config.Hooks.PreExport
	case PostExport:
		return l.config.Hooks.PostExport
	default:
		return nil
	}
}

// Warnings returns problems found while loading.
func (l *Loader) Warnings() []string {
	return l.warnings
}

// UnmarshalYAML accepts timeouts as durations ("5s") or bare seconds ("30").
func (h *Hook) UnmarshalYAML(node *yaml.Node) error {
	type hookDTO struct {
		Name    string            `yaml:"name"`
		Command string            `yaml:"command"`
		Timeout string            `yaml:"timeout,omitempty"`
		Env     map[string]string `yaml:"env,omitempty"`
		OnError string            `yaml:"on_error,omitempty"`
	}

	var dto hookDTO
	if err := node.Decode(&dto); err != nil {
		return err
	}
	h.Name = dto.Name
	h.Command = dto.Command
	h.Env = dto.Env
	h.OnError = dto.OnError

	if dto.Timeout == "" {
		return nil
	}
	d, err := time.ParseDuration(dto.Timeout)
	if err == nil {
		h.Timeout = d
		return nil
	}
	seconds, serr := strconv.ParseFloat(dto.Timeout, 64)
	if serr != nil {
		return fmt.Errorf("invalid timeout %q: %w", dto.Timeout, err)
	}
	h.Timeout = time.Duration(seconds * float64(time.Second))
	return nil
}
