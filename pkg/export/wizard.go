package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/sectorlens/pkg/config"
)

// WizardConfig holds the choices collected by the export wizard. It is saved
// between runs and offered as the default next time.
type WizardConfig struct {
	Format     string  `json:"format"`
	Dir        string  `json:"dir"`
	SQLitePath string  `json:"sqlite_path,omitempty"`
	DPR        float64 `json:"dpr"`
	Sparks     bool    `json:"sparks"`
}

// DefaultWizardConfig derives wizard defaults from the app config.
func DefaultWizardConfig(cfg config.Config) WizardConfig {
	return WizardConfig{
		Format: cfg.Export.Format,
		Dir:    cfg.Export.Dir,
		DPR:    cfg.Render.DPR,
		Sparks: true,
	}
}

// Wizard handles the interactive export flow.
type Wizard struct {
	config WizardConfig
}

// NewWizard creates a wizard seeded with defaults. A saved configuration,
// when present, replaces them.
func NewWizard(defaults WizardConfig) *Wizard {
	w := &Wizard{config: defaults}
	if saved, err := LoadWizardConfig(WizardConfigPath()); err == nil && saved != nil {
		w.config = *saved
	}
	return w
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run executes the interactive wizard and saves the answers.
func (w *Wizard) Run() (WizardConfig, error) {
	format := w.config.Format
	if format == "" {
		format = FormatPNG
	}
	dir := w.config.Dir
	sqlitePath := w.config.SQLitePath
	dpr := FormatDPR(w.config.DPR)
	sparks := w.config.Sparks

	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Image format").
				Options(
					huh.NewOption("PNG (raster, device pixels)", FormatPNG),
					huh.NewOption("SVG (vector)", FormatSVG),
				).
				Value(&format),
			huh.NewInput().
				Title("Output directory").
				Value(&dir).
				Validate(ValidateDir),
			huh.NewSelect[string]().
				Title("Device pixel ratio").
				Options(huh.NewOptions("1", "1.5", "2", "3")...).
				Value(&dpr),
			huh.NewConfirm().
				Title("Include detail sparklines?").
				Value(&sparks),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("SQLite snapshot path (optional)").
				Description("Leave empty to skip the data snapshot").
				Value(&sqlitePath).
				Placeholder(filepath.Join(dir, "sectorlens.db")),
		),
	)

	if err := form.Run(); err != nil {
		return w.config, err
	}

	ratio, err := ParseDPR(dpr)
	if err != nil {
		return w.config, err
	}
	w.config = WizardConfig{
		Format:     format,
		Dir:        strings.TrimSpace(dir),
		SQLitePath: strings.TrimSpace(sqlitePath),
		DPR:        ratio,
		Sparks:     sparks,
	}

	if err := SaveWizardConfig(WizardConfigPath(), w.config); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save export settings: %v\n", err)
	}
	return w.config, nil
}

// Config returns the collected configuration.
func (w *Wizard) Config() WizardConfig {
	return w.config
}

// ValidateDir rejects empty paths and paths that exist as regular files.
func ValidateDir(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return fmt.Errorf("output directory is required")
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return fmt.Errorf("%s is a file", dir)
	}
	return nil
}

// ParseDPR parses a positive device pixel ratio.
func ParseDPR(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid device pixel ratio %q", s)
	}
	return v, nil
}

// FormatDPR renders a ratio the way ParseDPR reads it. Non-positive ratios
// become "1".
func FormatDPR(v float64) string {
	if v <= 0 {
		return "1"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WizardConfigPath returns where wizard answers are saved.
func WizardConfigPath() string {
	dir := config.ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "export-wizard.json")
}

// LoadWizardConfig reads saved answers. It returns nil, nil when none exist.
func LoadWizardConfig(path string) (*WizardConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("could not determine config path")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg WizardConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveWizardConfig saves answers for future runs.
func SaveWizardConfig(path string, cfg WizardConfig) error {
	if path == "" {
		return fmt.Errorf("could not determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
