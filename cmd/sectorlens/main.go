// Command sectorlens is a terminal dashboard for sector-level economic
// indicators, with export and report subcommands for batch use.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/sectorlens/internal/datasource"
	"github.com/vanderheijden86/sectorlens/pkg/config"
	"github.com/vanderheijden86/sectorlens/pkg/dashboard"
	"github.com/vanderheijden86/sectorlens/pkg/debug"
	"github.com/vanderheijden86/sectorlens/pkg/export"
	"github.com/vanderheijden86/sectorlens/pkg/hooks"
	"github.com/vanderheijden86/sectorlens/pkg/metrics"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/state"
	"github.com/vanderheijden86/sectorlens/pkg/ui"
	"github.com/vanderheijden86/sectorlens/pkg/version"
	"github.com/vanderheijden86/sectorlens/pkg/watcher"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the parsed command line.
type options struct {
	command    string
	configPath string
	source     string
	data       string
	overlay    string
	segment    string
	year       int
	sector     string
	mode       string
	dpr        float64
	watch      bool
	version    bool
	cpuProfile string
	timings    bool

	format  string
	out     string
	sqlite  string
	wizard  bool
	noHooks bool
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var o options
	if len(args) > 0 && (args[0] == "export" || args[0] == "report") {
		o.command, args = args[0], args[1:]
	}

	name := "sectorlens"
	if o.command != "" {
		name += " " + o.command
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sectorlens [export|report] [options]\n\n")
		fmt.Fprintf(stderr, "A terminal dashboard for sector risk and growth indicators.\n\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&o.configPath, "config", "", "Config file (default: XDG config dir)")
	fs.StringVar(&o.source, "source", "", "Named source from the config file")
	fs.StringVar(&o.data, "data", "", "Primary feed: JSON file, http(s) URL, or .db snapshot")
	fs.StringVar(&o.overlay, "overlay", "", "Risk overlay feed: CSV file or http(s) URL")
	fs.StringVar(&o.segment, "segment", "", "Initial segment: all, developing, core, watchlist")
	fs.IntVar(&o.year, "year", 0, "Initial year (default: last year)")
	fs.StringVar(&o.sector, "sector", "", "Initially selected sector id")
	fs.StringVar(&o.mode, "mode", "", "Chart mode: heatmap, growth-profit, ikb-ranking")
	fs.Float64Var(&o.dpr, "dpr", 0, "Device pixel ratio for rendered surfaces")
	fs.BoolVar(&o.watch, "watch", false, "Reload when local feed files change")
	fs.BoolVar(&o.version, "version", false, "Show version")
	fs.StringVar(&o.cpuProfile, "cpu-profile", "", "Write CPU profile to file")
	fs.BoolVar(&o.timings, "timings", false, "Print render timings on exit")
	if o.command == "export" {
		fs.StringVar(&o.format, "format", "", "Image format: png or svg")
		fs.StringVar(&o.out, "out", "", "Output directory")
		fs.StringVar(&o.sqlite, "sqlite", "", "Also write a SQLite snapshot of the data to this path")
		fs.BoolVar(&o.wizard, "wizard", false, "Choose export options interactively")
		fs.BoolVar(&o.noHooks, "no-hooks", false, "Skip .sectorlens/hooks.yaml")
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "sectorlens %s\n", version.Version)
		return 0
	}

	if opts.cpuProfile != "" {
		f, err := os.Create(opts.cpuProfile)
		if err != nil {
			fmt.Fprintf(stderr, "Could not create CPU profile: %v\n", err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "Could not start CPU profile: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	if opts.timings {
		defer func() {
			if err := metrics.WriteReport(stderr); err != nil {
				debug.Log("timings: %v", err)
			}
		}()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, loadErr := datasource.Acquire(ctx, cfg.Data.Primary, cfg.Data.Overlay)

	switch opts.command {
	case "report":
		return runReport(ds, loadErr, opts, cfg, stdout, stderr)
	case "export":
		return runExport(ds, loadErr, opts, cfg, stdout, stderr)
	default:
		return runTUI(ds, loadErr, opts, cfg, stderr)
	}
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(opts options) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFrom(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		// Non-fatal: continue with defaults
		debug.Log("config: %v", err)
		cfg = config.DefaultConfig()
	}

	if opts.source != "" {
		if err := cfg.UseSource(opts.source); err != nil {
			return cfg, err
		}
	}
	if opts.data != "" {
		cfg.Data.Primary = opts.data
	}
	if opts.overlay != "" {
		cfg.Data.Overlay = opts.overlay
	}
	if opts.dpr > 0 {
		cfg.Render.DPR = opts.dpr
	}
	if opts.segment != "" {
		cfg.UI.DefaultSegment = opts.segment
	}
	if opts.mode != "" {
		cfg.UI.DefaultMode = opts.mode
	}
	if opts.format != "" {
		cfg.Export.Format = opts.format
	}
	if opts.out != "" {
		cfg.Export.Dir = opts.out
	}
	if opts.watch {
		cfg.Watch.Enabled = true
	}
	return cfg, nil
}

// viewTarget is implemented by both state.Store and dashboard.Orchestrator.
type viewTarget interface {
	SetSegment(state.Segment) bool
	SetYearIndex(int) bool
	SetChartMode(state.ChartMode) bool
	SelectSector(string) bool
}

// applyView moves the initial view to the requested segment, year, sector
// and mode.
func applyView(t viewTarget, ds *model.Dataset, opts options, cfg config.Config) error {
	t.SetSegment(state.ParseSegment(cfg.UI.DefaultSegment))

	if mode, ok := state.ParseChartMode(cfg.UI.DefaultMode); ok {
		t.SetChartMode(mode)
	} else if cfg.UI.DefaultMode != "" {
		return fmt.Errorf("unknown chart mode %q", cfg.UI.DefaultMode)
	}

	if opts.year != 0 {
		i := ds.YearIndex(opts.year)
		if i < 0 {
			return fmt.Errorf("year %d is not on the axis", opts.year)
		}
		t.SetYearIndex(i)
	}

	if opts.sector != "" {
		if !ds.HasSector(opts.sector) {
			return fmt.Errorf("unknown sector %q", opts.sector)
		}
		t.SelectSector(opts.sector)
	}
	return nil
}

func reportLoadError(stderr io.Writer, err error) {
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}
}

func runReport(ds *model.Dataset, loadErr error, opts options, cfg config.Config, stdout, stderr io.Writer) int {
	reportLoadError(stderr, loadErr)
	store := state.NewStore(ds)
	if err := applyView(store, ds, opts, cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if err := export.WriteReport(stdout, ds, store.View()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// layoutFromConfig sizes every surface from the render settings.
func layoutFromConfig(cfg config.Config) dashboard.Layout {
	r := cfg.Render
	l := dashboard.DefaultLayout(r.DPR).WithWidth(r.Width)
	l.Spark.Width, l.Spark.Height = r.SparkWidth, r.SparkHeight
	l.Scatter.Height = r.ScatterHeight
	l.Matrix.Height = r.ChartHeight
	return l
}

func runExport(ds *model.Dataset, loadErr error, opts options, cfg config.Config, stdout, stderr io.Writer) int {
	reportLoadError(stderr, loadErr)

	sqlitePath := opts.sqlite
	sparks := true
	if opts.wizard {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(stderr, "Error: -wizard needs an interactive terminal")
			return 2
		}
		answers, err := export.NewWizard(export.DefaultWizardConfig(cfg)).Run()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		cfg.Export.Format = answers.Format
		cfg.Export.Dir = answers.Dir
		cfg.Render.DPR = answers.DPR
		sqlitePath = answers.SQLitePath
		sparks = answers.Sparks
	}

	o := dashboard.New(ds, nil, layoutFromConfig(cfg))
	if err := applyView(o, ds, opts, cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	v := o.View()
	hookCtx := hooks.ExportContext{
		Dir:        cfg.Export.Dir,
		Format:     cfg.Export.Format,
		Year:       ds.YearLabel(v.YearIndex),
		Segment:    string(v.Segment),
		SQLitePath: sqlitePath,
		Timestamp:  time.Now(),
	}
	executor, err := hooks.RunHooks("", hookCtx, opts.noHooks)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if executor != nil {
		defer func() {
			if summary := executor.Summary(); summary != "" {
				fmt.Fprintln(stderr, summary)
			}
		}()
		if err := executor.RunPreExport(); err != nil {
			fmt.Fprintf(stderr, "Export cancelled: %v\n", err)
			return 1
		}
	}

	written, err := export.SaveSnapshot(export.SnapshotOptions{
		Dir:      cfg.Export.Dir,
		Format:   cfg.Export.Format,
		Snapshot: o.Snapshot(),
		Sparks:   sparks,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	for _, s := range written {
		fmt.Fprintf(stdout, "%-14s %s\n", s.Name, s.Path)
	}

	if sqlitePath != "" {
		if err := export.NewSQLiteExporter(ds).Export(sqlitePath); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "%-14s %s\n", "sqlite", sqlitePath)
	}

	if executor != nil {
		hookCtx.SurfaceCount = len(written)
		executor.SetContext(hookCtx)
		if err := executor.RunPostExport(); err != nil {
			fmt.Fprintf(stderr, "Warning: %v\n", err)
		}
	}
	return 0
}

// debugLogPath is where the TUI writes debug output.
func debugLogPath() string {
	if p := os.Getenv("SECTORLENS_DEBUG_FILE"); p != "" {
		return p
	}
	return filepath.Join(config.DataDir(), "debug.log")
}

// startDebugLog moves debug output off the terminal for the lifetime of the
// TUI. When the file cannot be opened debug logging is switched off.
func startDebugLog(stderr io.Writer) func() {
	if !debug.Enabled() {
		return func() {}
	}
	path := debugLogPath()
	restore, err := debug.ToFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: debug logging disabled: %v\n", err)
		debug.SetEnabled(false)
		return func() {}
	}
	fmt.Fprintf(stderr, "Debug log: %s\n", path)
	return restore
}

func runTUI(ds *model.Dataset, loadErr error, opts options, cfg config.Config, stderr io.Writer) int {
	defer startDebugLog(stderr)()

	var w *watcher.Watcher
	if cfg.Watch.Enabled {
		var err error
		w, err = watcher.NewWatcher([]string{cfg.Data.Primary, cfg.Data.Overlay},
			watcher.WithDebounceDuration(cfg.Debounce()),
			watcher.WithPollInterval(cfg.PollInterval()),
			watcher.WithForcePoll(cfg.Watch.PollMs > 0),
			watcher.WithOnError(func(err error) { debug.Log("watcher: %v", err) }),
		)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			fmt.Fprintf(stderr, "Warning: live reload disabled: %v\n", err)
			w = nil
		} else {
			defer w.Stop()
		}
	}

	primary, overlay := cfg.Data.Primary, cfg.Data.Overlay
	m := ui.New(ds, ui.Options{
		DPR: cfg.Render.DPR,
		Reload: func(ctx context.Context) (*model.Dataset, error) {
			return datasource.Acquire(ctx, primary, overlay)
		},
		Watcher:      w,
		ExportDir:    cfg.Export.Dir,
		ExportFormat: cfg.Export.Format,
		LoadErr:      loadErr,
	})
	if err := applyView(m.Orchestrator(), ds, opts, cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(stderr, "Error running sectorlens: %v\n", err)
		return 1
	}
	return 0
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set SECTORLENS_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("SECTORLENS_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}
				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
