// Package ui is the terminal front end of sectorlens. It renders the
// dashboard panels with lipgloss and shows chart surfaces as half-block
// rasters, mapping keys and mouse input onto orchestrator operations.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sectorlens/pkg/chart"
	"github.com/vanderheijden86/sectorlens/pkg/dashboard"
	"github.com/vanderheijden86/sectorlens/pkg/debug"
	"github.com/vanderheijden86/sectorlens/pkg/export"
	"github.com/vanderheijden86/sectorlens/pkg/interact"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/state"
	"github.com/vanderheijden86/sectorlens/pkg/watcher"
)

// Terminal geometry. A half-block cell covers cellCSS CSS pixels across and
// twice that down.
const (
	cellCSS    = 8.0
	headerRows = 2
	kpiRows    = 5
	bodyRows   = 12
	footerRows = 3
	minChart   = 4
	sparkCols  = 20
	sparkRows  = 2
	tableWidth = 64
)

// Pane is the surface shown in the chart area.
type Pane int

const (
	PaneMatrix Pane = iota
	PaneScatter
	PaneBars
)

var panes = []Pane{PaneMatrix, PaneScatter, PaneBars}

// Options configures the model.
type Options struct {
	DPR float64
	// Reload re-acquires the dataset; nil disables reloading.
	Reload func(ctx context.Context) (*model.Dataset, error)
	// Watcher triggers Reload on feed changes when set.
	Watcher *watcher.Watcher
	// ExportDir and ExportFormat configure the export key.
	ExportDir    string
	ExportFormat string
	// LoadErr is the error of the initial acquisition, shown until cleared.
	LoadErr error
	// Clipboard replaces clipboard.WriteAll; used by tests.
	Clipboard func(string) error
}

// FileChangedMsg is sent when a watched feed file changes.
type FileChangedMsg struct{}

// ReloadedMsg carries the result of a reload.
type ReloadedMsg struct {
	Dataset *model.Dataset
	Err     error
}

// ExportedMsg reports a finished snapshot export.
type ExportedMsg struct {
	Surfaces []export.Surface
	Err      error
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	orch  *dashboard.Orchestrator
	sched *TickScheduler
	opts  Options
	theme Theme
	help  help.Model
	md    *glamour.TermRenderer

	width, height int
	pane          Pane
	showNotes     bool
	tooltip       interact.Tooltip
	status        string
	statusErr     bool
	reloading     bool

	// cache holds rendered canvases keyed by frame identity.
	cache map[cacheKey]string
}

type cacheKey struct {
	frame *chart.Frame
	cols  int
	rows  int
}

// New creates the model and performs the initial paint.
func New(ds *model.Dataset, opts Options) Model {
	if opts.DPR <= 0 {
		opts.DPR = 1
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	sched := NewTickScheduler(FrameInterval)
	m := Model{
		orch:  dashboard.New(ds, sched, dashboard.DefaultLayout(opts.DPR)),
		sched: sched,
		opts:  opts,
		theme: DefaultTheme(lipgloss.DefaultRenderer()),
		help:  help.New(),
		cache: make(map[cacheKey]string),
	}
	if opts.LoadErr != nil {
		m.setError(opts.LoadErr)
	}
	return m
}

// Orchestrator exposes the underlying orchestrator.
func (m Model) Orchestrator() *dashboard.Orchestrator {
	return m.orch
}

// Init starts the file watch when configured.
func (m Model) Init() tea.Cmd {
	return WatchFileCmd(m.opts.Watcher)
}

// WatchFileCmd returns a command that waits for file changes and sends
// FileChangedMsg.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// ReloadCmd runs the reload function off the event loop.
func ReloadCmd(reload func(context.Context) (*model.Dataset, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		ds, err := reload(ctx)
		return ReloadedMsg{Dataset: ds, Err: err}
	}
}

// ExportCmd writes every painted surface.
func ExportCmd(opts export.SnapshotOptions) tea.Cmd {
	return func() tea.Msg {
		surfaces, err := export.SaveSnapshot(opts)
		return ExportedMsg{Surfaces: surfaces, Err: err}
	}
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.orch.Resize(m.layoutFor(msg.Width, msg.Height))

	case tea.KeyMsg:
		if cmd, quit := m.handleKey(msg); quit {
			return m, tea.Quit
		} else if cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case frameMsg:
		if t := m.sched.Fire(); t != 0 {
			m.orch.Frame(t)
		}

	case FileChangedMsg:
		debug.Log("feed changed, reloading")
		if cmd := m.reload(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, WatchFileCmd(m.opts.Watcher))

	case ReloadedMsg:
		m.reloading = false
		m.applyReload(msg)

	case ExportedMsg:
		if msg.Err != nil {
			m.setError(fmt.Errorf("export failed: %w", msg.Err))
		} else {
			m.setStatus(fmt.Sprintf("Exported %d surfaces to %s", len(msg.Surfaces), m.opts.ExportDir))
		}
	}

	if cmd := m.sched.Drain(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	o := m.orch
	switch {
	case key.Matches(msg, keys.Quit):
		return nil, true
	case key.Matches(msg, keys.Scrub):
		o.StepYear(1, true)
	case key.Matches(msg, keys.ScrubBack):
		o.StepYear(-1, true)
	case key.Matches(msg, keys.Commit):
		o.StepYear(1, false)
	case key.Matches(msg, keys.CommitBack):
		o.StepYear(-1, false)
	case key.Matches(msg, keys.Mode):
		o.SetChartMode(o.View().Mode.Next())
	case key.Matches(msg, keys.Heatmap):
		o.SetChartMode(state.ModeHeatmap)
	case key.Matches(msg, keys.Quadrant):
		o.SetChartMode(state.ModeGrowthProfit)
	case key.Matches(msg, keys.Ranking):
		o.SetChartMode(state.ModeRanking)
	case key.Matches(msg, keys.Segment):
		o.SetSegment(nextSegment(o.View().Segment))
	case key.Matches(msg, keys.NextSector):
		m.cycleSector(1)
	case key.Matches(msg, keys.PrevSector):
		m.cycleSector(-1)
	case key.Matches(msg, keys.Surface):
		m.pane = panes[(int(m.pane)+1)%len(panes)]
		m.clearTooltip()
	case key.Matches(msg, keys.Notes):
		m.showNotes = !m.showNotes
		if m.showNotes && m.md == nil {
			m.md = newMarkdown(tableWidth - 4)
		}
	case key.Matches(msg, keys.Copy):
		m.copyDetail()
	case key.Matches(msg, keys.Export):
		return m.export(), false
	case key.Matches(msg, keys.Reload):
		return m.reload(), false
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil, false
}

func nextSegment(cur state.Segment) state.Segment {
	segs := state.Segments()
	for i, s := range segs {
		if s == cur {
			return segs[(i+1)%len(segs)]
		}
	}
	return state.SegmentAll
}

// cycleSector walks the sector picker, which lists every sector in dataset
// order regardless of the segment filter.
func (m *Model) cycleSector(delta int) {
	picker := m.orch.Snapshot().Panels.Picker
	if len(picker) == 0 {
		return
	}
	cur := -1
	sel := m.orch.View().SelectedID
	for i := range picker {
		if picker[i].ID == sel {
			cur = i
			break
		}
	}
	next := (cur + delta + len(picker)) % len(picker)
	if cur < 0 {
		next = 0
	}
	m.orch.SelectSector(picker[next].ID)
}

func (m *Model) copyDetail() {
	d := m.orch.Snapshot().Panels.Detail
	if d.ID == "" {
		m.setStatus("Nothing selected")
		return
	}
	if err := m.opts.Clipboard(d.Line()); err != nil {
		m.setError(fmt.Errorf("clipboard: %w", err))
		return
	}
	m.setStatus("Copied " + d.Name)
}

func (m *Model) export() tea.Cmd {
	if m.opts.ExportDir == "" {
		m.setStatus("No export directory configured")
		return nil
	}
	m.setStatus("Exporting…")
	return ExportCmd(export.SnapshotOptions{
		Dir:      m.opts.ExportDir,
		Format:   m.opts.ExportFormat,
		Snapshot: m.orch.Snapshot(),
		Sparks:   true,
	})
}

func (m *Model) reload() tea.Cmd {
	if m.opts.Reload == nil || m.reloading {
		return nil
	}
	m.reloading = true
	m.setStatus("Reloading…")
	return ReloadCmd(m.opts.Reload)
}

// applyReload swaps in the new dataset. A failed primary feed keeps the data
// already on screen.
func (m *Model) applyReload(msg ReloadedMsg) {
	if msg.Err != nil && (msg.Dataset == nil || msg.Dataset.IsEmpty()) && !m.orch.Dataset().IsEmpty() {
		m.setError(fmt.Errorf("reload failed, keeping current data: %w", msg.Err))
		return
	}
	m.orch.ReplaceDataset(msg.Dataset)
	m.cache = make(map[cacheKey]string)
	if msg.Err != nil {
		m.setError(msg.Err)
		return
	}
	m.setStatus(fmt.Sprintf("Reloaded %d sectors", len(m.orch.Dataset().Sectors)))
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	canvas, ox, oy := m.chartArea()
	f := m.paneFrame()
	if f == nil || !canvas.Valid() {
		return
	}
	cssW, cssH := f.CSSSize()
	x, y, inside := canvas.ToCSS(msg.X-ox, msg.Y-oy, cssW, cssH)
	if !inside {
		m.clearTooltip()
		return
	}
	surface := m.paneSurface()

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.orch.StepYear(1, true)
	case msg.Button == tea.MouseButtonWheelDown:
		m.orch.StepYear(-1, true)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.orch.Click(surface, x, y) {
			m.clearTooltip()
		}
	case msg.Action == tea.MouseActionMotion:
		m.tooltip = m.orch.Hover(surface, x, y)
	}
}

func (m *Model) clearTooltip() {
	m.orch.Leave()
	m.tooltip = interact.Tooltip{}
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	debug.Log("ui: %v", err)
	m.status, m.statusErr = err.Error(), true
}

// paneSurface returns the router surface of the current pane.
func (m Model) paneSurface() interact.Surface {
	switch m.pane {
	case PaneScatter:
		return interact.SurfaceScatter
	case PaneBars:
		return interact.SurfaceBars
	default:
		return interact.ForMode(m.orch.View().Mode)
	}
}

// paneFrame returns the frame shown in the chart area.
func (m Model) paneFrame() *chart.Frame {
	snap := m.orch.Snapshot()
	switch m.pane {
	case PaneScatter:
		return snap.Scatter
	case PaneBars:
		return snap.Bars
	default:
		return snap.Active()
	}
}

// chartArea returns the chart canvas and its top-left cell on screen.
func (m Model) chartArea() (Canvas, int, int) {
	top := headerRows + kpiRows + bodyRows + 1
	rows := m.height - top - footerRows
	if rows < minChart || m.width <= 0 {
		return Canvas{}, 0, top
	}
	return Canvas{Cols: m.width, Rows: rows}, 0, top
}

// layoutFor sizes the surfaces so that one cell covers a square of CSS
// pixels in the chart area.
func (m Model) layoutFor(width, height int) dashboard.Layout {
	l := dashboard.DefaultLayout(m.opts.DPR).WithWidth(float64(width) * cellCSS)
	m.width, m.height = width, height
	if c, _, _ := m.chartArea(); c.Valid() {
		h := float64(c.Rows) * 2 * cellCSS
		l.Matrix.Height = h
		l.Scatter.Height = h
	}
	return l
}

func newMarkdown(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		debug.Log("markdown renderer: %v", err)
		return nil
	}
	return r
}
