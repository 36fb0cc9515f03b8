// Package dashboard owns the view state and decides what to repaint.
//
// Every input goes through the Orchestrator. Continuous year scrubbing is a
// light update: it only schedules a chart repaint through the Scheduler, and
// a newer scrub cancels the pending one so at most one chart paint happens
// per frame. Every other mutation repaints the whole dashboard at once.
package dashboard

import (
	"time"

	"github.com/vanderheijden86/sectorlens/pkg/analysis"
	"github.com/vanderheijden86/sectorlens/pkg/chart"
	"github.com/vanderheijden86/sectorlens/pkg/debug"
	"github.com/vanderheijden86/sectorlens/pkg/interact"
	"github.com/vanderheijden86/sectorlens/pkg/metrics"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/state"
)

// Phase is the render state of the orchestrator.
type Phase int

const (
	// Idle means no paint is in progress.
	Idle Phase = iota
	// Rendering means a paint is running.
	Rendering
)

func (p Phase) String() string {
	if p == Rendering {
		return "rendering"
	}
	return "idle"
}

// PaintKind distinguishes the two render paths.
type PaintKind int

const (
	// FullPaint repaints panels and every chart.
	FullPaint PaintKind = iota
	// ChartPaint repaints only the charts.
	ChartPaint
)

func (k PaintKind) String() string {
	if k == ChartPaint {
		return "charts"
	}
	return "full"
}

// Token identifies one scheduled frame.
type Token uint64

// Scheduler runs frame callbacks. Request asks for Orchestrator.Frame(t) to
// be called on the next frame; Cancel withdraws a request that has not run
// yet. Implementations that cannot withdraw work may ignore Cancel: the
// orchestrator drops frames whose token is no longer pending.
type Scheduler interface {
	Request(t Token)
	Cancel(t Token)
}

// Panels is the derived text content refreshed on a full paint.
type Panels struct {
	KPI     analysis.KPI
	Table   []analysis.Row
	Detail  analysis.Detail
	Drivers []string
	Metrics []model.MetricCard
	Picker  []model.Sector
}

// Snapshot is everything painted so far. Charts are replaced on every paint;
// Panels and Sparks only on full paints.
type Snapshot struct {
	View    state.View
	Panels  Panels
	Sparks  []*chart.Frame
	Scatter *chart.Frame
	Bars    *chart.Frame
	Suite   chart.Suite
}

// Active returns the frame of the current chart mode.
func (s Snapshot) Active() *chart.Frame {
	return s.Suite.Active(s.View)
}

// Stats counts paints for instrumentation and tests.
type Stats struct {
	FullPaints     int
	ChartPaints    int
	Scheduled      int
	Cancelled      int
	DroppedFrames  int
	LastPaint      PaintKind
	LastPaintTaken time.Duration
}

// Orchestrator serializes state transitions and repaints.
type Orchestrator struct {
	store  *state.Store
	router *interact.Router
	sched  Scheduler
	layout Layout

	phase   Phase
	pending Token
	next    Token

	snap    Snapshot
	stats   Stats
	onPaint func(Snapshot, PaintKind)
}

// New creates an orchestrator over ds and performs the initial full paint.
func New(ds *model.Dataset, sched Scheduler, layout Layout) *Orchestrator {
	o := &Orchestrator{
		store:  state.NewStore(ds),
		router: interact.NewRouter(),
		sched:  sched,
		layout: layout,
	}
	o.paint(FullPaint)
	return o
}

// OnPaint registers a callback invoked after every paint.
func (o *Orchestrator) OnPaint(fn func(Snapshot, PaintKind)) {
	o.onPaint = fn
}

// Dataset returns the current dataset.
func (o *Orchestrator) Dataset() *model.Dataset { return o.store.Dataset() }

// View returns the current view state.
func (o *Orchestrator) View() state.View { return o.store.View() }

// Snapshot returns the last painted output.
func (o *Orchestrator) Snapshot() Snapshot { return o.snap }

// Router returns the interaction router fed by this orchestrator's paints.
func (o *Orchestrator) Router() *interact.Router { return o.router }

// Layout returns the current surface layout.
func (o *Orchestrator) Layout() Layout { return o.layout }

// Phase returns the current render phase.
func (o *Orchestrator) Phase() Phase { return o.phase }

// Stats returns paint counters.
func (o *Orchestrator) Stats() Stats { return o.stats }

// Pending reports whether a coalesced chart repaint is scheduled.
func (o *Orchestrator) Pending() bool { return o.pending != 0 }

// SetSegment changes the tier filter.
func (o *Orchestrator) SetSegment(seg state.Segment) bool {
	return o.full(o.store.SetSegment(seg))
}

// SetYearIndex commits a year change with a full repaint.
func (o *Orchestrator) SetYearIndex(i int) bool {
	return o.full(o.store.SetYearIndex(i))
}

// ScrubYear applies a continuous year change. The charts repaint on the next
// frame; panels stay as they are until a committed change.
func (o *Orchestrator) ScrubYear(i int) bool {
	if !o.store.SetYearIndex(i) {
		return false
	}
	o.schedule()
	return true
}

// StepYear moves the year by delta, as a scrub when light is set.
func (o *Orchestrator) StepYear(delta int, light bool) bool {
	i := o.View().YearIndex + delta
	if light {
		return o.ScrubYear(i)
	}
	return o.SetYearIndex(i)
}

// SetChartMode switches the displayed chart.
func (o *Orchestrator) SetChartMode(m state.ChartMode) bool {
	return o.full(o.store.SetChartMode(m))
}

// SelectSector selects a sector by id, whether or not it passes the segment
// filter.
func (o *Orchestrator) SelectSector(id string) bool {
	return o.full(o.store.SelectSector(id))
}

// Click routes a click on a surface, in CSS pixels relative to the surface,
// to a sector selection.
func (o *Orchestrator) Click(s interact.Surface, x, y float64) bool {
	id, ok := o.router.Click(s, x, y)
	if !ok {
		return false
	}
	debug.Log("click %s (%.0f,%.0f) -> %s", s, x, y, id)
	return o.SelectSector(id)
}

// Hover routes a pointer move; only the heatmap reacts.
func (o *Orchestrator) Hover(s interact.Surface, x, y float64) interact.Tooltip {
	return o.router.Hover(o.store.Dataset(), s, x, y)
}

// Leave hides the tooltip.
func (o *Orchestrator) Leave() {
	o.router.Leave()
}

// Resize adopts a new layout and repaints the charts only.
func (o *Orchestrator) Resize(l Layout) {
	o.layout = l
	o.cancelPending()
	o.paint(ChartPaint)
}

// ReplaceDataset swaps in a reloaded dataset and repaints everything.
func (o *Orchestrator) ReplaceDataset(ds *model.Dataset) {
	o.store.ReplaceDataset(ds)
	o.full(true)
}

// Frame is the scheduler callback. Frames whose token was superseded or
// cancelled are dropped.
func (o *Orchestrator) Frame(t Token) {
	if t == 0 || t != o.pending {
		o.stats.DroppedFrames++
		return
	}
	o.pending = 0
	o.paint(ChartPaint)
}

func (o *Orchestrator) full(changed bool) bool {
	if !changed {
		return false
	}
	o.cancelPending()
	o.paint(FullPaint)
	return true
}

func (o *Orchestrator) schedule() {
	o.cancelPending()
	o.next++
	o.pending = o.next
	o.stats.Scheduled++
	if o.sched == nil {
		o.Frame(o.pending)
		return
	}
	o.sched.Request(o.pending)
}

func (o *Orchestrator) cancelPending() {
	if o.pending == 0 {
		return
	}
	if o.sched != nil {
		o.sched.Cancel(o.pending)
	}
	o.pending = 0
	o.stats.Cancelled++
}

func (o *Orchestrator) paint(kind PaintKind) {
	o.phase = Rendering
	start := time.Now()
	defer func() {
		o.phase = Idle
		elapsed := time.Since(start)
		o.stats.LastPaint = kind
		o.stats.LastPaintTaken = elapsed
		if kind == FullPaint {
			o.stats.FullPaints++
			metrics.FullPaint.Record(elapsed)
		} else {
			o.stats.ChartPaints++
			metrics.ChartPaint.Record(elapsed)
		}
		debug.LogTiming("paint "+kind.String(), elapsed)
		if o.onPaint != nil {
			o.onPaint(o.snap, kind)
		}
	}()

	ds := o.store.Dataset()
	v := o.store.View()
	o.snap.View = v

	if kind == FullPaint {
		o.snap.Panels = computePanels(ds, v)
		o.snap.Sparks = o.paintSparks(o.snap.Panels.Detail)
	}
	o.paintCharts(ds, v)
}

func computePanels(ds *model.Dataset, v state.View) Panels {
	detail, _ := analysis.ComputeDetail(ds, v)
	return Panels{
		KPI:     analysis.ComputeKPI(ds, v),
		Table:   analysis.Table(ds, v),
		Detail:  detail,
		Drivers: analysis.Drivers(ds),
		Metrics: analysis.MetricCards(ds),
		Picker:  ds.Sectors,
	}
}

func (o *Orchestrator) paintSparks(d analysis.Detail) []*chart.Frame {
	frames := make([]*chart.Frame, 0, len(d.Sparks))
	for _, s := range d.Sparks {
		frames = append(frames, chart.Sparkline(s.Series, s.Color, o.layout.Spark))
	}
	return frames
}

func (o *Orchestrator) paintCharts(ds *model.Dataset, v state.View) {
	o.snap.Scatter = chart.Scatter(ds, v, o.layout.Scatter)
	o.snap.Bars = chart.RankedBars(ds, v, o.layout.Bars)
	o.snap.Suite = chart.RenderSuite(ds, v, o.layout.Matrix)

	o.router.Attach(interact.SurfaceScatter, o.snap.Scatter)
	o.router.Attach(interact.SurfaceBars, o.snap.Bars)
	for _, m := range state.ChartModes {
		o.router.Attach(interact.ForMode(m), o.snap.Suite[m])
	}
	o.router.Leave()
}
