package dashboard

import (
	"testing"

	"github.com/vanderheijden86/sectorlens/pkg/interact"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/state"
	"github.com/vanderheijden86/sectorlens/pkg/testutil"
)

// manualScheduler records requests and runs them when flushed.
type manualScheduler struct {
	requested []Token
	cancelled []Token
}

func (m *manualScheduler) Request(t Token) { m.requested = append(m.requested, t) }
func (m *manualScheduler) Cancel(t Token)  { m.cancelled = append(m.cancelled, t) }

// flush delivers every request, including superseded ones, the way a
// scheduler that cannot withdraw work would.
func (m *manualScheduler) flush(o *Orchestrator) {
	reqs := m.requested
	m.requested = nil
	for _, t := range reqs {
		o.Frame(t)
	}
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	o := New(testutil.NewDefault().Dataset(), sched, DefaultLayout(1))
	return o, sched
}

func TestInitialFullPaint(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	st := o.Stats()
	if st.FullPaints != 1 || st.ChartPaints != 0 {
		t.Fatalf("stats = %+v, want one full paint", st)
	}
	snap := o.Snapshot()
	if snap.Scatter == nil || snap.Bars == nil || len(snap.Suite) != len(state.ChartModes) {
		t.Fatal("initial paint missing charts")
	}
	if len(snap.Sparks) != 3 {
		t.Errorf("sparks = %d, want 3", len(snap.Sparks))
	}
	if o.Phase() != Idle {
		t.Errorf("phase = %s after paint", o.Phase())
	}
}

func TestScrubCoalescesToOneChartPaint(t *testing.T) {
	o, sched := newTestOrchestrator(t)
	o.SetYearIndex(0)
	before := o.Stats()

	for i := 1; i <= 5; i++ {
		if !o.ScrubYear(i) {
			t.Fatalf("scrub to %d reported no change", i)
		}
	}
	if !o.Pending() {
		t.Fatal("scrub should leave a pending repaint")
	}
	if got := o.Stats().ChartPaints - before.ChartPaints; got != 0 {
		t.Fatalf("scrub painted synchronously %d times", got)
	}
	if len(sched.cancelled) != 4 {
		t.Errorf("cancelled = %d, want 4 superseded frames", len(sched.cancelled))
	}

	sched.flush(o)
	after := o.Stats()
	if got := after.ChartPaints - before.ChartPaints; got != 1 {
		t.Errorf("chart paints = %d, want exactly 1", got)
	}
	if after.FullPaints != before.FullPaints {
		t.Error("scrub must not trigger a full paint")
	}
	if after.DroppedFrames-before.DroppedFrames != 4 {
		t.Errorf("dropped = %d, want 4", after.DroppedFrames-before.DroppedFrames)
	}
	if o.Snapshot().View.YearIndex != 5 {
		t.Errorf("painted year = %d, want 5", o.Snapshot().View.YearIndex)
	}
	if o.Pending() {
		t.Error("pending flag should clear after the frame")
	}
}

func TestScrubLeavesPanelsUntilCommit(t *testing.T) {
	o, sched := newTestOrchestrator(t)
	o.SetYearIndex(0)
	panelYear := o.Snapshot().Panels.Detail.Year

	o.ScrubYear(3)
	sched.flush(o)
	if got := o.Snapshot().Panels.Detail.Year; got != panelYear {
		t.Errorf("light paint refreshed panels: %q -> %q", panelYear, got)
	}

	if !o.SetYearIndex(4) {
		t.Fatal("commit to a new year reported no change")
	}
	if o.Snapshot().Panels.Detail.Year == panelYear {
		t.Error("committed year change should refresh panels")
	}
}

func TestFullPaintCancelsPendingScrub(t *testing.T) {
	o, sched := newTestOrchestrator(t)
	o.SetYearIndex(0)
	o.ScrubYear(2)
	o.SetChartMode(state.ModeRanking)
	if o.Pending() {
		t.Error("full paint should cancel the pending scrub")
	}
	charts := o.Stats().ChartPaints
	sched.flush(o)
	if o.Stats().ChartPaints != charts {
		t.Error("cancelled frame still painted")
	}
}

func TestNoOpTransitionsDoNotPaint(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	before := o.Stats()
	last := o.Dataset().YearCount() - 1
	if o.SetYearIndex(last) || o.SetYearIndex(last+10) {
		t.Error("clamped no-op year change reported a change")
	}
	if o.SetSegment(state.SegmentAll) {
		t.Error("unchanged segment reported a change")
	}
	if o.ScrubYear(last) {
		t.Error("unchanged scrub reported a change")
	}
	if o.Stats().FullPaints != before.FullPaints || o.Pending() {
		t.Error("no-op transitions must not repaint")
	}
}

func TestResizeTakesChartPath(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	before := o.Stats()
	o.Resize(DefaultLayout(2).WithWidth(480))
	after := o.Stats()
	if after.ChartPaints != before.ChartPaints+1 || after.FullPaints != before.FullPaints {
		t.Errorf("resize stats %+v -> %+v", before, after)
	}
	if w, _ := o.Snapshot().Bars.PixelSize(); w != 960 {
		t.Errorf("bars width = %d, want 960", w)
	}
}

func TestClickSelectsHiddenSector(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	o.SetSegment(state.Segment(model.TierCore))

	var target string
	for _, s := range o.Dataset().Sectors {
		if s.Tier != model.TierCore && s.ID != o.View().SelectedID {
			target = s.ID
			break
		}
	}
	var region = -1
	for i, r := range o.Router().Regions(interact.SurfaceBars) {
		if r.SectorID == target {
			region = i
		}
	}
	if region < 0 {
		t.Fatal("bars should include sectors outside the segment")
	}
	r := o.Router().Regions(interact.SurfaceBars)[region]
	cx, cy := r.Center()
	if !o.Click(interact.SurfaceBars, cx, cy) {
		t.Fatal("click did not select")
	}
	if o.View().SelectedID != target {
		t.Errorf("selected = %s, want %s", o.View().SelectedID, target)
	}
	if o.Snapshot().Panels.Detail.ID != target {
		t.Error("detail panel should follow the selection")
	}
	for _, row := range o.Snapshot().Panels.Table {
		if row.ID == target {
			t.Error("table should keep respecting the segment filter")
		}
	}
}

func TestEmptyDatasetPaints(t *testing.T) {
	o := New(model.Empty(), nil, DefaultLayout(1))
	snap := o.Snapshot()
	if !snap.Panels.KPI.Empty() {
		t.Error("empty dataset should give the KPI placeholder")
	}
	if snap.Active() == nil {
		t.Error("active chart should still be painted")
	}
	if o.ScrubYear(3) {
		t.Error("empty year axis cannot change")
	}
}

func TestNilSchedulerPaintsImmediately(t *testing.T) {
	o := New(testutil.NewDefault().Dataset(), nil, DefaultLayout(1))
	o.SetYearIndex(0)
	before := o.Stats().ChartPaints
	o.ScrubYear(1)
	if o.Stats().ChartPaints != before+1 || o.Pending() {
		t.Error("without a scheduler a scrub paints at once")
	}
}

func TestReplaceDatasetRepaints(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	var kinds []PaintKind
	o.OnPaint(func(_ Snapshot, k PaintKind) { kinds = append(kinds, k) })

	cfg := testutil.DefaultConfig()
	cfg.Sectors = 3
	o.ReplaceDataset(testutil.New(cfg).Dataset())
	if len(kinds) != 1 || kinds[0] != FullPaint {
		t.Errorf("paints = %v, want one full", kinds)
	}
	if got := len(o.Snapshot().Panels.Table); got != 3 {
		t.Errorf("table rows = %d, want 3", got)
	}
}
