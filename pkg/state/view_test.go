package state

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/testutil"
)

func TestNewInitializesToLastYearAndFirstSector(t *testing.T) {
	ds := testutil.Scenario()
	v := New(ds)
	if v.YearIndex != 2 {
		t.Errorf("year index = %d, want 2", v.YearIndex)
	}
	if v.SelectedID != "A" {
		t.Errorf("selected = %q, want A", v.SelectedID)
	}
	if v.Segment != SegmentAll || v.Mode != ModeHeatmap {
		t.Errorf("unexpected defaults %+v", v)
	}

	empty := New(model.Empty())
	if empty.YearIndex != 0 || empty.SelectedID != "" {
		t.Errorf("empty dataset view = %+v", empty)
	}
}

func TestSetYearIndexClampsAndSkipsNoOps(t *testing.T) {
	ds := testutil.Scenario()
	v := New(ds)

	tests := []struct {
		in      int
		want    int
		changed bool
	}{
		{2, 2, false},
		{99, 2, false},
		{0, 0, true},
		{-5, 0, false},
		{1, 1, true},
	}
	for _, tt := range tests {
		var changed bool
		v, changed = v.SetYearIndex(ds, tt.in)
		if v.YearIndex != tt.want || changed != tt.changed {
			t.Errorf("SetYearIndex(%d) = %d changed=%v, want %d changed=%v", tt.in, v.YearIndex, changed, tt.want, tt.changed)
		}
	}
}

func TestSetYearIndexClampingLaw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "years")
		ds := &model.Dataset{Years: make([]int, n)}
		v := New(ds)
		steps := rapid.SliceOf(rapid.IntRange(-1000, 1000)).Draw(t, "steps")
		for _, i := range steps {
			v, _ = v.SetYearIndex(ds, i)
			if n == 0 {
				if v.YearIndex != 0 {
					t.Fatalf("empty axis index = %d", v.YearIndex)
				}
				continue
			}
			if v.YearIndex < 0 || v.YearIndex > n-1 {
				t.Fatalf("index %d out of [0,%d]", v.YearIndex, n-1)
			}
		}
	})
}

func TestSelectSectorIgnoresSegmentFilter(t *testing.T) {
	ds := testutil.NewDefault().Dataset()
	v := New(ds)
	v, _ = v.SetSegment(Segment(model.TierCore))

	var hidden string
	for _, s := range ds.Sectors {
		if s.Tier != model.TierCore && s.ID != v.SelectedID {
			hidden = s.ID
			break
		}
	}
	for _, s := range Visible(ds, v) {
		if s.ID == hidden {
			t.Fatalf("sector %s should be filtered out", hidden)
		}
	}

	v, changed := v.SelectSector(ds, hidden)
	if !changed || v.SelectedID != hidden {
		t.Fatalf("selecting a filtered-out sector must still update the selection, got %q", v.SelectedID)
	}
}

func TestSelectSectorRejectsUnknownID(t *testing.T) {
	ds := testutil.Scenario()
	v := New(ds)
	v, changed := v.SelectSector(ds, "nope")
	if changed || v.SelectedID != "A" {
		t.Errorf("unknown id changed selection to %q", v.SelectedID)
	}
}

func TestSetSegmentAndMode(t *testing.T) {
	v := New(testutil.Scenario())
	if _, changed := v.SetSegment(SegmentAll); changed {
		t.Error("setting the same segment should be a no-op")
	}
	v, changed := v.SetSegment(Segment(model.TierWatchlist))
	if !changed || v.Segment != Segment(model.TierWatchlist) {
		t.Errorf("segment = %q", v.Segment)
	}
	if _, changed := v.SetChartMode(ModeHeatmap); changed {
		t.Error("same mode should be a no-op")
	}
	v, _ = v.SetChartMode(ModeRanking)
	if v.Mode != ModeRanking {
		t.Errorf("mode = %q", v.Mode)
	}
}

func TestVisibleRespectsSegment(t *testing.T) {
	ds := testutil.NewDefault().Dataset()
	v := New(ds)
	if got := len(Visible(ds, v)); got != len(ds.Sectors) {
		t.Errorf("all segment shows %d of %d", got, len(ds.Sectors))
	}
	v, _ = v.SetSegment(Segment(model.TierDeveloping))
	for _, s := range Visible(ds, v) {
		if s.Tier != model.TierDeveloping {
			t.Errorf("sector %s tier %s leaked through filter", s.ID, s.Tier)
		}
	}
}

func TestReboundAfterReload(t *testing.T) {
	ds := testutil.NewDefault().Dataset()
	v := New(ds)
	v, _ = v.SelectSector(ds, ds.Sectors[3].ID)

	smaller := testutil.Scenario()
	v = v.Rebound(smaller)
	if v.YearIndex != 2 {
		t.Errorf("year index = %d, want clamped to 2", v.YearIndex)
	}
	if v.SelectedID != "A" {
		t.Errorf("selection = %q, want fallback A", v.SelectedID)
	}
}

func TestParseHelpers(t *testing.T) {
	if ParseSegment("CORE") != Segment(model.TierCore) || ParseSegment("bogus") != SegmentAll {
		t.Error("ParseSegment mismatch")
	}
	for in, want := range map[string]ChartMode{"ikb": ModeRanking, "growth-profit": ModeGrowthProfit, "heatmap": ModeHeatmap} {
		if got, ok := ParseChartMode(in); !ok || got != want {
			t.Errorf("ParseChartMode(%q) = %q, %v", in, got, ok)
		}
	}
	if ModeRanking.Next() != ModeHeatmap {
		t.Error("mode toggle should wrap")
	}
	if got := (View{YearIndex: 1}).Progress(3); got != 0.5 {
		t.Errorf("progress = %v", got)
	}
	if got := (View{}).Progress(1); got != 0 {
		t.Errorf("single-year progress = %v", got)
	}
}
