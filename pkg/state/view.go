// Package state holds the dashboard's single source of truth for what is being
// looked at: segment filter, active year, selected sector and chart mode.
//
// View is a value type. Every transition returns the new View plus whether
// anything changed, so callers can skip redundant repaints. Renderers receive a
// View by value and can never mutate the shared state.
package state

import (
	"strings"

	"github.com/vanderheijden86/sectorlens/pkg/model"
)

// Segment is the view-level tier filter: "all" or a tier name.
type Segment string

// SegmentAll disables tier filtering.
const SegmentAll Segment = "all"

// ParseSegment maps user input onto a segment. Unknown values fall back to all.
func ParseSegment(s string) Segment {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(SegmentAll) {
		return SegmentAll
	}
	if t := model.Tier(s); t.IsValid() {
		return Segment(t)
	}
	return SegmentAll
}

// Segments lists the selectable segments in control order.
func Segments() []Segment {
	out := []Segment{SegmentAll}
	for _, t := range model.Tiers {
		out = append(out, Segment(t))
	}
	return out
}

// Matches reports whether a sector of tier t is visible under the segment.
func (s Segment) Matches(t model.Tier) bool {
	return s == SegmentAll || s == "" || model.Tier(s) == t
}

// Label returns the control label for the segment.
func (s Segment) Label() string {
	if s == SegmentAll || s == "" {
		return "All"
	}
	return model.Tier(s).Label()
}

// ChartMode selects which of the three matrix-suite charts is displayed.
type ChartMode string

const (
	ModeHeatmap      ChartMode = "heatmap"
	ModeGrowthProfit ChartMode = "growth-profit"
	ModeRanking      ChartMode = "ikb-ranking"
)

// ChartModes lists the modes in toggle order.
var ChartModes = []ChartMode{ModeHeatmap, ModeGrowthProfit, ModeRanking}

// ParseChartMode accepts the mode names plus the short "ikb" alias.
func ParseChartMode(s string) (ChartMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ModeHeatmap), "matrix":
		return ModeHeatmap, true
	case string(ModeGrowthProfit), "gp":
		return ModeGrowthProfit, true
	case string(ModeRanking), "ikb", "ranking":
		return ModeRanking, true
	}
	return ModeHeatmap, false
}

// Next returns the mode after m in toggle order.
func (m ChartMode) Next() ChartMode {
	for i, mode := range ChartModes {
		if mode == m {
			return ChartModes[(i+1)%len(ChartModes)]
		}
	}
	return ModeHeatmap
}

// Label returns the toggle label for the mode.
func (m ChartMode) Label() string {
	switch m {
	case ModeGrowthProfit:
		return "Growth / Profit"
	case ModeRanking:
		return "IKB ranking"
	default:
		return "Heatmap"
	}
}

// View is the dashboard cursor shared by every surface.
type View struct {
	Segment    Segment
	YearIndex  int
	SelectedID string
	Mode       ChartMode
}

// New returns the initial view for ds: last year, first sector, all segments,
// heatmap mode. An empty dataset yields year index 0 and no selection.
func New(ds *model.Dataset) View {
	v := View{Segment: SegmentAll, Mode: ModeHeatmap}
	if n := ds.YearCount(); n > 0 {
		v.YearIndex = n - 1
	}
	v.SelectedID = ds.FirstSectorID()
	return v
}

// SetSegment sets the tier filter. It is a no-op when unchanged.
func (v View) SetSegment(seg Segment) (View, bool) {
	if seg == "" {
		seg = SegmentAll
	}
	if v.Segment == seg {
		return v, false
	}
	v.Segment = seg
	return v, true
}

// SetYearIndex clamps i to [0, yearCount-1]. It is a no-op when the clamped
// index equals the current one.
func (v View) SetYearIndex(ds *model.Dataset, i int) (View, bool) {
	i = ClampYear(i, ds.YearCount())
	if i == v.YearIndex {
		return v, false
	}
	v.YearIndex = i
	return v, true
}

// SetChartMode switches the displayed matrix-suite chart.
func (v View) SetChartMode(m ChartMode) (View, bool) {
	if v.Mode == m {
		return v, false
	}
	v.Mode = m
	return v, true
}

// SelectSector selects id. The segment filter is deliberately not consulted:
// a sector hidden from the table can still be picked from the all-sector
// charts and stays highlighted there. Ids that do not exist in ds are ignored.
func (v View) SelectSector(ds *model.Dataset, id string) (View, bool) {
	if id == v.SelectedID || !ds.HasSector(id) {
		return v, false
	}
	v.SelectedID = id
	return v, true
}

// Rebound fits v onto a freshly loaded dataset: the year index is clamped and
// the selection falls back to the first sector when its id disappeared.
func (v View) Rebound(ds *model.Dataset) View {
	v.YearIndex = ClampYear(v.YearIndex, ds.YearCount())
	if !ds.HasSector(v.SelectedID) {
		v.SelectedID = ds.FirstSectorID()
	}
	return v
}

// Progress returns the slider fill fraction for the active year.
func (v View) Progress(yearCount int) float64 {
	span := yearCount - 1
	if span <= 0 {
		span = 1
	}
	return float64(v.YearIndex) / float64(span)
}

// ClampYear clamps i to a valid index for an axis of n years. With no years
// the only index is 0.
func ClampYear(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// Visible returns the sectors that pass the segment filter, in dataset order.
// Only the KPI row, ranked table and drivers respect it; the charts always
// show every sector.
func Visible(ds *model.Dataset, v View) []model.Sector {
	if ds == nil {
		return nil
	}
	if v.Segment == SegmentAll || v.Segment == "" {
		return ds.Sectors
	}
	out := make([]model.Sector, 0, len(ds.Sectors))
	for _, s := range ds.Sectors {
		if v.Segment.Matches(s.Tier) {
			out = append(out, s)
		}
	}
	return out
}

// Selected returns the selected sector, falling back to the first sector.
func Selected(ds *model.Dataset, v View) (*model.Sector, bool) {
	if s, ok := ds.Sector(v.SelectedID); ok {
		return s, true
	}
	if ds == nil || len(ds.Sectors) == 0 {
		return nil, false
	}
	return &ds.Sectors[0], true
}
