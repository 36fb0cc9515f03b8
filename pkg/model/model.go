// Package model defines the normalized in-memory dataset rendered by sectorlens:
// an ascending year axis with an optional forecast threshold, and per-sector
// metric series aligned index-for-index with that axis.
package model

import (
	"strconv"
)

// Tier is the categorical sector classification that drives color and the
// segment filter.
type Tier string

const (
	TierDeveloping Tier = "developing"
	TierCore       Tier = "core"
	TierWatchlist  Tier = "watchlist"
)

// Tiers lists the known tiers in display order.
var Tiers = []Tier{TierDeveloping, TierCore, TierWatchlist}

// IsValid reports whether t is one of the known tiers.
func (t Tier) IsValid() bool {
	switch t {
	case TierDeveloping, TierCore, TierWatchlist:
		return true
	}
	return false
}

// Label returns the display label for the tier. Unknown tiers render verbatim.
func (t Tier) Label() string {
	switch t {
	case TierDeveloping:
		return "Developing"
	case TierCore:
		return "Core"
	case TierWatchlist:
		return "Watchlist"
	default:
		return string(t)
	}
}

// Metric names one of the per-sector series.
type Metric int

const (
	MetricScore Metric = iota
	MetricGrowth
	MetricRisk
	MetricDebt
	MetricExport
	MetricDefaults
)

func (m Metric) String() string {
	switch m {
	case MetricScore:
		return "score"
	case MetricGrowth:
		return "growth"
	case MetricRisk:
		return "risk"
	case MetricDebt:
		return "debt"
	case MetricExport:
		return "export"
	case MetricDefaults:
		return "defaults"
	default:
		return "metric(" + strconv.Itoa(int(m)) + ")"
	}
}

// Sector is one row of the dataset. After loading, every series has exactly
// len(Dataset.Years) entries.
type Sector struct {
	ID   string
	Name string
	Tier Tier

	Score  []float64 // points
	Growth []float64 // percent
	Risk   []float64 // fraction 0-1
	Debt   []float64 // fraction 0-1
	Export []float64 // percent

	// Defaults is the percent form of Risk. HasDefaults is false when neither
	// the primary feed nor an overlay supplied it; Defaults is then zero-filled.
	Defaults    []float64
	HasDefaults bool

	// OverlayMask marks the indices whose Risk/Defaults were written by a risk
	// overlay merge. At those indices Risk[i] == Defaults[i]/100.
	OverlayMask []bool
}

// Series returns the backing slice for metric m.
func (s *Sector) Series(m Metric) []float64 {
	switch m {
	case MetricScore:
		return s.Score
	case MetricGrowth:
		return s.Growth
	case MetricRisk:
		return s.Risk
	case MetricDebt:
		return s.Debt
	case MetricExport:
		return s.Export
	case MetricDefaults:
		return s.Defaults
	default:
		return nil
	}
}

// At returns metric m at index i, or 0 when the index is out of range.
func (s *Sector) At(m Metric, i int) float64 {
	return Value(s.Series(m), i)
}

// RiskPercent returns the series shown by the risk sparkline: Defaults when it
// was populated, otherwise Risk scaled to percent. The stored fractions are
// never mutated.
func (s *Sector) RiskPercent() []float64 {
	if s.HasDefaults {
		return s.Defaults
	}
	return Percent(s.Risk)
}

// DebtPercent returns Debt scaled to percent.
func (s *Sector) DebtPercent() []float64 {
	return Percent(s.Debt)
}

// Clone returns a deep copy of the sector.
func (s Sector) Clone() Sector {
	c := s
	c.Score = cloneFloats(s.Score)
	c.Growth = cloneFloats(s.Growth)
	c.Risk = cloneFloats(s.Risk)
	c.Debt = cloneFloats(s.Debt)
	c.Export = cloneFloats(s.Export)
	c.Defaults = cloneFloats(s.Defaults)
	if s.OverlayMask != nil {
		c.OverlayMask = append([]bool(nil), s.OverlayMask...)
	}
	return c
}

// MetricCard is a free-form explanatory card consumed verbatim by the
// presentation layer.
type MetricCard struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Dataset is the loaded, normalized model. It is treated as immutable once the
// load and merge sequence completes; reloads build a new Dataset.
type Dataset struct {
	Years []int
	// ForecastStart is the first forecast year; 0 means no forecast threshold.
	ForecastStart int
	Sectors       []Sector
	Drivers       []string
	Metrics       []MetricCard
}

// Empty returns a dataset with no years and no sectors. It is a valid,
// displayable state.
func Empty() *Dataset {
	return &Dataset{}
}

// IsEmpty reports whether there is nothing to chart.
func (d *Dataset) IsEmpty() bool {
	return d == nil || len(d.Sectors) == 0 || len(d.Years) == 0
}

// YearCount returns the length of the year axis.
func (d *Dataset) YearCount() int {
	if d == nil {
		return 0
	}
	return len(d.Years)
}

// Year returns the year at index i, or 0 when out of range.
func (d *Dataset) Year(i int) int {
	if d == nil || i < 0 || i >= len(d.Years) {
		return 0
	}
	return d.Years[i]
}

// IsForecast reports whether the year at index i is at or past the forecast
// threshold.
func (d *Dataset) IsForecast(i int) bool {
	if d == nil || d.ForecastStart == 0 || i < 0 || i >= len(d.Years) {
		return false
	}
	return d.Years[i] >= d.ForecastStart
}

// ForecastIndex returns the index of the first forecast year, or -1.
func (d *Dataset) ForecastIndex() int {
	if d == nil || d.ForecastStart == 0 {
		return -1
	}
	for i, y := range d.Years {
		if y >= d.ForecastStart {
			return i
		}
	}
	return -1
}

// YearLabel renders the year at index i, suffixed with "*" for forecast years.
func (d *Dataset) YearLabel(i int) string {
	if d == nil || i < 0 || i >= len(d.Years) {
		return ""
	}
	label := strconv.Itoa(d.Years[i])
	if d.IsForecast(i) {
		label += "*"
	}
	return label
}

// YearIndex returns the axis index of year, or -1.
func (d *Dataset) YearIndex(year int) int {
	if d == nil {
		return -1
	}
	for i, y := range d.Years {
		if y == year {
			return i
		}
	}
	return -1
}

// Sector returns the sector with the given id.
func (d *Dataset) Sector(id string) (*Sector, bool) {
	if d == nil {
		return nil, false
	}
	for i := range d.Sectors {
		if d.Sectors[i].ID == id {
			return &d.Sectors[i], true
		}
	}
	return nil, false
}

// HasSector reports whether id references an existing sector.
func (d *Dataset) HasSector(id string) bool {
	_, ok := d.Sector(id)
	return ok
}

// FirstSectorID returns the id of the first sector, or "".
func (d *Dataset) FirstSectorID() string {
	if d == nil || len(d.Sectors) == 0 {
		return ""
	}
	return d.Sectors[0].ID
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return Empty()
	}
	c := &Dataset{
		Years:         append([]int(nil), d.Years...),
		ForecastStart: d.ForecastStart,
		Drivers:       append([]string(nil), d.Drivers...),
		Metrics:       append([]MetricCard(nil), d.Metrics...),
		Sectors:       make([]Sector, len(d.Sectors)),
	}
	for i := range d.Sectors {
		c.Sectors[i] = d.Sectors[i].Clone()
	}
	return c
}

// Value returns series[i], or 0 for an out-of-range index.
func Value(series []float64, i int) float64 {
	if i < 0 || i >= len(series) {
		return 0
	}
	return series[i]
}

// Percent returns a new slice with every value multiplied by 100.
func Percent(series []float64) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = v * 100
	}
	return out
}

func cloneFloats(s []float64) []float64 {
	if s == nil {
		return nil
	}
	return append([]float64(nil), s...)
}
