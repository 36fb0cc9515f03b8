package analysis

import (
	"fmt"
	"image/color"

	"github.com/vanderheijden86/sectorlens/pkg/chart"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/scale"
	"github.com/vanderheijden86/sectorlens/pkg/state"
)

// Spark is a series with the color it is drawn in.
type Spark struct {
	Title  string
	Series []float64
	Color  color.RGBA
}

// Detail is the content of the detail panel for one sector.
type Detail struct {
	ID         string
	Name       string
	Tag        string
	Score      string
	Risk       string
	Debt       string
	GrowthChip string
	RiskChip   string
	Forecast   bool
	Year       string
	Sparks     []Spark
}

// ComputeDetail describes the selected sector, falling back to the first
// sector of the dataset. It ignores the segment filter. ok is false only
// when the dataset has no sectors.
func ComputeDetail(ds *model.Dataset, v state.View) (Detail, bool) {
	s, ok := state.Selected(ds, v)
	if !ok {
		return Detail{}, false
	}
	idx := v.YearIndex
	score := s.At(model.MetricScore, idx)
	risk := s.At(model.MetricRisk, idx)

	return Detail{
		ID:         s.ID,
		Name:       s.Name,
		Tag:        fmt.Sprintf("%s • %.0f pkt", TierLabel(s.Tier), score),
		Score:      fmt.Sprintf("%.0f pkt", score),
		Risk:       fmt.Sprintf("%.1f%%", risk*100),
		Debt:       fmt.Sprintf("%.1f%%", s.At(model.MetricDebt, idx)*100),
		GrowthChip: fmt.Sprintf("Growth: %.1f%%", s.At(model.MetricGrowth, idx)),
		RiskChip:   fmt.Sprintf("Risk: %.0f%%", risk*100),
		Forecast:   ds.IsForecast(idx),
		Year:       ds.YearLabel(idx),
		Sparks: []Spark{
			{Title: "Score", Series: s.Score, Color: scale.ColorForTier(s.Tier)},
			{Title: "Defaults %", Series: s.RiskPercent(), Color: chart.SparkDefaults},
			{Title: "Debt %", Series: s.DebtPercent(), Color: chart.SparkDebt},
		},
	}, true
}

// Line is a one-line summary of the detail, used for clipboard copies and
// reports.
func (d Detail) Line() string {
	return fmt.Sprintf("%s (%s) %s: score %s, risk %s, debt %s, %s", d.Name, d.ID, d.Year, d.Score, d.Risk, d.Debt, d.GrowthChip)
}
