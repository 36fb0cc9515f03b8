// Package analysis derives the text panels of the dashboard (KPIs, the ranked
// table, the detail panel and the driver list) from a Dataset and a View.
// Everything here respects the segment filter, unlike the charts.
package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/sectorlens/pkg/chart"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/state"
)

// Placeholder is shown in place of any value that cannot be computed.
const Placeholder = "—"

// KPI holds the headline aggregates over the visible sectors at the current
// year. Risk and debt averages stay fractions.
type KPI struct {
	Count       int
	AvgGrowth   float64
	AvgRisk     float64
	AvgDebt     float64
	LeaderID    string
	LeaderName  string
	LeaderScore float64
}

// ComputeKPI aggregates the visible sectors. With no visible sectors the
// result is the zero KPI and Empty reports true.
func ComputeKPI(ds *model.Dataset, v state.View) KPI {
	sectors := state.Visible(ds, v)
	if len(sectors) == 0 {
		return KPI{}
	}
	idx := v.YearIndex
	growth := make([]float64, len(sectors))
	risk := make([]float64, len(sectors))
	debt := make([]float64, len(sectors))
	for i := range sectors {
		growth[i] = sectors[i].At(model.MetricGrowth, idx)
		risk[i] = sectors[i].At(model.MetricRisk, idx)
		debt[i] = sectors[i].At(model.MetricDebt, idx)
	}
	leader := chart.RankByScore(sectors, idx)[0]
	return KPI{
		Count:       len(sectors),
		AvgGrowth:   stat.Mean(growth, nil),
		AvgRisk:     stat.Mean(risk, nil),
		AvgDebt:     stat.Mean(debt, nil),
		LeaderID:    leader.ID,
		LeaderName:  leader.Name,
		LeaderScore: leader.At(model.MetricScore, idx),
	}
}

// Empty reports whether there was nothing to aggregate.
func (k KPI) Empty() bool {
	return k.Count == 0
}

// Card is one formatted KPI tile.
type Card struct {
	Label string
	Value string
	Trend string
	Down  bool
}

// Cards formats the KPI for display. An empty KPI yields a single loading
// placeholder card rather than NaN values.
func (k KPI) Cards() []Card {
	if k.Empty() {
		return []Card{{Label: "Loading", Value: Placeholder, Trend: "Please wait…"}}
	}
	return []Card{
		{Label: "Avg. growth", Value: fmt.Sprintf("%.1f%%", k.AvgGrowth), Trend: "+ resilient momentum"},
		{Label: "Avg. default risk", Value: fmt.Sprintf("%.0f%%", k.AvgRisk*100), Trend: "down vs 2020", Down: true},
		{Label: "Avg. debt", Value: fmt.Sprintf("%.0f%%", k.AvgDebt*100), Trend: "gradual deleveraging"},
		{Label: "Sector leader", Value: orPlaceholder(k.LeaderName), Trend: fmt.Sprintf("%.0f pkt", k.LeaderScore)},
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
