package analysis

import (
	"fmt"

	"github.com/vanderheijden86/sectorlens/pkg/chart"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/state"
)

// Row is one line of the ranked sector table at the current year.
type Row struct {
	Rank     int
	ID       string
	Name     string
	Tier     model.Tier
	Score    float64
	Growth   float64
	Risk     float64
	Debt     float64
	Export   float64
	Selected bool
}

// Table ranks the visible sectors by current-year score, descending. Equal
// scores keep dataset order.
func Table(ds *model.Dataset, v state.View) []Row {
	ranked := chart.RankByScore(state.Visible(ds, v), v.YearIndex)
	rows := make([]Row, len(ranked))
	idx := v.YearIndex
	for i := range ranked {
		s := &ranked[i]
		rows[i] = Row{
			Rank:     i + 1,
			ID:       s.ID,
			Name:     s.Name,
			Tier:     s.Tier,
			Score:    s.At(model.MetricScore, idx),
			Growth:   s.At(model.MetricGrowth, idx),
			Risk:     s.At(model.MetricRisk, idx),
			Debt:     s.At(model.MetricDebt, idx),
			Export:   s.At(model.MetricExport, idx),
			Selected: s.ID == v.SelectedID,
		}
	}
	return rows
}

// TableHeader names the columns produced by Cells.
var TableHeader = []string{"#", "Sector", "Tier", "Score", "Growth", "Risk", "Debt", "Export"}

// Cells formats the row for display.
func (r Row) Cells() []string {
	return []string{
		fmt.Sprintf("%d", r.Rank),
		r.Name,
		TierLabel(r.Tier),
		fmt.Sprintf("%.0f", r.Score),
		fmt.Sprintf("%.1f%%", r.Growth),
		fmt.Sprintf("%.0f%%", r.Risk*100),
		fmt.Sprintf("%.0f%%", r.Debt*100),
		fmt.Sprintf("%.0f%%", r.Export),
	}
}

// TierLabel returns the display name of a tier, or the raw value for tiers
// outside the known set.
func TierLabel(t model.Tier) string {
	if t.IsValid() {
		return t.Label()
	}
	return string(t)
}
