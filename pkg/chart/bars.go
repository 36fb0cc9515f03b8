package chart

import (
	"fmt"
	"math"
	"sort"

	"github.com/vanderheijden86/sectorlens/pkg/hittest"
	"github.com/vanderheijden86/sectorlens/pkg/metrics"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/state"
)

const (
	defaultBarsWidth = 640
	barHeight        = 18
	barGap           = 8
	barPadding       = 16
)

// RankByScore returns the sectors ordered descending by score at year index
// idx. Equal scores keep their dataset order.
func RankByScore(sectors []model.Sector, idx int) []model.Sector {
	out := make([]model.Sector, len(sectors))
	copy(out, sectors)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At(model.MetricScore, idx) > out[j].At(model.MetricScore, idx)
	})
	return out
}

// BarsHeight returns the surface height the ranked bars need for n sectors.
func BarsHeight(n int) float64 {
	return barPadding*2 + float64(n)*(barHeight+barGap)
}

// RankedBars draws every sector as a horizontal bar sorted by current-year
// score. The region for a sector spans its whole row.
// Ops are in CSS pixels; the frame scale carries the device ratio.
func RankedBars(ds *model.Dataset, v state.View, vp Viewport) *Frame {
	defer metrics.Timer(metrics.Bars)()

	var sectors []model.Sector
	if ds != nil {
		sectors = RankByScore(ds.Sectors, v.YearIndex)
	}
	width := vp.widthOr(defaultBarsWidth)
	height := BarsHeight(len(sectors))
	f := newFrame(width, height, vp.dpr(), vp.dpr())
	f.clear()

	idx := v.YearIndex
	maxScore := 0.0
	for i := range sectors {
		if sc := sectors[i].At(model.MetricScore, idx); i == 0 || sc > maxScore {
			maxScore = sc
		}
	}
	maxScore = orOne(maxScore)

	track := width - barPadding*2
	for i := range sectors {
		s := &sectors[i]
		y := barPadding + float64(i)*(barHeight+barGap)
		score := s.At(model.MetricScore, idx)
		selected := s.ID == v.SelectedID

		f.fillRect(barPadding, y, track, barHeight, colorTrack)

		barW := math.Max(6, score/maxScore*track)
		alpha := 0.72
		if selected {
			alpha = 1
		}
		f.fillRect(barPadding, y, barW, barHeight, withAlpha(tierColor(s.Tier), alpha))
		if selected {
			f.strokeRect(barPadding-1, y-1, barW+2, barHeight+2, colorOutline, 1)
		}

		textY := y + barHeight/1.45
		f.text(fmt.Sprintf("%d. %s", i+1, s.Name), barPadding+8, textY, 0, 0.5, 12, colorInk)
		f.text(fmt.Sprintf("%.0f pkt", score), width-barPadding, textY, 1, 0.5, 12, fog(0.88))

		f.region(hittest.RectRegion(s.ID, 0, y, width, barHeight))
	}
	return f
}
