package chart

import (
	"math"

	"github.com/vanderheijden86/sectorlens/pkg/hittest"
	"github.com/vanderheijden86/sectorlens/pkg/metrics"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/scale"
	"github.com/vanderheijden86/sectorlens/pkg/state"
)

const (
	defaultWideWidth = 1000
	defaultTallH     = 420
	quadrantPad      = 50
	quadrantHitR     = 10
)

// Quadrant labels, placed relative to the median intersection.
const (
	QuadrantLeaders       = "Leaders"
	QuadrantTransforming  = "Transforming"
	QuadrantEfficiency    = "Efficiency"
	QuadrantUnderPressure = "Under pressure"
)

// Axis captions of the growth/profit chart.
const (
	ProfitAxisLabel = "Profitability (proxy: composite score)"
	GrowthAxisLabel = "Growth (y/y %)"
)

// QuadrantLayout is the geometry shared by the quadrant renderer and its
// tests: per-axis medians and extents at the current year and the pixel
// position of the median crossing.
type QuadrantLayout struct {
	MedianProfit, MedianGrowth float64
	MinProfit, MaxProfit       float64
	MinGrowth, MaxGrowth       float64
	MedX, MedY                 float64
}

func quadrantLayout(sectors []model.Sector, idx int, width, height float64) QuadrantLayout {
	profits := make([]float64, len(sectors))
	growths := make([]float64, len(sectors))
	for i := range sectors {
		profits[i] = sectors[i].At(model.MetricScore, idx)
		growths[i] = sectors[i].At(model.MetricGrowth, idx)
	}

	l := QuadrantLayout{
		MedianProfit: scale.Median(profits),
		MedianGrowth: scale.Median(growths),
	}
	l.MinProfit, l.MaxProfit = scale.Extent(profits)
	l.MinGrowth, l.MaxGrowth = scale.Extent(growths)
	l.MaxProfit = orOne(l.MaxProfit)
	l.MaxGrowth = orOne(l.MaxGrowth)

	plotW := width - quadrantPad*2
	plotH := height - quadrantPad*2
	l.MedX = l.x(l.MedianProfit, plotW)
	l.MedY = l.y(l.MedianGrowth, height, plotH)
	return l
}

func (l QuadrantLayout) x(profit, plotW float64) float64 {
	return scale.Linear(profit, l.MinProfit, l.MaxProfit, quadrantPad, quadrantPad+plotW)
}

func (l QuadrantLayout) y(growth, height, plotH float64) float64 {
	return height - quadrantPad - scale.Linear(growth, l.MinGrowth, l.MaxGrowth, 0, plotH)
}

// Quadrant plots score (x) against growth (y) at the current year for every
// sector, split by dashed median lines into four labeled quadrants.
// Ops are in CSS pixels.
func Quadrant(ds *model.Dataset, v state.View, vp Viewport) *Frame {
	defer metrics.Timer(metrics.Quadrant)()

	width := vp.widthOr(defaultWideWidth)
	height := vp.heightOr(defaultTallH)
	f := newFrame(width, height, vp.dpr(), vp.dpr())
	f.clear()

	var sectors []model.Sector
	if ds != nil {
		sectors = ds.Sectors
	}
	plotW := width - quadrantPad*2
	plotH := height - quadrantPad*2
	l := quadrantLayout(sectors, v.YearIndex, width, height)

	f.path([]Point{{quadrantPad, quadrantPad}, {quadrantPad, height - quadrantPad}, {width - quadrantPad, height - quadrantPad}}, colorAxis, 1)
	f.line(l.MedX, quadrantPad, l.MedX, height-quadrantPad, colorGuide, 1, 6, 4)
	f.line(quadrantPad, l.MedY, width-quadrantPad, l.MedY, colorGuide, 1, 6, 4)

	for i := range sectors {
		s := &sectors[i]
		x := l.x(s.At(model.MetricScore, v.YearIndex), plotW)
		y := l.y(s.At(model.MetricGrowth, v.YearIndex), height, plotH)
		r := 6.0
		if s.ID == v.SelectedID {
			r = 8
		}
		c := tierColor(s.Tier)
		f.fillCircle(x, y, r*1.6, withAlpha(c, 0.2))
		f.fillCircle(x, y, r, opaque(c))
		f.text(FirstWord(s.Name), x, y-12, 0.5, 0, 11, colorInk)

		f.region(hittest.CircleRegion(s.ID, x, y, quadrantHitR))
	}

	f.text(ProfitAxisLabel, width/2-40, height-quadrantPad+28, 0.5, 0, 12, colorLabel)
	f.rotatedText(GrowthAxisLabel, quadrantPad-32, height/2, 12, -math.Pi/2, colorLabel)

	labels := []struct {
		text string
		x, y float64
	}{
		{QuadrantLeaders, l.MedX + 8, l.MedY - 10},
		{QuadrantTransforming, l.MedX + 8, l.MedY + 20},
		{QuadrantEfficiency, l.MedX - 80, l.MedY - 10},
		{QuadrantUnderPressure, l.MedX - 70, l.MedY + 20},
	}
	for _, lb := range labels {
		f.text(lb.text, lb.x, lb.y, 0, 0, 12, fog(0.65))
	}
	return f
}
