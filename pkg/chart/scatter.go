package chart

import (
	"github.com/vanderheijden86/sectorlens/pkg/hittest"
	"github.com/vanderheijden86/sectorlens/pkg/metrics"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/state"
)

const (
	defaultScatterWidth  = 640
	defaultScatterHeight = 320
)

// Scatter plots growth against risk for every sector at the current year,
// regardless of the segment filter. Ops and regions are in device pixels.
func Scatter(ds *model.Dataset, v state.View, vp Viewport) *Frame {
	defer metrics.Timer(metrics.Scatter)()

	dpr := vp.dpr()
	width := vp.widthOr(defaultScatterWidth) * dpr
	height := vp.heightOr(defaultScatterHeight) * dpr
	f := newFrame(width, height, 1, dpr)
	f.clear()

	offX, offY := 14*dpr, 10*dpr
	plotW := width - 28*dpr
	plotH := height - 24*dpr

	for i := 0; i <= 4; i++ {
		y := offY + plotH/4*float64(i)
		f.line(offX, y, offX+plotW, y, colorGrid, 1)
	}
	f.path([]Point{{offX, offY + plotH}, {offX + plotW, offY + plotH}, {offX + plotW, offY}}, colorFrame, 1)

	if ds == nil || len(ds.Sectors) == 0 {
		return f
	}

	idx := v.YearIndex
	maxGrowth, maxRisk := 0.0, 0.0
	for i := range ds.Sectors {
		s := &ds.Sectors[i]
		if g := s.At(model.MetricGrowth, idx); i == 0 || g > maxGrowth {
			maxGrowth = g
		}
		if r := s.At(model.MetricRisk, idx); i == 0 || r > maxRisk {
			maxRisk = r
		}
	}
	maxGrowth = orOne(maxGrowth * 1.05)
	maxRisk = orOne(maxRisk * 1.05)

	radius := 8 * dpr
	for i := range ds.Sectors {
		s := &ds.Sectors[i]
		x := offX + s.At(model.MetricRisk, idx)/maxRisk*plotW
		y := offY + plotH - s.At(model.MetricGrowth, idx)/maxGrowth*plotH
		c := tierColor(s.Tier)

		f.fillCircle(x, y, radius*1.7, withAlpha(c, 0.25))
		f.fillCircle(x, y, radius, opaque(c))
		f.text(FirstWord(s.Name), x, y-12*dpr, 0.5, 0, 12*dpr, colorInk)

		f.region(hittest.CircleRegion(s.ID, x, y, radius*2))
	}
	return f
}

// orOne replaces a zero extent with 1.
func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
