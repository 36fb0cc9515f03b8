package chart

import (
	"github.com/vanderheijden86/sectorlens/pkg/hittest"
	"github.com/vanderheijden86/sectorlens/pkg/metrics"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/scale"
	"github.com/vanderheijden86/sectorlens/pkg/state"
)

const (
	rankingPad     = 60
	rankingMarkerR = 8
	rankingSlack   = 4
)

// RankingTitle captions the multi-line ranking chart.
const RankingTitle = "IKB (composite score) • higher = stronger"

// Ranking draws one score polyline per sector across the whole year axis,
// normalized by the global score extent. The only region per sector is the
// marker at the current year. Ops are in CSS pixels.
func Ranking(ds *model.Dataset, v state.View, vp Viewport) *Frame {
	defer metrics.Timer(metrics.Ranking)()

	width := vp.widthOr(defaultWideWidth)
	height := vp.heightOr(defaultTallH)
	f := newFrame(width, height, vp.dpr(), vp.dpr())
	f.clear()

	var (
		sectors []model.Sector
		years   []int
	)
	if ds != nil {
		sectors = ds.Sectors
		years = ds.Years
	}

	plotW := width - rankingPad*2
	plotH := height - rankingPad*2

	var all []float64
	for i := range sectors {
		all = append(all, sectors[i].Score...)
	}
	lo, hi := scale.Extent(all)
	hi = orOne(hi)

	step := plotW / float64(max(len(years)-1, 1))
	xAt := func(i int) float64 { return rankingPad + step*float64(i) }
	yAt := func(score float64) float64 {
		return height - rankingPad - scale.Linear(score, lo, hi, 0, plotH)
	}

	f.path([]Point{{rankingPad, rankingPad}, {rankingPad, height - rankingPad}, {width - rankingPad, height - rankingPad}}, colorAxis, 1)

	xYear := xAt(v.YearIndex)
	f.line(xYear, rankingPad, xYear, height-rankingPad, colorGuide, 1, 5, 4)

	type marker struct {
		id   string
		x, y float64
		tier model.Tier
	}
	var markers []marker
	for i := range sectors {
		s := &sectors[i]
		pts := make([]Point, len(s.Score))
		for j, sc := range s.Score {
			pts[j] = Point{X: xAt(j), Y: yAt(sc)}
			if j == v.YearIndex {
				markers = append(markers, marker{id: s.ID, x: pts[j].X, y: pts[j].Y, tier: s.Tier})
			}
		}
		lw, alpha := 1.4, 0.65
		if s.ID == v.SelectedID {
			lw, alpha = 2.5, 1
		}
		f.path(pts, withAlpha(tierColor(s.Tier), alpha), lw)
	}

	for _, m := range markers {
		r := 5.0
		if m.id == v.SelectedID {
			r = 7
		}
		f.fillCircle(m.x, m.y, r, opaque(tierColor(m.tier)))
		f.region(hittest.CircleRegion(m.id, m.x, m.y, rankingMarkerR+rankingSlack))
	}

	for i := range years {
		f.text(ds.YearLabel(i), xAt(i), height-rankingPad+18, 0.5, 0, 12, colorLabel)
	}
	f.text(RankingTitle, rankingPad, rankingPad-16, 0, 0, 12, colorLabel)
	return f
}
