package chart

import (
	"fmt"
	"math"

	"github.com/vanderheijden86/sectorlens/pkg/hittest"
	"github.com/vanderheijden86/sectorlens/pkg/metrics"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/scale"
	"github.com/vanderheijden86/sectorlens/pkg/state"
)

const (
	defaultMatrixWidth = 1000
	matrixLabelWidth   = 210
	matrixPad          = 14
	matrixTopPad       = 32
	matrixBottomPad    = 24
	matrixCellH        = 22
	matrixMinCellW     = 34
	matrixNameMax      = 24
)

// ForecastLabel marks the first forecast column in the heatmap.
const ForecastLabel = "Forecast"

// MatrixHeight returns the surface height the heatmap needs for n sectors.
func MatrixHeight(n int) float64 {
	return matrixTopPad + float64(n)*matrixCellH + matrixBottomPad
}

// Heatmap draws one row per sector (sorted by current-year score) and one
// column per year, shading each cell by its score. Every cell is a region
// keyed by sector and year index. Ops are in CSS pixels.
func Heatmap(ds *model.Dataset, v state.View, vp Viewport) *Frame {
	defer metrics.Timer(metrics.Heatmap)()

	var (
		sectors []model.Sector
		years   []int
	)
	if ds != nil {
		sectors = RankByScore(ds.Sectors, v.YearIndex)
		years = ds.Years
	}

	width := vp.widthOr(defaultMatrixWidth)
	height := MatrixHeight(len(sectors))
	f := newFrame(width, height, vp.dpr(), vp.dpr())
	f.clear()
	f.fillRect(0, 0, width, height, colorBackdrop)

	if len(years) == 0 {
		return f
	}

	gridX := float64(matrixLabelWidth + matrixPad)
	_, bandW := scale.Band(0, len(years), gridX, width-matrixLabelWidth-matrixPad*2)
	cellW := math.Max(matrixMinCellW, bandW)

	for j := range years {
		x := gridX + float64(j)*cellW + cellW/2
		f.text(ds.YearLabel(j), x, matrixTopPad-14, 0.5, 0.5, 12, fog(0.75))
	}

	for i := range sectors {
		s := &sectors[i]
		y := float64(matrixTopPad) + float64(i)*matrixCellH
		f.text(fmt.Sprintf("%d. %s", i+1, ShortName(s.Name, matrixNameMax)), matrixPad, y+matrixCellH/1.6, 0, 0.5, 12, fog(0.86))

		for j := range years {
			x := gridX + float64(j)*cellW
			val := s.At(model.MetricScore, j)
			f.fillRect(x, y, cellW-2, matrixCellH-2, opaque(scale.ColorForValue(val)))

			r := hittest.RectRegion(s.ID, x, y, cellW-2, matrixCellH-2)
			r.YearIndex = j
			r.Value = val
			f.region(r)
		}
	}

	if fi := ds.ForecastIndex(); fi > -1 {
		lineX := gridX + float64(fi)*cellW - 4
		f.line(lineX, 8, lineX, height-8, colorGuide, 1, 6, 4)
		f.text(ForecastLabel, lineX+6, matrixTopPad-4, 0, 0.5, 11, fog(0.7))
	}
	return f
}
