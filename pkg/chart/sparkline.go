package chart

import (
	"image/color"

	"github.com/vanderheijden86/sectorlens/pkg/metrics"
	"github.com/vanderheijden86/sectorlens/pkg/scale"
)

const (
	defaultSparkWidth  = 220
	defaultSparkHeight = 60
)

// Sparkline paints a single min/max-normalized series with a dot on every
// point. An empty series yields a cleared surface.
// Ops are laid out in device pixels.
func Sparkline(series []float64, c color.RGBA, vp Viewport) *Frame {
	defer metrics.Timer(metrics.Spark)()

	dpr := vp.dpr()
	width := vp.widthOr(defaultSparkWidth) * dpr
	height := vp.heightOr(defaultSparkHeight) * dpr
	f := newFrame(width, height, 1, dpr)
	f.clear()
	if len(series) == 0 {
		return f
	}

	lo, hi := scale.Extent(series)
	pad := 10 * dpr
	w := width - pad*2
	h := height - pad*2

	f.line(pad, height-pad, width-pad, height-pad, colorAxis, 1)

	step := w / float64(max(len(series)-1, 1))
	pts := make([]Point, len(series))
	for i, v := range series {
		pts[i] = Point{
			X: pad + step*float64(i),
			Y: height - pad - scale.Linear(v, lo, hi, 0, h),
		}
	}
	f.path(pts, opaque(c), 2*dpr)

	for _, p := range pts {
		f.fillCircle(p.X, p.Y+1*dpr, 6*dpr, colorDotShade)
		f.fillCircle(p.X, p.Y, 4.6*dpr, colorDot)
	}
	return f
}
