package dashboard

import "github.com/vanderheijden86/sectorlens/pkg/chart"

// Layout is the viewport of every surface. Only widths and the DPR change on
// resize; heights of the bars and heatmap follow the sector count.
type Layout struct {
	Spark   chart.Viewport
	Scatter chart.Viewport
	Bars    chart.Viewport
	Matrix  chart.Viewport
}

// DefaultLayout sizes surfaces for a desktop-class panel at the given DPR.
func DefaultLayout(dpr float64) Layout {
	return Layout{
		Spark:   chart.Viewport{Width: 220, Height: 60, DPR: dpr},
		Scatter: chart.Viewport{Width: 640, Height: 320, DPR: dpr},
		Bars:    chart.Viewport{Width: 640, DPR: dpr},
		Matrix:  chart.Viewport{Width: 1000, Height: 420, DPR: dpr},
	}
}

// WithWidth returns the layout fitted to a container width in CSS pixels.
// The matrix takes the full width and the side charts share it.
func (l Layout) WithWidth(width float64) Layout {
	if width <= 0 {
		return l
	}
	l.Matrix.Width = width
	l.Scatter.Width = width
	l.Bars.Width = width
	return l
}
