package chart

import (
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/state"
)

// Renderer is the common signature of every dataset-driven chart.
type Renderer func(ds *model.Dataset, v state.View, vp Viewport) *Frame

// ForMode returns the renderer backing a chart mode. Unknown modes fall back
// to the heatmap.
func ForMode(m state.ChartMode) Renderer {
	switch m {
	case state.ModeGrowthProfit:
		return Quadrant
	case state.ModeRanking:
		return Ranking
	default:
		return Heatmap
	}
}

// Suite holds one frame per chart mode from a single paint.
type Suite map[state.ChartMode]*Frame

// RenderSuite repaints all chart-mode renderers so switching modes never
// shows a stale year.
func RenderSuite(ds *model.Dataset, v state.View, vp Viewport) Suite {
	out := make(Suite, len(state.ChartModes))
	for _, m := range state.ChartModes {
		out[m] = ForMode(m)(ds, v, vp)
	}
	return out
}

// Active returns the frame of the view's current mode.
func (s Suite) Active(v state.View) *Frame {
	return s[v.Mode]
}
