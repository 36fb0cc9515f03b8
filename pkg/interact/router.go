// Package interact resolves pointer input on chart surfaces to sectors.
//
// The router knows nothing about terminals or windows: callers pass pointer
// positions in CSS pixels relative to the surface origin, and the router
// converts them into the coordinate space of the surface's most recent frame.
package interact

import (
	"fmt"

	"github.com/vanderheijden86/sectorlens/pkg/chart"
	"github.com/vanderheijden86/sectorlens/pkg/hittest"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/state"
)

// Surface names a fixed-role chart surface.
type Surface string

const (
	SurfaceScatter  Surface = "scatter"
	SurfaceBars     Surface = "bars"
	SurfaceHeatmap  Surface = "heatmap"
	SurfaceQuadrant Surface = "growth-profit"
	SurfaceRanking  Surface = "ikb-ranking"
)

// Surfaces lists every clickable surface.
var Surfaces = []Surface{SurfaceScatter, SurfaceBars, SurfaceHeatmap, SurfaceQuadrant, SurfaceRanking}

// ForMode maps a chart mode onto the surface that displays it.
func ForMode(m state.ChartMode) Surface {
	switch m {
	case state.ModeGrowthProfit:
		return SurfaceQuadrant
	case state.ModeRanking:
		return SurfaceRanking
	default:
		return SurfaceHeatmap
	}
}

// TooltipOffset is the distance between the pointer and the tooltip corner.
const TooltipOffset = 12

// Tooltip is the floating label shown while hovering the heatmap.
type Tooltip struct {
	Visible   bool
	X, Y      float64
	SectorID  string
	YearIndex int
	Title     string
	Body      string
}

// Router holds the latest region list of every surface.
type Router struct {
	frames  map[Surface]*chart.Frame
	tooltip Tooltip
}

// NewRouter returns a router with no surfaces attached.
func NewRouter() *Router {
	return &Router{frames: make(map[Surface]*chart.Frame)}
}

// Attach records the frame of a fresh paint, replacing the surface's
// previous regions.
func (r *Router) Attach(s Surface, f *chart.Frame) {
	r.frames[s] = f
}

// Frame returns the last frame attached for a surface.
func (r *Router) Frame(s Surface) (*chart.Frame, bool) {
	f, ok := r.frames[s]
	return f, ok && f != nil
}

// Regions returns the current region list of a surface.
func (r *Router) Regions(s Surface) hittest.List {
	if f, ok := r.Frame(s); ok {
		return f.Regions
	}
	return nil
}

func (r *Router) resolve(s Surface, x, y float64) (hittest.Region, bool) {
	f, ok := r.Frame(s)
	if !ok || len(f.Regions) == 0 {
		return hittest.Region{}, false
	}
	lx, ly := f.Local(x, y)
	if s == SurfaceScatter {
		return f.Regions.HitOrNearest(lx, ly)
	}
	return f.Regions.Hit(lx, ly)
}

// Click resolves a click to a sector id. On the scatter surface every click
// resolves to the nearest point; elsewhere only a containing region counts.
func (r *Router) Click(s Surface, x, y float64) (string, bool) {
	reg, ok := r.resolve(s, x, y)
	if !ok {
		return "", false
	}
	return reg.SectorID, true
}

// Hover updates the tooltip for a pointer move. Only the heatmap shows a
// tooltip; moves over any other surface or over no cell hide it.
func (r *Router) Hover(ds *model.Dataset, s Surface, x, y float64) Tooltip {
	if s != SurfaceHeatmap {
		r.tooltip = Tooltip{}
		return r.tooltip
	}
	reg, ok := r.resolve(s, x, y)
	if !ok {
		r.tooltip = Tooltip{}
		return r.tooltip
	}

	title := reg.SectorID
	if sec, found := ds.Sector(reg.SectorID); found && sec.Name != "" {
		title = sec.Name
	}
	r.tooltip = Tooltip{
		Visible:   true,
		X:         x + TooltipOffset,
		Y:         y + TooltipOffset,
		SectorID:  reg.SectorID,
		YearIndex: reg.YearIndex,
		Title:     title,
		Body:      fmt.Sprintf("%d: %.0f pkt", ds.Year(reg.YearIndex), reg.Value),
	}
	return r.tooltip
}

// Leave hides the tooltip when the pointer exits a surface.
func (r *Router) Leave() {
	r.tooltip = Tooltip{}
}

// Tooltip returns the current tooltip.
func (r *Router) Tooltip() Tooltip {
	return r.tooltip
}
