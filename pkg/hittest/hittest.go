// Package hittest maps pixel-space shapes back to the domain entities that were
// painted there. A List is rebuilt from scratch on every paint of its surface
// and is only authoritative until the next paint.
package hittest

import "math"

// Shape distinguishes rectangular from circular regions.
type Shape uint8

const (
	Rect Shape = iota
	Circle
)

// NoYear marks a region that is not tied to a year index.
const NoYear = -1

// Region associates a pixel-space shape with a sector and optionally a year.
// Rectangles use X, Y, W, H; circles use X, Y as the center and R.
type Region struct {
	Shape      Shape
	X, Y, W, H float64
	R          float64

	SectorID  string
	YearIndex int
	Value     float64
}

// RectRegion builds a rectangle region for a sector.
func RectRegion(id string, x, y, w, h float64) Region {
	return Region{Shape: Rect, X: x, Y: y, W: w, H: h, SectorID: id, YearIndex: NoYear}
}

// CircleRegion builds a circular region for a sector.
func CircleRegion(id string, x, y, r float64) Region {
	return Region{Shape: Circle, X: x, Y: y, R: r, SectorID: id, YearIndex: NoYear}
}

// Contains reports whether the point lies inside the region. Edges count as
// inside.
func (r Region) Contains(x, y float64) bool {
	switch r.Shape {
	case Circle:
		return math.Hypot(x-r.X, y-r.Y) <= r.R
	default:
		return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
	}
}

// Center returns the anchor point of the region: the circle center or the
// rectangle midpoint.
func (r Region) Center() (float64, float64) {
	if r.Shape == Circle {
		return r.X, r.Y
	}
	return r.X + r.W/2, r.Y + r.H/2
}

// Distance returns the Euclidean distance from the point to the region anchor.
func (r Region) Distance(x, y float64) float64 {
	cx, cy := r.Center()
	return math.Hypot(x-cx, y-cy)
}

// List is the region list of one paint.
type List []Region

// Hit returns the first region containing the point.
func (l List) Hit(x, y float64) (Region, bool) {
	for _, r := range l {
		if r.Contains(x, y) {
			return r, true
		}
	}
	return Region{}, false
}

// Nearest returns the region whose anchor is closest to the point. Ties keep
// the earlier region. It only fails on an empty list.
func (l List) Nearest(x, y float64) (Region, bool) {
	if len(l) == 0 {
		return Region{}, false
	}
	best := 0
	bestDist := l[0].Distance(x, y)
	for i := 1; i < len(l); i++ {
		if d := l[i].Distance(x, y); d < bestDist {
			best, bestDist = i, d
		}
	}
	return l[best], true
}

// HitOrNearest tries Hit first and falls back to Nearest.
func (l List) HitOrNearest(x, y float64) (Region, bool) {
	if r, ok := l.Hit(x, y); ok {
		return r, true
	}
	return l.Nearest(x, y)
}
