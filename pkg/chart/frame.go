// Package chart turns a Dataset and a View into backend-independent frames.
//
// A renderer never touches a drawing surface directly. It returns a Frame: an
// ordered display list of primitive ops plus the hit-test regions produced by
// the same paint. The raster and vector backends replay the ops; the
// interaction router reads the regions. Frames are rebuilt from scratch on
// every call, so regions from an earlier paint are simply dropped with it.
package chart

import (
	"image/color"
	"math"

	"github.com/vanderheijden86/sectorlens/pkg/hittest"
)

// Viewport is the container size of a surface in CSS pixels plus the device
// pixel ratio. Zero sizes fall back to each renderer's default.
type Viewport struct {
	Width  float64
	Height float64
	DPR    float64
}

func (v Viewport) dpr() float64 {
	if v.DPR <= 0 {
		return 1
	}
	return v.DPR
}

func (v Viewport) widthOr(def float64) float64 {
	if v.Width <= 0 {
		return def
	}
	return v.Width
}

func (v Viewport) heightOr(def float64) float64 {
	if v.Height <= 0 {
		return def
	}
	return v.Height
}

// OpKind identifies a display-list primitive.
type OpKind uint8

const (
	OpClear OpKind = iota
	OpRect
	OpPath
	OpCircle
	OpText
)

func (k OpKind) String() string {
	switch k {
	case OpClear:
		return "clear"
	case OpRect:
		return "rect"
	case OpPath:
		return "path"
	case OpCircle:
		return "circle"
	case OpText:
		return "text"
	default:
		return "unknown"
	}
}

// Point is a position in frame units.
type Point struct {
	X, Y float64
}

// Op is one drawing primitive. Which fields matter depends on Kind:
// rects use X, Y, W, H; circles use X, Y, R; paths use Points; text uses
// X, Y, Text, AnchorX, AnchorY, FontSize and Rotate.
type Op struct {
	Kind OpKind

	Color     color.NRGBA
	Fill      bool
	LineWidth float64
	Dash      []float64

	X, Y, W, H, R float64
	Points        []Point

	Text     string
	AnchorX  float64
	AnchorY  float64
	FontSize float64
	Rotate   float64
}

// Frame is the output of a single paint.
type Frame struct {
	// Width and Height are the extent of the op coordinate space.
	Width, Height float64
	// Scale converts op units to device pixels.
	Scale float64
	// DPR is the device pixel ratio the frame was painted for.
	DPR float64

	Ops     []Op
	Regions hittest.List
}

func newFrame(w, h, scale, dpr float64) *Frame {
	return &Frame{Width: w, Height: h, Scale: scale, DPR: dpr}
}

// PixelSize returns the device pixel dimensions of the surface.
func (f *Frame) PixelSize() (int, int) {
	s := f.Scale
	if s <= 0 {
		s = 1
	}
	return int(math.Ceil(f.Width * s)), int(math.Ceil(f.Height * s))
}

// Local converts a pointer position in CSS pixels, relative to the surface
// origin, into the frame's op and region coordinate space.
func (f *Frame) Local(x, y float64) (float64, float64) {
	scale := f.Scale
	if scale <= 0 {
		scale = 1
	}
	dpr := f.DPR
	if dpr <= 0 {
		dpr = 1
	}
	k := dpr / scale
	return x * k, y * k
}

// CSSSize returns the surface size in CSS pixels.
func (f *Frame) CSSSize() (float64, float64) {
	scale := f.Scale
	if scale <= 0 {
		scale = 1
	}
	dpr := f.DPR
	if dpr <= 0 {
		dpr = 1
	}
	k := scale / dpr
	return f.Width * k, f.Height * k
}

// Empty reports whether the frame paints nothing beyond clearing.
func (f *Frame) Empty() bool {
	for _, op := range f.Ops {
		if op.Kind != OpClear {
			return false
		}
	}
	return true
}

// Count returns how many ops of the given kind the frame holds.
func (f *Frame) Count(kind OpKind) int {
	n := 0
	for _, op := range f.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Texts returns every text string in paint order.
func (f *Frame) Texts() []string {
	var out []string
	for _, op := range f.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

func (f *Frame) clear() {
	f.Ops = append(f.Ops, Op{Kind: OpClear})
}

func (f *Frame) fillRect(x, y, w, h float64, c color.NRGBA) {
	f.Ops = append(f.Ops, Op{Kind: OpRect, Fill: true, Color: c, X: x, Y: y, W: w, H: h})
}

func (f *Frame) strokeRect(x, y, w, h float64, c color.NRGBA, lw float64) {
	f.Ops = append(f.Ops, Op{Kind: OpRect, Color: c, LineWidth: lw, X: x, Y: y, W: w, H: h})
}

func (f *Frame) path(pts []Point, c color.NRGBA, lw float64, dash ...float64) {
	if len(pts) < 2 {
		return
	}
	f.Ops = append(f.Ops, Op{Kind: OpPath, Color: c, LineWidth: lw, Dash: dash, Points: pts})
}

func (f *Frame) line(x1, y1, x2, y2 float64, c color.NRGBA, lw float64, dash ...float64) {
	f.path([]Point{{x1, y1}, {x2, y2}}, c, lw, dash...)
}

func (f *Frame) fillCircle(x, y, r float64, c color.NRGBA) {
	f.Ops = append(f.Ops, Op{Kind: OpCircle, Fill: true, Color: c, X: x, Y: y, R: r})
}

func (f *Frame) text(s string, x, y, ax, ay, size float64, c color.NRGBA) {
	f.Ops = append(f.Ops, Op{Kind: OpText, Color: c, Text: s, X: x, Y: y, AnchorX: ax, AnchorY: ay, FontSize: size})
}

func (f *Frame) rotatedText(s string, x, y, size, angle float64, c color.NRGBA) {
	f.Ops = append(f.Ops, Op{Kind: OpText, Color: c, Text: s, X: x, Y: y, AnchorX: 0.5, AnchorY: 0.5, FontSize: size, Rotate: angle})
}

func (f *Frame) region(r hittest.Region) {
	f.Regions = append(f.Regions, r)
}
