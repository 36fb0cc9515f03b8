// Package raster replays chart frames onto a gg context.
package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/sectorlens/pkg/chart"
)

// Backdrop is the dashboard panel color used when a surface is flattened for
// display or export.
var Backdrop = color.RGBA{0x0d, 0x16, 0x2b, 0xff}

// Options controls rasterization.
type Options struct {
	// Background fills the surface on every clear op. Nil leaves it
	// transparent.
	Background color.Color
}

// Render paints the frame at device resolution.
func Render(f *chart.Frame, opts Options) image.Image {
	w, h := f.PixelSize()
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	dc := gg.NewContext(w, h)
	s := f.Scale
	if s <= 0 {
		s = 1
	}
	dc.Scale(s, s)
	dc.SetFontFace(basicfont.Face7x13)

	for _, op := range f.Ops {
		draw(dc, op, opts)
	}
	return dc.Image()
}

// WritePNG encodes the rendered frame as PNG.
func WritePNG(w io.Writer, f *chart.Frame, opts Options) error {
	return png.Encode(w, Render(f, opts))
}

func draw(dc *gg.Context, op chart.Op, opts Options) {
	switch op.Kind {
	case chart.OpClear:
		bg := opts.Background
		if bg == nil {
			bg = color.Transparent
		}
		dc.SetColor(bg)
		dc.Clear()

	case chart.OpRect:
		dc.SetColor(op.Color)
		dc.DrawRectangle(op.X, op.Y, op.W, op.H)
		finish(dc, op)

	case chart.OpCircle:
		dc.SetColor(op.Color)
		dc.DrawCircle(op.X, op.Y, op.R)
		finish(dc, op)

	case chart.OpPath:
		if len(op.Points) < 2 {
			return
		}
		dc.SetColor(op.Color)
		dc.NewSubPath()
		dc.MoveTo(op.Points[0].X, op.Points[0].Y)
		for _, p := range op.Points[1:] {
			dc.LineTo(p.X, p.Y)
		}
		finish(dc, op)

	case chart.OpText:
		dc.SetColor(op.Color)
		if op.Rotate != 0 {
			dc.Push()
			dc.RotateAbout(op.Rotate, op.X, op.Y)
			dc.DrawStringAnchored(op.Text, op.X, op.Y, op.AnchorX, op.AnchorY)
			dc.Pop()
			return
		}
		dc.DrawStringAnchored(op.Text, op.X, op.Y, op.AnchorX, op.AnchorY)
	}
}

func finish(dc *gg.Context, op chart.Op) {
	if op.Fill {
		dc.Fill()
		return
	}
	lw := op.LineWidth
	if lw <= 0 {
		lw = 1
	}
	dc.SetLineWidth(lw)
	dc.SetDash(op.Dash...)
	dc.Stroke()
	dc.SetDash()
}
