// Package vector replays chart frames as SVG documents.
package vector

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo/float"

	"github.com/vanderheijden86/sectorlens/pkg/chart"
)

// Options controls SVG output.
type Options struct {
	// Background fills the document on every clear op. Nil leaves it
	// transparent.
	Background color.Color
}

// Write emits the frame as an SVG document sized in device pixels.
func Write(w io.Writer, f *chart.Frame, opts Options) error {
	pw, ph := f.PixelSize()
	s := f.Scale
	if s <= 0 {
		s = 1
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(float64(pw), float64(ph))
	canvas.Scale(s)
	for _, op := range f.Ops {
		draw(canvas, f, op, opts)
	}
	canvas.Gend()
	canvas.End()
	return ew.err
}

// errWriter keeps the first write error and discards everything after it;
// the svg canvas ignores write errors.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = fmt.Errorf("write svg: %w", err)
	}
	return n, err
}

func draw(canvas *svg.SVG, f *chart.Frame, op chart.Op, opts Options) {
	switch op.Kind {
	case chart.OpClear:
		if opts.Background == nil {
			return
		}
		canvas.Rect(0, 0, f.Width, f.Height, "fill:"+css(opts.Background))

	case chart.OpRect:
		canvas.Rect(op.X, op.Y, op.W, op.H, paint(op))

	case chart.OpCircle:
		canvas.Circle(op.X, op.Y, op.R, paint(op))

	case chart.OpPath:
		if len(op.Points) < 2 {
			return
		}
		xs := make([]float64, len(op.Points))
		ys := make([]float64, len(op.Points))
		for i, p := range op.Points {
			xs[i], ys[i] = p.X, p.Y
		}
		canvas.Polyline(xs, ys, paint(op)+";fill:none")

	case chart.OpText:
		style := fmt.Sprintf("%s;font-size:%gpx;font-family:monospace;text-anchor:%s;dominant-baseline:%s",
			fillStyle(op.Color), fontSize(op), anchor(op.AnchorX), baseline(op.AnchorY))
		if op.Rotate != 0 {
			canvas.TranslateRotate(op.X, op.Y, op.Rotate*180/math.Pi)
			canvas.Text(0, 0, op.Text, style)
			canvas.Gend()
			return
		}
		canvas.Text(op.X, op.Y, op.Text, style)
	}
}

func paint(op chart.Op) string {
	if op.Fill {
		return fillStyle(op.Color)
	}
	lw := op.LineWidth
	if lw <= 0 {
		lw = 1
	}
	s := fmt.Sprintf("fill:none;stroke:%s;stroke-opacity:%.3g;stroke-width:%g", css(op.Color), opacity(op.Color), lw)
	if len(op.Dash) > 0 {
		parts := make([]string, len(op.Dash))
		for i, d := range op.Dash {
			parts[i] = fmt.Sprintf("%g", d)
		}
		s += ";stroke-dasharray:" + strings.Join(parts, ",")
	}
	return s
}

func fillStyle(c color.NRGBA) string {
	return fmt.Sprintf("fill:%s;fill-opacity:%.3g", css(c), opacity(c))
}

func fontSize(op chart.Op) float64 {
	if op.FontSize <= 0 {
		return 12
	}
	return op.FontSize
}

func anchor(ax float64) string {
	switch {
	case ax >= 1:
		return "end"
	case ax > 0:
		return "middle"
	default:
		return "start"
	}
}

func baseline(ay float64) string {
	if ay > 0 {
		return "middle"
	}
	return "auto"
}

func opacity(c color.NRGBA) float64 {
	return float64(c.A) / 255
}

func css(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
