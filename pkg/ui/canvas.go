package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sectorlens/pkg/chart"
	"github.com/vanderheijden86/sectorlens/pkg/chart/raster"
)

// halfBlock shows the upper pixel as foreground and the lower as background.
const halfBlock = "▀"

// Canvas is a terminal rectangle showing one frame. Every cell holds two
// vertically stacked samples of the rasterized surface.
type Canvas struct {
	Cols, Rows int
}

// Valid reports whether the canvas has room to draw.
func (c Canvas) Valid() bool {
	return c.Cols > 0 && c.Rows > 0
}

// Render rasterizes f and samples it into the canvas.
func (c Canvas) Render(r *lipgloss.Renderer, f *chart.Frame) string {
	if !c.Valid() || f == nil {
		return ""
	}
	img := raster.Render(f, raster.Options{Background: raster.Backdrop})
	return c.sample(r, img)
}

func (c Canvas) sample(r *lipgloss.Renderer, img image.Image) string {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	at := func(col, half int) color.Color {
		x := b.Min.X + int((float64(col)+0.5)/float64(c.Cols)*w)
		y := b.Min.Y + int((float64(half)+0.5)/float64(2*c.Rows)*h)
		return img.At(x, y)
	}

	var sb strings.Builder
	for row := 0; row < c.Rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < c.Cols; col++ {
			top := hexColor(at(col, 2*row))
			bottom := hexColor(at(col, 2*row+1))
			sb.WriteString(r.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render(halfBlock))
		}
	}
	return sb.String()
}

// ToCSS maps a cell, relative to the canvas origin, to the CSS pixel at its
// center on a surface of the given CSS size.
func (c Canvas) ToCSS(col, row int, cssW, cssH float64) (float64, float64, bool) {
	if !c.Valid() || col < 0 || row < 0 || col >= c.Cols || row >= c.Rows {
		return 0, 0, false
	}
	x := (float64(col) + 0.5) / float64(c.Cols) * cssW
	y := (float64(row) + 0.5) / float64(c.Rows) * cssH
	return x, y, true
}

// FromCSS maps a CSS pixel back to the cell that shows it.
func (c Canvas) FromCSS(x, y, cssW, cssH float64) (int, int) {
	if cssW <= 0 || cssH <= 0 || !c.Valid() {
		return 0, 0
	}
	col := int(x / cssW * float64(c.Cols))
	row := int(y / cssH * float64(c.Rows))
	return clampInt(col, 0, c.Cols-1), clampInt(row, 0, c.Rows-1)
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
