package chart

import (
	"image/color"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/scale"
)

// Surface colors.
var (
	colorInk      = color.NRGBA{0xea, 0xf1, 0xff, 0xff}
	colorDot      = color.NRGBA{0xdc, 0xe8, 0xff, 0xff}
	colorDotShade = color.NRGBA{0, 0, 0, 115}
	colorGrid     = fog(0.08)
	colorAxis     = fog(0.1)
	colorFrame    = fog(0.12)
	colorGuide    = fog(0.5)
	colorLabel    = fog(0.8)
	colorTrack    = color.NRGBA{0xff, 0xff, 0xff, 10}
	colorBackdrop = color.NRGBA{0xff, 0xff, 0xff, 5}
	colorOutline  = color.NRGBA{0xff, 0xff, 0xff, 166}
)

// Fixed sparkline colors used by the detail panel.
var (
	SparkDefaults = color.RGBA{0xff, 0xb8, 0x9f, 0xff}
	SparkDebt     = color.RGBA{0x5e, 0x8b, 0xff, 0xff}
)

// fog is the pale label blue at the given opacity.
func fog(alpha float64) color.NRGBA {
	return color.NRGBA{0xdc, 0xe8, 0xff, uint8(alpha*255 + 0.5)}
}

func withAlpha(c color.RGBA, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha*255 + 0.5)}
}

func opaque(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func tierColor(t model.Tier) color.RGBA {
	return scale.ColorForTier(t)
}

// ShortName trims a sector name to at most max display cells, ending with an
// ellipsis when cut.
func ShortName(name string, max int) string {
	trimmed := strings.TrimSpace(name)
	if max <= 0 {
		return ""
	}
	if runewidth.StringWidth(trimmed) <= max {
		return trimmed
	}
	return runewidth.Truncate(trimmed, max-1, "") + "…"
}

// FirstWord returns the leading word of a name, used for point labels.
func FirstWord(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
