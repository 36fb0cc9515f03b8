// Package scale holds the pure functions every chart uses to map data values
// onto pixels and colors.
package scale

import (
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/vanderheijden86/sectorlens/pkg/model"
)

// Linear maps value from [domainMin, domainMax] onto [rangeMin, rangeMax].
// A zero-width domain uses a denominator of 1 so the result stays finite.
func Linear(value, domainMin, domainMax, rangeMin, rangeMax float64) float64 {
	span := domainMax - domainMin
	if span == 0 {
		span = 1
	}
	return rangeMin + (value-domainMin)/span*(rangeMax-rangeMin)
}

// Band returns the start and width of band index out of count equal bands
// laid over [start, start+size].
func Band(index, count int, start, size float64) (pos, width float64) {
	if count <= 0 {
		return start, 0
	}
	width = size / float64(count)
	return start + float64(index)*width, width
}

// Extent returns the minimum and maximum of values, or (0, 0) when empty.
func Extent(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return floats.Min(values), floats.Max(values)
}

// Median returns the element at index floor(n/2) of the ascending-sorted
// values (the upper of the two middle elements for even n), or 0 when empty.
// The input slice is not reordered.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

var (
	heatLow  = [3]float64{30, 90, 190}
	heatHigh = [3]float64{105, 230, 245}
)

// ColorForValue shades a 0-100 value between the heatmap endpoints.
func ColorForValue(value float64) color.RGBA {
	return ColorForValueRange(value, 0, 100)
}

// ColorForValueRange clamps value to [lo, hi] and interpolates the heatmap
// endpoints linearly across that range.
func ColorForValueRange(value, lo, hi float64) color.RGBA {
	if math.IsNaN(value) {
		value = lo
	}
	v := math.Max(lo, math.Min(hi, value))
	t := Linear(v, lo, hi, 0, 1)
	return color.RGBA{
		R: uint8(math.Round(heatLow[0] + (heatHigh[0]-heatLow[0])*t)),
		G: uint8(math.Round(heatLow[1] + (heatHigh[1]-heatLow[1])*t)),
		B: uint8(math.Round(heatLow[2] + (heatHigh[2]-heatLow[2])*t)),
		A: 0xff,
	}
}

// Tier palette.
var (
	ColorDeveloping = color.RGBA{0x36, 0xd0, 0xff, 0xff}
	ColorCore       = color.RGBA{0x5e, 0x8b, 0xff, 0xff}
	ColorWatchlist  = color.RGBA{0xff, 0x7b, 0x6f, 0xff}
	ColorTierOther  = color.RGBA{0x5e, 0x8b, 0xff, 0xff}
)

// ColorForTier returns the palette color for a tier, or ColorTierOther.
func ColorForTier(t model.Tier) color.RGBA {
	switch t {
	case model.TierDeveloping:
		return ColorDeveloping
	case model.TierCore:
		return ColorCore
	case model.TierWatchlist:
		return ColorWatchlist
	default:
		return ColorTierOther
	}
}
