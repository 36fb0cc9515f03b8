package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/vanderheijden86/sectorlens/pkg/chart"
	"github.com/vanderheijden86/sectorlens/pkg/state"
	"github.com/vanderheijden86/sectorlens/pkg/testutil"
)

func TestRenderUsesDeviceResolution(t *testing.T) {
	ds := testutil.Scenario()
	f := chart.RankedBars(ds, state.New(ds), chart.Viewport{Width: 300, DPR: 2})
	img := Render(f, Options{Background: Backdrop})
	b := img.Bounds()
	wantW, wantH := f.PixelSize()
	if b.Dx() != wantW || b.Dy() != wantH {
		t.Errorf("image = %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
	}
	if wantW != 600 {
		t.Errorf("expected 2x width, got %d", wantW)
	}
}

func TestRenderPaintsBackground(t *testing.T) {
	f := chart.Sparkline(nil, chart.SparkDebt, chart.Viewport{Width: 20, Height: 10, DPR: 1})
	img := Render(f, Options{Background: Backdrop})
	r, g, b, a := img.At(5, 5).RGBA()
	want := color.RGBAModel.Convert(Backdrop).(color.RGBA)
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B || a == 0 {
		t.Errorf("pixel = %d,%d,%d,%d; want backdrop", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestRenderHeatmapCellColor(t *testing.T) {
	ds := testutil.Scenario()
	f := chart.Heatmap(ds, state.New(ds), chart.Viewport{Width: 600, DPR: 1})
	img := Render(f, Options{Background: Backdrop})
	// Center of the first cell of sector A (score 10).
	cell := f.Regions[0]
	cx, cy := cell.Center()
	got := color.RGBAModel.Convert(img.At(int(cx), int(cy))).(color.RGBA)
	if got.R == Backdrop.R && got.G == Backdrop.G && got.B == Backdrop.B {
		t.Error("cell center was left unpainted")
	}
}

func TestWritePNG(t *testing.T) {
	ds := testutil.NewDefault().Dataset()
	f := chart.Ranking(ds, state.New(ds), chart.Viewport{Width: 640, DPR: 1})
	var buf bytes.Buffer
	if err := WritePNG(&buf, f, Options{}); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 640 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}
}
