// Package export writes dashboard surfaces and data to files: PNG or SVG
// snapshots of every chart, a SQLite snapshot of the merged dataset, and a
// plain-text ranked report.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/sectorlens/pkg/chart"
	"github.com/vanderheijden86/sectorlens/pkg/chart/raster"
	"github.com/vanderheijden86/sectorlens/pkg/chart/vector"
	"github.com/vanderheijden86/sectorlens/pkg/dashboard"
	"github.com/vanderheijden86/sectorlens/pkg/state"
)

// Formats supported by snapshot export.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// SnapshotOptions configures SaveSnapshot.
type SnapshotOptions struct {
	Dir      string             // Output directory, created if missing
	Format   string             // png or svg; defaults to png
	Snapshot dashboard.Snapshot // Painted frames to write
	// Sparks includes the detail sparklines (spark-1, spark-2, ...).
	Sparks bool
}

// Surface is one written file.
type Surface struct {
	Name string
	Path string
}

// NormalizeFormat lowercases a format and strips a leading dot. An empty
// format is inferred from the path extension, defaulting to png.
func NormalizeFormat(format, path string) (string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".svg":
			format = FormatSVG
		default:
			format = FormatPNG
		}
	}
	if format != FormatSVG && format != FormatPNG {
		return "", fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	return format, nil
}

type namedFrame struct {
	name  string
	frame *chart.Frame
}

// SaveSnapshot writes every painted surface into opts.Dir, one file per
// surface named after it. All three chart modes are written, not only the
// active one.
func SaveSnapshot(opts SnapshotOptions) ([]Surface, error) {
	format, err := NormalizeFormat(opts.Format, "")
	if err != nil {
		return nil, err
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	snap := opts.Snapshot
	frames := []namedFrame{
		{"scatter", snap.Scatter},
		{"bars", snap.Bars},
	}
	for _, m := range state.ChartModes {
		frames = append(frames, namedFrame{string(m), snap.Suite[m]})
	}
	if opts.Sparks {
		for i, f := range snap.Sparks {
			frames = append(frames, namedFrame{fmt.Sprintf("spark-%d", i+1), f})
		}
	}

	var written []Surface
	for _, fr := range frames {
		if fr.frame == nil {
			continue
		}
		path := filepath.Join(opts.Dir, fr.name+"."+format)
		if err := SaveSurface(path, format, fr.frame); err != nil {
			return written, fmt.Errorf("%s: %w", fr.name, err)
		}
		written = append(written, Surface{Name: fr.name, Path: path})
	}
	return written, nil
}

// SaveSurface writes a single frame. The format is inferred from the path
// extension when empty.
func SaveSurface(path, format string, f *chart.Frame) error {
	format, err := NormalizeFormat(format, path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteSurface(file, format, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteSurface encodes a frame in the given format.
func WriteSurface(w io.Writer, format string, f *chart.Frame) error {
	switch format {
	case FormatPNG:
		return raster.WritePNG(w, f, raster.Options{Background: raster.Backdrop})
	case FormatSVG:
		return vector.Write(w, f, vector.Options{Background: raster.Backdrop})
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}
