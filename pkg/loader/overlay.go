package loader

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/vanderheijden86/sectorlens/pkg/debug"
	"github.com/vanderheijden86/sectorlens/pkg/model"
)

const (
	// RiskSuffix marks an overlay column as a per-sector risk percent column.
	// The sector id is the column name with the suffix removed.
	RiskSuffix = "_LU%"
	// YearColumn is the (case-insensitive) name of the overlay year column.
	YearColumn = "rok"
	// Delimiter separates overlay cells.
	Delimiter = ';'
)

// OverlayEntry is a single (year, percent) observation for one sector.
type OverlayEntry struct {
	Year    int
	Percent float64
}

// Overlay maps sector ids to their risk observations in file order.
type Overlay map[string][]OverlayEntry

// ParseReport collects the rows and cells that were skipped while parsing.
type ParseReport struct {
	Rows      int
	Malformed []error
}

// ParseOverlay parses delimited overlay text. Parsing is tolerant: rows with no
// usable year and cells that are not numbers are skipped and reported.
func ParseOverlay(text string) (Overlay, ParseReport) {
	var report ParseReport
	overlay := make(Overlay)

	text = strings.TrimPrefix(strings.TrimSpace(text), "\ufeff")
	if text == "" {
		return overlay, report
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = Delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		report.Malformed = append(report.Malformed, &MalformedRowError{Line: 1, Reason: "unreadable header"})
		return overlay, report
	}

	yearCol := -1
	riskCols := make(map[int]string)
	for i, h := range header {
		h = strings.TrimSpace(h)
		if strings.EqualFold(h, YearColumn) && yearCol < 0 {
			yearCol = i
			continue
		}
		if id, ok := strings.CutSuffix(h, RiskSuffix); ok && id != "" {
			riskCols[i] = id
		}
	}
	if yearCol < 0 {
		report.Malformed = append(report.Malformed, &MalformedRowError{Line: 1, Reason: "no " + YearColumn + " column"})
		return overlay, report
	}

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			report.Malformed = append(report.Malformed, &MalformedRowError{Line: line, Reason: err.Error()})
			continue
		}
		line, _ := r.FieldPos(0)
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		report.Rows++

		year, ok := parseYear(cell(record, yearCol))
		if !ok {
			report.Malformed = append(report.Malformed, &MalformedRowError{Line: line, Reason: "missing or invalid year"})
			continue
		}
		for col, id := range riskCols {
			raw := cell(record, col)
			v, ok := parseNumber(raw)
			if !ok {
				if strings.TrimSpace(raw) != "" {
					report.Malformed = append(report.Malformed, &MalformedCellError{Line: line, Column: header[col], Raw: raw})
				}
				continue
			}
			overlay[id] = append(overlay[id], OverlayEntry{Year: year, Percent: v})
		}
	}

	debug.LogIf(len(report.Malformed) > 0, "overlay: skipped %d malformed rows/cells", len(report.Malformed))
	return overlay, report
}

// MergeRiskOverlay parses overlayText and merges it into ds. It returns ds
// unchanged when there are no sectors or the text is empty.
func MergeRiskOverlay(ds *model.Dataset, overlayText string) *model.Dataset {
	if ds.IsEmpty() || strings.TrimSpace(overlayText) == "" {
		return ds
	}
	overlay, _ := ParseOverlay(overlayText)
	return Merge(ds, overlay)
}

// Merge applies overlay to a copy of ds. For every entry whose year is on the
// axis it sets Risk[i] = Percent/100 and Defaults[i] = Percent. Sectors and
// years absent from the overlay keep their values. Merging is idempotent.
func Merge(ds *model.Dataset, overlay Overlay) *model.Dataset {
	if ds.IsEmpty() || len(overlay) == 0 {
		return ds
	}

	yearIdx := make(map[int]int, len(ds.Years))
	for i, y := range ds.Years {
		yearIdx[y] = i
	}

	out := ds.Clone()
	merged := 0
	for si := range out.Sectors {
		s := &out.Sectors[si]
		entries := overlay[s.ID]
		if len(entries) == 0 {
			continue
		}
		n := len(out.Years)
		if len(s.Risk) != n {
			s.Risk = fit(s.Risk, n)
		}
		if len(s.Defaults) != n {
			s.Defaults = fit(s.Defaults, n)
		}
		if len(s.OverlayMask) != n {
			mask := make([]bool, n)
			copy(mask, s.OverlayMask)
			s.OverlayMask = mask
		}
		touched := false
		for _, e := range entries {
			idx, ok := yearIdx[e.Year]
			if !ok {
				continue
			}
			s.Risk[idx] = e.Percent / 100
			s.Defaults[idx] = e.Percent
			s.OverlayMask[idx] = true
			touched = true
		}
		if touched {
			s.HasDefaults = true
			merged++
		}
	}
	debug.Log("overlay merged into %d sectors", merged)
	return out
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseYear(raw string) (int, bool) {
	v, ok := parseNumber(raw)
	if !ok || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

// parseNumber accepts "15.5", the decimal-comma form "15,5" and a trailing
// percent sign.
func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if raw == "" {
		return 0, false
	}
	if !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
