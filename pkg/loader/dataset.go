// Package loader turns the primary dashboard feed and the optional risk overlay
// feed into a normalized model.Dataset.
package loader

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/sectorlens/pkg/debug"
	"github.com/vanderheijden86/sectorlens/pkg/metrics"
	"github.com/vanderheijden86/sectorlens/pkg/model"
)

// feedDocument is the wire shape of the primary feed.
type feedDocument struct {
	Years         []int        `json:"years"`
	ForecastStart *int         `json:"forecast_start"`
	Sectors       []feedSector `json:"sectors"`
	Drivers       []string     `json:"drivers,omitempty"`
	Metrics       []feedMetric `json:"metrics,omitempty"`
}

type feedSector struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Tier     string    `json:"tier"`
	Score    []float64 `json:"score"`
	Growth   []float64 `json:"growth"`
	Risk     []float64 `json:"risk"`
	Debt     []float64 `json:"debt"`
	Export   []float64 `json:"export"`
	Defaults []float64 `json:"defaults,omitempty"`
}

type feedMetric struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Load reads and parses a primary feed. On failure it returns an empty dataset
// together with an error wrapping ErrDataUnavailable.
func Load(r io.Reader) (*model.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Empty(), fmt.Errorf("%w: read: %v", ErrDataUnavailable, err)
	}
	return Parse(data)
}

// Parse decodes a primary feed document and fills every optional field with
// explicit defaults so that downstream consumers can assume fully populated,
// axis-aligned series.
func Parse(data []byte) (*model.Dataset, error) {
	defer metrics.Timer(metrics.DataLoad)()

	if len(bytes.TrimSpace(data)) == 0 {
		return model.Empty(), fmt.Errorf("%w: empty document", ErrDataUnavailable)
	}

	var doc feedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Empty(), fmt.Errorf("%w: decode: %v", ErrDataUnavailable, err)
	}

	ds, err := normalize(doc)
	if err != nil {
		return model.Empty(), fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	debug.Log("loaded %d sectors over %d years", len(ds.Sectors), len(ds.Years))
	return ds, nil
}

func normalize(doc feedDocument) (*model.Dataset, error) {
	ds := &model.Dataset{
		Years:   doc.Years,
		Drivers: doc.Drivers,
		Sectors: make([]model.Sector, 0, len(doc.Sectors)),
	}
	if doc.ForecastStart != nil {
		ds.ForecastStart = *doc.ForecastStart
	}
	for _, m := range doc.Metrics {
		ds.Metrics = append(ds.Metrics, model.MetricCard{Title: m.Title, Detail: m.Detail})
	}
	for _, fs := range doc.Sectors {
		ds.Sectors = append(ds.Sectors, model.Sector{
			ID:          fs.ID,
			Name:        fs.Name,
			Tier:        model.Tier(strings.ToLower(strings.TrimSpace(fs.Tier))),
			Score:       fs.Score,
			Growth:      fs.Growth,
			Risk:        fs.Risk,
			Debt:        fs.Debt,
			Export:      fs.Export,
			Defaults:    fs.Defaults,
			HasDefaults: len(fs.Defaults) > 0,
		})
	}
	return Validate(ds)
}

// Validate checks a dataset built outside Parse and returns a normalized
// copy: the year axis must be strictly ascending, sectors without an id or
// with a repeated id are dropped, every series is fitted to the axis, and a
// forecast threshold past the last year is cleared.
func Validate(in *model.Dataset) (*model.Dataset, error) {
	if in == nil {
		return model.Empty(), nil
	}
	for i := 1; i < len(in.Years); i++ {
		if in.Years[i] <= in.Years[i-1] {
			return nil, fmt.Errorf("year axis must be strictly ascending (got %d after %d)", in.Years[i], in.Years[i-1])
		}
	}

	n := len(in.Years)
	ds := &model.Dataset{
		Years:         append([]int(nil), in.Years...),
		ForecastStart: in.ForecastStart,
		Drivers:       in.Drivers,
		Metrics:       in.Metrics,
		Sectors:       make([]model.Sector, 0, len(in.Sectors)),
	}
	if ds.ForecastStart != 0 && (n == 0 || ds.ForecastStart > ds.Years[n-1]) {
		debug.Log("forecast start %d is past the year axis; ignoring", ds.ForecastStart)
		ds.ForecastStart = 0
	}

	seen := make(map[string]bool, len(in.Sectors))
	for _, src := range in.Sectors {
		id := strings.TrimSpace(src.ID)
		if id == "" {
			debug.Log("skipping sector without id (name %q)", src.Name)
			continue
		}
		if seen[id] {
			debug.Log("skipping duplicate sector id %q", id)
			continue
		}
		seen[id] = true

		s := src
		s.ID = id
		if strings.TrimSpace(s.Name) == "" {
			s.Name = id
		}
		s.Score = fit(src.Score, n)
		s.Growth = fit(src.Growth, n)
		s.Risk = fit(src.Risk, n)
		s.Debt = fit(src.Debt, n)
		s.Export = fit(src.Export, n)
		s.Defaults = fit(src.Defaults, n)
		mask := make([]bool, n)
		copy(mask, src.OverlayMask)
		s.OverlayMask = mask
		ds.Sectors = append(ds.Sectors, s)
	}
	return ds, nil
}

// fit copies series into a slice of exactly n entries, zero-filling missing
// values and dropping extras.
func fit(series []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, series)
	return out
}
