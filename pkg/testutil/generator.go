// Package testutil provides dataset fixtures for tests. All generators produce
// deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/vanderheijden86/sectorlens/pkg/model"
)

// Scenario returns the three-year, one-sector reference dataset:
// years 2019-2021 with 2021 forecasted and sector "A" in the core tier.
func Scenario() *model.Dataset {
	return &model.Dataset{
		Years:         []int{2019, 2020, 2021},
		ForecastStart: 2021,
		Sectors: []model.Sector{
			NewSector("A", "Alpha", model.TierCore,
				[]float64{10, 20, 30},
				[]float64{1, 2, 3},
				[]float64{0.1, 0.2, 0.3},
				[]float64{0.05, 0.05, 0.05},
				[]float64{0, 0, 0}),
		},
	}
}

// NewSector builds a sector with zero-filled defaults and an empty overlay mask,
// the shape the loader produces.
func NewSector(id, name string, tier model.Tier, score, growth, risk, debt, export []float64) model.Sector {
	n := len(score)
	return model.Sector{
		ID:          id,
		Name:        name,
		Tier:        tier,
		Score:       score,
		Growth:      growth,
		Risk:        risk,
		Debt:        debt,
		Export:      export,
		Defaults:    make([]float64, n),
		OverlayMask: make([]bool, n),
	}
}

// GeneratorConfig controls dataset generation.
type GeneratorConfig struct {
	Seed          int64 // Random seed for determinism (0 = 42)
	FirstYear     int   // First year on the axis (default 2020)
	Years         int   // Axis length (default 8)
	ForecastYears int   // Trailing forecast years (default 3)
	Sectors       int   // Number of sectors (default 12)
	IDPrefix      string
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:          42,
		FirstYear:     2020,
		Years:         8,
		ForecastYears: 3,
		Sectors:       12,
		IDPrefix:      "S",
	}
}

// Generator creates datasets with realistic-looking series.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.FirstYear == 0 {
		cfg.FirstYear = 2020
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "S"
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Dataset generates a dataset. Tiers rotate developing, core, watchlist.
func (g *Generator) Dataset() *model.Dataset {
	n := g.cfg.Years
	ds := &model.Dataset{Years: make([]int, n)}
	for i := range ds.Years {
		ds.Years[i] = g.cfg.FirstYear + i
	}
	if g.cfg.ForecastYears > 0 && g.cfg.ForecastYears <= n {
		ds.ForecastStart = ds.Years[n-g.cfg.ForecastYears]
	}

	for i := 0; i < g.cfg.Sectors; i++ {
		score := g.walk(n, 20+g.rng.Float64()*60, 6)
		growth := g.walk(n, g.rng.Float64()*10-2, 2)
		risk := g.fraction(n)
		debt := g.fraction(n)
		export := g.walk(n, g.rng.Float64()*40, 3)
		s := NewSector(
			fmt.Sprintf("%s%02d", g.cfg.IDPrefix, i+1),
			fmt.Sprintf("Sector %d manufacturing and services", i+1),
			model.Tiers[i%len(model.Tiers)],
			score, growth, risk, debt, export,
		)
		ds.Sectors = append(ds.Sectors, s)
	}
	ds.Drivers = []string{"interest rates", "energy prices", "export demand"}
	ds.Metrics = []model.MetricCard{{Title: "Score", Detail: "Composite of growth, risk and debt."}}
	return ds
}

func (g *Generator) walk(n int, start, step float64) []float64 {
	out := make([]float64, n)
	v := start
	for i := range out {
		out[i] = v
		v += (g.rng.Float64()*2 - 1) * step
	}
	return out
}

func (g *Generator) fraction(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = g.rng.Float64() * 0.6
	}
	return out
}
