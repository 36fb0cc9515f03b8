// Package metrics records render timings for sectorlens.
//
// Every chart surface, both repaint paths and the feed decoder own a
// TimingMetric. Collection is on unless SECTORLENS_METRICS=0.
//
//	func paintScatter() {
//	    defer metrics.Timer(metrics.Scatter)()
//	    // ... paint
//	}
package metrics

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("SECTORLENS_METRICS") != "0")
}

// Enabled reports whether samples are being collected.
func Enabled() bool { return enabled.Load() }

// SetEnabled turns collection on or off.
func SetEnabled(e bool) { enabled.Store(e) }

// TimingMetric accumulates durations for one surface or path. Safe for
// concurrent use.
type TimingMetric struct {
	name    string
	samples atomic.Int64
	total   atomic.Int64
	slowest atomic.Int64
	fastest atomic.Int64 // 0 until the first sample
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one sample.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	m.samples.Add(1)
	m.total.Add(ns)

	for cur := m.slowest.Load(); ns > cur; cur = m.slowest.Load() {
		if m.slowest.CompareAndSwap(cur, ns) {
			break
		}
	}
	for cur := m.fastest.Load(); cur == 0 || ns < cur; cur = m.fastest.Load() {
		if m.fastest.CompareAndSwap(cur, ns) {
			break
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string { return m.name }

// Count returns the number of samples.
func (m *TimingMetric) Count() int64 { return m.samples.Load() }

// Stats returns a consistent-enough view of the counters.
func (m *TimingMetric) Stats() TimingStats {
	n := m.samples.Load()
	total := m.total.Load()
	s := TimingStats{
		Name:    m.name,
		Count:   n,
		TotalMs: ms(total),
		MaxMs:   ms(m.slowest.Load()),
		MinMs:   ms(m.fastest.Load()),
	}
	if n > 0 {
		s.AvgMs = ms(total / n)
	}
	return s
}

// Reset drops every sample.
func (m *TimingMetric) Reset() {
	m.samples.Store(0)
	m.total.Store(0)
	m.slowest.Store(0)
	m.fastest.Store(0)
}

func ms(ns int64) float64 { return float64(ns) / 1e6 }

// TimingStats is a snapshot of one metric.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer starts a measurement; call the returned func to record it.
func Timer(m *TimingMetric) func() {
	if m == nil || !Enabled() {
		return func() {}
	}
	start := time.Now()
	return func() { m.Record(time.Since(start)) }
}

// Surfaces, repaint paths and loading.
var (
	Spark      = newTimingMetric("spark")
	Scatter    = newTimingMetric("scatter")
	Bars       = newTimingMetric("bars")
	Heatmap    = newTimingMetric("heatmap")
	Quadrant   = newTimingMetric("quadrant")
	Ranking    = newTimingMetric("ranking")
	FullPaint  = newTimingMetric("full_paint")
	ChartPaint = newTimingMetric("chart_paint")
	DataLoad   = newTimingMetric("data_load")
)

var all = []*TimingMetric{Spark, Scatter, Bars, Heatmap, Quadrant, Ranking, FullPaint, ChartPaint, DataLoad}

// ResetAll resets every metric.
func ResetAll() {
	for _, m := range all {
		m.Reset()
	}
}

// AllTimingStats returns stats for the metrics that have samples.
func AllTimingStats() []TimingStats {
	stats := make([]TimingStats, 0, len(all))
	for _, m := range all {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}

// WriteReport prints the recorded metrics as a table.
func WriteReport(w io.Writer) error {
	stats := AllTimingStats()
	if len(stats) == 0 {
		_, err := fmt.Fprintln(w, "no timings recorded")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Count", "Avg ms", "Min ms", "Max ms", "Total ms"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Name,
			fmt.Sprint(s.Count),
			fmt.Sprintf("%.2f", s.AvgMs),
			fmt.Sprintf("%.2f", s.MinMs),
			fmt.Sprintf("%.2f", s.MaxMs),
			fmt.Sprintf("%.1f", s.TotalMs),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
