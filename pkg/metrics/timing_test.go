package metrics

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimingMetricRecord(t *testing.T) {
	m := newTimingMetric("test")
	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)

	s := m.Stats()
	if s.Count != 2 {
		t.Fatalf("count = %d, want 2", s.Count)
	}
	if s.MinMs != 2 || s.MaxMs != 4 || s.AvgMs != 3 {
		t.Errorf("unexpected stats %+v", s)
	}

	m.Reset()
	if m.Count() != 0 {
		t.Errorf("count after reset = %d", m.Count())
	}
}

func TestTimingMetricConcurrent(t *testing.T) {
	m := newTimingMetric("concurrent")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Record(time.Millisecond)
		}()
	}
	wg.Wait()
	if m.Count() != 50 {
		t.Errorf("count = %d, want 50", m.Count())
	}
}

func TestTimerDisabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	m := newTimingMetric("off")
	Timer(m)()
	if m.Count() != 0 {
		t.Errorf("disabled timer recorded %d samples", m.Count())
	}
}

func TestAllTimingStatsSkipsEmpty(t *testing.T) {
	SetEnabled(true)
	ResetAll()
	defer ResetAll()

	Scatter.Record(time.Millisecond)
	stats := AllTimingStats()
	if len(stats) != 1 || stats[0].Name != "scatter" {
		t.Errorf("stats = %+v, want only scatter", stats)
	}
}

func TestWriteReport(t *testing.T) {
	SetEnabled(true)
	ResetAll()
	defer ResetAll()

	var empty bytes.Buffer
	if err := WriteReport(&empty); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(empty.String(), "no timings") {
		t.Errorf("empty report = %q", empty.String())
	}

	Heatmap.Record(3 * time.Millisecond)
	var buf bytes.Buffer
	if err := WriteReport(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "heatmap") || !strings.Contains(out, "3.00") {
		t.Errorf("report missing heatmap row:\n%s", out)
	}
	if strings.Contains(out, "scatter") {
		t.Errorf("report lists metrics without samples:\n%s", out)
	}
}
