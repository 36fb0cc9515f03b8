package testutil

import (
	"testing"

	"github.com/vanderheijden86/sectorlens/pkg/model"
)

// AssertAligned verifies every series matches the year axis length.
func AssertAligned(t *testing.T, ds *model.Dataset) {
	t.Helper()
	n := len(ds.Years)
	for _, s := range ds.Sectors {
		for _, m := range []model.Metric{model.MetricScore, model.MetricGrowth, model.MetricRisk, model.MetricDebt, model.MetricExport, model.MetricDefaults} {
			if got := len(s.Series(m)); got != n {
				t.Errorf("sector %s %s has %d values, want %d", s.ID, m, got, n)
			}
		}
	}
}

// AssertNoDuplicateIDs verifies all sector ids are unique.
func AssertNoDuplicateIDs(t *testing.T, ds *model.Dataset) {
	t.Helper()
	seen := make(map[string]bool)
	for _, s := range ds.Sectors {
		if seen[s.ID] {
			t.Errorf("duplicate sector id: %s", s.ID)
		}
		seen[s.ID] = true
	}
}
