package model

import "testing"

func scenario() *Dataset {
	return &Dataset{
		Years:         []int{2019, 2020, 2021},
		ForecastStart: 2021,
		Sectors: []Sector{{
			ID:       "A",
			Name:     "Alpha",
			Tier:     TierCore,
			Score:    []float64{10, 20, 30},
			Growth:   []float64{1, 2, 3},
			Risk:     []float64{0.1, 0.2, 0.3},
			Debt:     []float64{0.05, 0.05, 0.05},
			Export:   []float64{0, 0, 0},
			Defaults: []float64{0, 0, 0},
		}},
	}
}

func TestYearLabelMarksForecast(t *testing.T) {
	d := scenario()
	tests := []struct {
		idx      int
		want     string
		forecast bool
	}{
		{0, "2019", false},
		{1, "2020", false},
		{2, "2021*", true},
		{3, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		if got := d.YearLabel(tt.idx); got != tt.want {
			t.Errorf("YearLabel(%d) = %q, want %q", tt.idx, got, tt.want)
		}
		if got := d.IsForecast(tt.idx); got != tt.forecast {
			t.Errorf("IsForecast(%d) = %v, want %v", tt.idx, got, tt.forecast)
		}
	}
	if got := d.ForecastIndex(); got != 2 {
		t.Errorf("ForecastIndex = %d, want 2", got)
	}
}

func TestNoForecastThreshold(t *testing.T) {
	d := scenario()
	d.ForecastStart = 0
	if d.IsForecast(2) {
		t.Error("no threshold should mean no forecast years")
	}
	if d.ForecastIndex() != -1 {
		t.Errorf("ForecastIndex = %d, want -1", d.ForecastIndex())
	}
}

func TestAtDefaultsToZero(t *testing.T) {
	s := scenario().Sectors[0]
	if got := s.At(MetricScore, 2); got != 30 {
		t.Errorf("At(score, 2) = %v, want 30", got)
	}
	if got := s.At(MetricScore, 9); got != 0 {
		t.Errorf("out of range At = %v, want 0", got)
	}
	if got := s.At(Metric(42), 0); got != 0 {
		t.Errorf("unknown metric At = %v, want 0", got)
	}
}

func TestRiskPercentDoesNotMutate(t *testing.T) {
	s := scenario().Sectors[0]
	got := s.RiskPercent()
	if got[2] != 30 {
		t.Errorf("RiskPercent[2] = %v, want 30", got[2])
	}
	if s.Risk[2] != 0.3 {
		t.Errorf("stored fraction mutated to %v", s.Risk[2])
	}

	s.HasDefaults = true
	s.Defaults = []float64{1, 2, 3}
	if got := s.RiskPercent(); got[1] != 2 {
		t.Errorf("RiskPercent with defaults = %v", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := scenario()
	c := d.Clone()
	c.Sectors[0].Risk[0] = 0.9
	c.Years[0] = 1999
	if d.Sectors[0].Risk[0] != 0.1 || d.Years[0] != 2019 {
		t.Error("Clone shares backing arrays with the original")
	}
}

func TestEmptyDataset(t *testing.T) {
	d := Empty()
	if !d.IsEmpty() {
		t.Error("Empty() should be empty")
	}
	if d.FirstSectorID() != "" || d.YearLabel(0) != "" || d.HasSector("A") {
		t.Error("empty dataset lookups should be zero values")
	}
	var nilDS *Dataset
	if !nilDS.IsEmpty() || nilDS.YearCount() != 0 {
		t.Error("nil dataset should behave as empty")
	}
}

func TestTierLabel(t *testing.T) {
	if TierCore.Label() != "Core" {
		t.Errorf("core label = %q", TierCore.Label())
	}
	if Tier("x").Label() != "x" || Tier("x").IsValid() {
		t.Error("unknown tier should render verbatim and be invalid")
	}
}
