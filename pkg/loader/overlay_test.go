package loader

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/sectorlens/pkg/model"
)

func TestMergeScenario(t *testing.T) {
	ds := mustParse(t, scenarioFeed)
	merged := MergeRiskOverlay(ds, "rok;A_LU%\n2020;15.5\n")

	s, _ := merged.Sector("A")
	if s.Risk[1] != 0.155 {
		t.Errorf("risk[1] = %v, want 0.155", s.Risk[1])
	}
	if s.Defaults[1] != 15.5 {
		t.Errorf("defaults[1] = %v, want 15.5", s.Defaults[1])
	}
	if s.Risk[0] != 0.1 || s.Risk[2] != 0.3 {
		t.Errorf("untouched risk changed: %v", s.Risk)
	}
	if s.Defaults[0] != 0 || s.Defaults[2] != 0 {
		t.Errorf("untouched defaults changed: %v", s.Defaults)
	}
	if !s.HasDefaults || !s.OverlayMask[1] || s.OverlayMask[0] {
		t.Errorf("mask = %v hasDefaults = %v", s.OverlayMask, s.HasDefaults)
	}

	orig, _ := ds.Sector("A")
	if orig.Risk[1] != 0.2 {
		t.Error("merge mutated the input dataset")
	}
}

func TestMergeNoOps(t *testing.T) {
	ds := mustParse(t, scenarioFeed)
	if got := MergeRiskOverlay(ds, ""); got != ds {
		t.Error("empty overlay text should return the same dataset")
	}
	if got := MergeRiskOverlay(ds, "  \n "); got != ds {
		t.Error("blank overlay text should return the same dataset")
	}
	empty := model.Empty()
	if got := MergeRiskOverlay(empty, "rok;A_LU%\n2020;1\n"); got != empty {
		t.Error("dataset without sectors should be returned as is")
	}
}

func TestMergeIgnoresUnknownYearsAndSectors(t *testing.T) {
	ds := mustParse(t, scenarioFeed)
	merged := MergeRiskOverlay(ds, "rok;B_LU%;A_LU%\n1990;50;50\n2021;7;9\n")
	s, _ := merged.Sector("A")
	if s.Risk[2] != 0.09 || s.Defaults[2] != 9 {
		t.Errorf("2021 not merged: %v %v", s.Risk, s.Defaults)
	}
	if s.OverlayMask[0] || s.OverlayMask[1] {
		t.Error("off-axis year 1990 must not touch the series")
	}
}

func TestParseOverlayTolerance(t *testing.T) {
	text := strings.Join([]string{
		"Rok;A_LU%;B_LU%;note",
		"2020;15.5;abc;x",
		"not-a-year;1;2;x",
		";3;4;x",
		"2021;;2,5;x",
		"2022.5;1;1;x",
		"2019;1",
		"",
	}, "\n")

	overlay, report := ParseOverlay(text)

	if got := overlay["A"]; len(got) != 2 || got[0] != (OverlayEntry{2020, 15.5}) || got[1] != (OverlayEntry{2019, 1}) {
		t.Errorf("A entries = %v", got)
	}
	if got := overlay["B"]; len(got) != 1 || got[0] != (OverlayEntry{2021, 2.5}) {
		t.Errorf("B entries = %v (decimal comma should parse)", got)
	}
	if _, ok := overlay["note"]; ok {
		t.Error("columns without the risk suffix must be ignored")
	}

	var rows, cells int
	for _, err := range report.Malformed {
		var rowErr *MalformedRowError
		var cellErr *MalformedCellError
		switch {
		case errors.As(err, &rowErr):
			rows++
		case errors.As(err, &cellErr):
			cells++
		}
	}
	if rows != 3 {
		t.Errorf("malformed rows = %d, want 3 (%v)", rows, report.Malformed)
	}
	if cells != 1 {
		t.Errorf("malformed cells = %d, want 1 (%v)", cells, report.Malformed)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"15.5", 15.5, true},
		{"15,5", 15.5, true},
		{"15.5%", 15.5, true},
		{" 2,5 % ", 2.5, true},
		{"%", 0, false},
		{"", 0, false},
		{"abc%", 0, false},
		{"NaN", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseNumber(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseNumber(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}

	overlay, report := ParseOverlay("rok;A_LU%\n2020;15.5%\n")
	if got := overlay["A"]; len(got) != 1 || got[0] != (OverlayEntry{2020, 15.5}) {
		t.Errorf("A entries = %v (%v)", got, report.Malformed)
	}
}

func TestParseOverlayWithoutYearColumn(t *testing.T) {
	overlay, report := ParseOverlay("year;A_LU%\n2020;1\n")
	if len(overlay) != 0 {
		t.Errorf("overlay without %q column should be empty, got %v", YearColumn, overlay)
	}
	if len(report.Malformed) != 1 {
		t.Errorf("expected one header error, got %v", report.Malformed)
	}
}

func TestParseOverlayBOMAndCRLF(t *testing.T) {
	overlay, _ := ParseOverlay("\ufeffrok;A_LU%\r\n2020;3\r\n")
	if got := overlay["A"]; len(got) != 1 || got[0].Percent != 3 {
		t.Errorf("A entries = %v", got)
	}
}

func genDataset(t *rapid.T) *model.Dataset {
	n := rapid.IntRange(1, 6).Draw(t, "years")
	years := make([]int, n)
	for i := range years {
		years[i] = 2018 + i
	}
	ids := rapid.SliceOfNDistinct(rapid.SampledFrom([]string{"A", "B", "C", "D"}), 1, 4, rapid.ID[string]).Draw(t, "ids")
	ds := &model.Dataset{Years: years}
	for _, id := range ids {
		risk := make([]float64, n)
		for i := range risk {
			risk[i] = rapid.Float64Range(0, 1).Draw(t, "risk")
		}
		ds.Sectors = append(ds.Sectors, model.Sector{
			ID: id, Name: id, Tier: model.TierCore,
			Score: make([]float64, n), Growth: make([]float64, n),
			Risk: risk, Debt: make([]float64, n), Export: make([]float64, n),
			Defaults: make([]float64, n), OverlayMask: make([]bool, n),
		})
	}
	return ds
}

func genOverlayText(t *rapid.T) string {
	var b strings.Builder
	b.WriteString("rok;A_LU%;C_LU%;Z_LU%\n")
	rows := rapid.IntRange(0, 8).Draw(t, "rows")
	for i := 0; i < rows; i++ {
		year := rapid.IntRange(2015, 2026).Draw(t, "year")
		fmt.Fprintf(&b, "%d;%.2f;%.1f;%d\n", year,
			rapid.Float64Range(0, 100).Draw(t, "a"),
			rapid.Float64Range(0, 100).Draw(t, "c"),
			rapid.IntRange(0, 100).Draw(t, "z"))
	}
	return b.String()
}

func TestMergeIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ds := genDataset(t)
		text := genOverlayText(t)

		once := MergeRiskOverlay(ds, text)
		twice := MergeRiskOverlay(once, text)

		if !reflect.DeepEqual(once.Sectors, twice.Sectors) {
			t.Fatalf("merging twice differs from merging once")
		}
	})
}

func TestMergeInvariantRiskEqualsDefaults(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		merged := MergeRiskOverlay(genDataset(t), genOverlayText(t))
		for _, s := range merged.Sectors {
			for i, set := range s.OverlayMask {
				if set && s.Risk[i] != s.Defaults[i]/100 {
					t.Fatalf("sector %s idx %d: risk %v != defaults/100 %v", s.ID, i, s.Risk[i], s.Defaults[i]/100)
				}
			}
		}
	})
}
