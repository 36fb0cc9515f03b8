package datasource

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/sectorlens/pkg/loader"
	"github.com/vanderheijden86/sectorlens/pkg/model"
)

const primaryFeed = `{
  "years": [2019, 2020, 2021],
  "forecast_start": 2021,
  "sectors": [
    {"id": "A", "name": "Alpha", "tier": "core",
     "score": [10, 20, 30], "growth": [1, 2, 3], "risk": [0.1, 0.2, 0.3],
     "debt": [0.05, 0.05, 0.05], "export": [0, 0, 0]}
  ]
}`

func TestResolve(t *testing.T) {
	tests := []struct {
		loc  string
		want SourceType
	}{
		{"https://example.com/data.json", SourceTypeHTTP},
		{"http://example.com/scenario.csv", SourceTypeHTTP},
		{"data/dashboard_data.json", SourceTypeFile},
		{"exports/snapshot.db", SourceTypeSQLite},
		{"exports/snapshot.SQLITE3", SourceTypeSQLite},
	}
	for _, tt := range tests {
		t.Run(tt.loc, func(t *testing.T) {
			src, err := Resolve(tt.loc)
			if err != nil {
				t.Fatal(err)
			}
			if src.Type != tt.want {
				t.Errorf("Resolve(%q).Type = %s, want %s", tt.loc, src.Type, tt.want)
			}
			if tt.want != SourceTypeHTTP && !filepath.IsAbs(src.Location) {
				t.Errorf("expected absolute path, got %q", src.Location)
			}
		})
	}

	if _, err := Resolve("  "); err == nil {
		t.Error("expected error for empty location")
	}
}

func TestFetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.csv")
	if err := os.WriteFile(path, []byte("rok;A_LU%\n2021;55\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := Fetch(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "rok;A_LU%\n2021;55\n" {
		t.Errorf("unexpected content %q", data)
	}

	if _, err := Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cache-Control") != "no-store" {
			t.Errorf("expected no-store cache header, got %q", r.Header.Get("Cache-Control"))
		}
		switch r.URL.Path {
		case "/data.json":
			w.Write([]byte(primaryFeed))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	data, err := Fetch(context.Background(), srv.URL+"/data.json")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != primaryFeed {
		t.Error("unexpected body")
	}

	if _, err := Fetch(context.Background(), srv.URL+"/missing.csv"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestFetchHTTPTooLarge(t *testing.T) {
	prev := MaxBodySize
	MaxBodySize = 17
	t.Cleanup(func() { MaxBodySize = prev })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/exact.csv":
			w.Write([]byte("rok;A_LU%\n2021;5\n")) // 17 bytes
		default:
			w.Write([]byte(primaryFeed))
		}
	}))
	defer srv.Close()

	if data, err := Fetch(context.Background(), srv.URL+"/exact.csv"); err != nil || len(data) != 17 {
		t.Errorf("body at the limit: len=%d err=%v", len(data), err)
	}
	if _, err := Fetch(context.Background(), srv.URL+"/data.json"); !errors.Is(err, ErrBodyTooLarge) {
		t.Errorf("expected ErrBodyTooLarge, got %v", err)
	}
}

func TestFetchCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(primaryFeed), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Fetch(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestAcquireMergesOverlayFromFiles(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "dashboard_data.json")
	overlay := filepath.Join(dir, "scenario.csv")
	if err := os.WriteFile(primary, []byte(primaryFeed), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(overlay, []byte("rok;A_LU%\n2021;55\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := Acquire(context.Background(), primary, overlay)
	if err != nil {
		t.Fatal(err)
	}
	a, ok := ds.Sector("A")
	if !ok {
		t.Fatal("sector A missing")
	}
	if a.Risk[2] != 0.55 || a.Defaults[2] != 55 || !a.OverlayMask[2] {
		t.Errorf("overlay not merged: risk=%v defaults=%v mask=%v", a.Risk, a.Defaults, a.OverlayMask)
	}
}

func TestAcquireMissingOverlay(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "dashboard_data.json")
	if err := os.WriteFile(primary, []byte(primaryFeed), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := Acquire(context.Background(), primary, filepath.Join(dir, "missing.csv"))
	if err != nil {
		t.Fatalf("overlay failure must not fail acquisition: %v", err)
	}
	if len(ds.Sectors) != 1 {
		t.Errorf("expected 1 sector, got %d", len(ds.Sectors))
	}
}

func TestAcquireMissingPrimary(t *testing.T) {
	ds, err := Acquire(context.Background(), filepath.Join(t.TempDir(), "missing.json"), "")
	if !errors.Is(err, loader.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	if ds == nil || !ds.IsEmpty() {
		t.Error("expected empty dataset")
	}
}

func TestOverlayFeedEmpty(t *testing.T) {
	if OverlayFeed("") != nil {
		t.Error("empty location should produce a nil overlay feed")
	}
}

func writeSnapshot(t *testing.T, path string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(Schema); err != nil {
		t.Fatal(err)
	}
	meta, err := json.Marshal(SnapshotMeta{
		Years:         []int{2019, 2020, 2021},
		ForecastStart: 2021,
		Drivers:       []string{"Energy prices"},
		Metrics:       []model.MetricCard{{Title: "Score", Detail: "Composite"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO meta (key, value) VALUES (?, ?)`, []any{MetaKeyDataset, string(meta)}},
		{`INSERT INTO sectors VALUES (1, 'B', 'Beta', 'watchlist', 1)`, nil},
		{`INSERT INTO sectors VALUES (0, 'A', 'Alpha', 'core', 0)`, nil},
		{`INSERT INTO series VALUES ('A', 0, 2019, 10, 1, 0.1, 0.05, 2, 0, 0)`, nil},
		{`INSERT INTO series VALUES ('A', 2, 2021, 30, 3, 0.3, 0.05, 4, 0, 0)`, nil},
		{`INSERT INTO series VALUES ('B', 2, 2021, 5, -1, 0.55, 0.4, 1, 55, 1)`, nil},
		// Out of range rows are ignored.
		{`INSERT INTO series VALUES ('B', 9, 2030, 1, 1, 1, 1, 1, 1, 1)`, nil},
	}
	for _, s := range stmts {
		if _, err := db.Exec(s.query, s.args...); err != nil {
			t.Fatalf("%s: %v", s.query, err)
		}
	}
}

func TestSQLiteReaderLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")
	writeSnapshot(t, path)

	ds, err := PrimaryFeed(path)(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(ds.Years) != 3 || ds.ForecastStart != 2021 {
		t.Fatalf("unexpected axis %v forecast %d", ds.Years, ds.ForecastStart)
	}
	if len(ds.Drivers) != 1 || len(ds.Metrics) != 1 || ds.Metrics[0].Title != "Score" {
		t.Errorf("meta not restored: drivers=%v metrics=%v", ds.Drivers, ds.Metrics)
	}
	if len(ds.Sectors) != 2 || ds.Sectors[0].ID != "A" || ds.Sectors[1].ID != "B" {
		t.Fatalf("sectors not in position order: %+v", ds.Sectors)
	}

	for _, s := range ds.Sectors {
		for _, m := range []model.Metric{model.MetricScore, model.MetricGrowth, model.MetricRisk,
			model.MetricDebt, model.MetricExport, model.MetricDefaults} {
			if got := len(s.Series(m)); got != 3 {
				t.Errorf("%s %s has %d entries, want 3", s.ID, m, got)
			}
		}
	}

	a := ds.Sectors[0]
	if a.Score[0] != 10 || a.Score[1] != 0 || a.Score[2] != 30 {
		t.Errorf("A score = %v", a.Score)
	}
	b := ds.Sectors[1]
	if !b.HasDefaults || b.Defaults[2] != 55 || !b.OverlayMask[2] || b.Risk[2] != 0.55 {
		t.Errorf("B overlay columns not restored: %+v", b)
	}
	if b.Tier != model.TierWatchlist {
		t.Errorf("B tier = %s", b.Tier)
	}
}

func TestSQLiteReaderRejectsOtherSources(t *testing.T) {
	if _, err := NewSQLiteReader(DataSource{Type: SourceTypeFile, Location: "x.json"}); err == nil {
		t.Error("expected error for non-SQLite source")
	}
}

func TestSQLiteSnapshotIsNotADocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")
	writeSnapshot(t, path)
	if _, err := Fetch(context.Background(), path); err == nil {
		t.Error("expected Fetch to refuse snapshot databases")
	}
}

func writeRawSnapshot(t *testing.T, path string, meta SnapshotMeta, stmts ...string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Exec(Schema); err != nil {
		t.Fatal(err)
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, MetaKeyDataset, string(raw)); err != nil {
		t.Fatal(err)
	}
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
	}
}

func TestSQLiteReaderValidatesSnapshot(t *testing.T) {
	dir := t.TempDir()

	edited := filepath.Join(dir, "edited.db")
	writeRawSnapshot(t, edited, SnapshotMeta{Years: []int{2019, 2020}, ForecastStart: 2035},
		`INSERT INTO sectors VALUES (0, '', 'No id', 'core', 0)`,
		`INSERT INTO sectors VALUES (1, 'A', '', 'core', 0)`,
		`INSERT INTO series VALUES ('A', 1, 2020, 12, 1, 0.1, 0.1, 1, 0, 0)`,
	)
	ds, err := PrimaryFeed(edited)(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ds.ForecastStart != 0 || ds.ForecastIndex() != -1 {
		t.Errorf("forecast start past the axis should be cleared, got %d", ds.ForecastStart)
	}
	if len(ds.Sectors) != 1 || ds.Sectors[0].ID != "A" || ds.Sectors[0].Name != "A" {
		t.Fatalf("sectors = %+v", ds.Sectors)
	}
	if got := ds.Sectors[0].Score; len(got) != 2 || got[1] != 12 {
		t.Errorf("score = %v", got)
	}

	unordered := filepath.Join(dir, "unordered.db")
	writeRawSnapshot(t, unordered, SnapshotMeta{Years: []int{2021, 2020}})
	if _, err := PrimaryFeed(unordered)(context.Background()); !errors.Is(err, loader.ErrDataUnavailable) {
		t.Errorf("descending years: expected ErrDataUnavailable, got %v", err)
	}
}
