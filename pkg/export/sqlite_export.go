package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/sectorlens/internal/datasource"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/version"
)

// SQLiteExporter writes the merged dataset to a SQLite snapshot that can be
// loaded back as a primary feed.
type SQLiteExporter struct {
	Dataset *model.Dataset
	// Now stamps the export; defaults to time.Now.
	Now func() time.Time
}

// NewSQLiteExporter creates an exporter for ds.
func NewSQLiteExporter(ds *model.Dataset) *SQLiteExporter {
	if ds == nil {
		ds = model.Empty()
	}
	return &SQLiteExporter{Dataset: ds, Now: time.Now}
}

// Export writes the database to path, replacing any existing file.
func (e *SQLiteExporter) Export(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(datasource.Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := e.insertMeta(db); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}
	if err := e.insertSectors(db); err != nil {
		return fmt.Errorf("insert sectors: %w", err)
	}
	return db.Close()
}

func (e *SQLiteExporter) insertMeta(db *sql.DB) error {
	ds := e.Dataset
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	meta, err := json.Marshal(datasource.SnapshotMeta{
		Years:         ds.Years,
		ForecastStart: ds.ForecastStart,
		Drivers:       ds.Drivers,
		Metrics:       ds.Metrics,
		ExportedAt:    now().UTC().Format(time.RFC3339),
		Version:       version.Version,
	})
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, datasource.MetaKeyDataset, string(meta))
	return err
}

// insertSectors writes sector rows and their per-year series in one
// transaction.
func (e *SQLiteExporter) insertSectors(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	sectorStmt, err := tx.Prepare(`
		INSERT INTO sectors (position, id, name, tier, has_defaults)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer sectorStmt.Close()

	seriesStmt, err := tx.Prepare(`
		INSERT INTO series (sector_id, year_index, year, score, growth, risk, debt, export, defaults, overlay)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer seriesStmt.Close()

	ds := e.Dataset
	for pos := range ds.Sectors {
		s := &ds.Sectors[pos]
		if _, err := sectorStmt.Exec(pos, s.ID, s.Name, string(s.Tier), boolInt(s.HasDefaults)); err != nil {
			return fmt.Errorf("insert sector %s: %w", s.ID, err)
		}
		for i, year := range ds.Years {
			overlay := i < len(s.OverlayMask) && s.OverlayMask[i]
			_, err := seriesStmt.Exec(
				s.ID, i, year,
				s.At(model.MetricScore, i),
				s.At(model.MetricGrowth, i),
				s.At(model.MetricRisk, i),
				s.At(model.MetricDebt, i),
				s.At(model.MetricExport, i),
				s.At(model.MetricDefaults, i),
				boolInt(overlay),
			)
			if err != nil {
				return fmt.Errorf("insert series %s/%d: %w", s.ID, year, err)
			}
		}
	}

	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
