package datasource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/sectorlens/pkg/loader"
	"github.com/vanderheijden86/sectorlens/pkg/model"
)

// SnapshotMeta is the JSON document stored under the "dataset" key of the
// snapshot meta table.
type SnapshotMeta struct {
	Years         []int              `json:"years"`
	ForecastStart int                `json:"forecast_start"`
	Drivers       []string           `json:"drivers,omitempty"`
	Metrics       []model.MetricCard `json:"metrics,omitempty"`
	ExportedAt    string             `json:"exported_at,omitempty"`
	Version       string             `json:"version,omitempty"`
}

// MetaKeyDataset is the meta table key holding SnapshotMeta.
const MetaKeyDataset = "dataset"

// Schema creates the snapshot tables. Series rows are keyed by year index so
// the year axis lives only in SnapshotMeta.
const Schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sectors (
	position     INTEGER NOT NULL,
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	tier         TEXT NOT NULL,
	has_defaults INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS series (
	sector_id  TEXT NOT NULL REFERENCES sectors(id),
	year_index INTEGER NOT NULL,
	year       INTEGER NOT NULL,
	score      REAL NOT NULL,
	growth     REAL NOT NULL,
	risk       REAL NOT NULL,
	debt       REAL NOT NULL,
	export     REAL NOT NULL,
	defaults   REAL NOT NULL,
	overlay    INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (sector_id, year_index)
);
`

// SQLiteReader provides read access to a sectorlens snapshot database.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a snapshot database for reading.
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", source.Location)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	return &SQLiteReader{
		db:   db,
		path: source.Location,
	}, nil
}

// Close closes the database connection.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Path returns the database path.
func (r *SQLiteReader) Path() string {
	return r.path
}

// LoadDataset reads the snapshot back into a Dataset. Series are re-aligned
// to the year axis, so a partially written series row count never produces
// ragged slices.
func (r *SQLiteReader) LoadDataset(ctx context.Context) (*model.Dataset, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, MetaKeyDataset).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("read snapshot meta: %w", err)
	}
	var meta SnapshotMeta
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("decode snapshot meta: %w", err)
	}

	n := len(meta.Years)
	ds := &model.Dataset{
		Years:         meta.Years,
		ForecastStart: meta.ForecastStart,
		Drivers:       meta.Drivers,
		Metrics:       meta.Metrics,
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, tier, has_defaults FROM sectors ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query sectors: %w", err)
	}
	index := make(map[string]int)
	for rows.Next() {
		var (
			s           model.Sector
			tier        string
			hasDefaults int
		)
		if err := rows.Scan(&s.ID, &s.Name, &tier, &hasDefaults); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sector: %w", err)
		}
		s.Tier = model.Tier(tier)
		s.HasDefaults = hasDefaults != 0
		s.Score = make([]float64, n)
		s.Growth = make([]float64, n)
		s.Risk = make([]float64, n)
		s.Debt = make([]float64, n)
		s.Export = make([]float64, n)
		s.Defaults = make([]float64, n)
		s.OverlayMask = make([]bool, n)
		index[s.ID] = len(ds.Sectors)
		ds.Sectors = append(ds.Sectors, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate sectors: %w", err)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx, `
		SELECT sector_id, year_index, score, growth, risk, debt, export, defaults, overlay
		FROM series`)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id      string
			i       int
			overlay int
			v       [6]float64
		)
		if err := rows.Scan(&id, &i, &v[0], &v[1], &v[2], &v[3], &v[4], &v[5], &overlay); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		pos, ok := index[id]
		if !ok || i < 0 || i >= n {
			continue
		}
		s := &ds.Sectors[pos]
		s.Score[i], s.Growth[i], s.Risk[i] = v[0], v[1], v[2]
		s.Debt[i], s.Export[i], s.Defaults[i] = v[3], v[4], v[5]
		s.OverlayMask[i] = overlay != 0
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}

	valid, err := loader.Validate(ds)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot %s: %v", loader.ErrDataUnavailable, r.path, err)
	}
	return valid, nil
}
