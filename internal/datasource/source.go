// Package datasource resolves feed locations for sectorlens. A location is a
// local file, an http(s) URL, or a SQLite snapshot written by the exporter.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vanderheijden86/sectorlens/pkg/debug"
)

// SourceType identifies how a location is read.
type SourceType string

const (
	// SourceTypeFile is a local JSON or CSV file.
	SourceTypeFile SourceType = "file"
	// SourceTypeHTTP is a remote document fetched with GET.
	SourceTypeHTTP SourceType = "http"
	// SourceTypeSQLite is a snapshot database (.db, .sqlite, .sqlite3).
	SourceTypeSQLite SourceType = "sqlite"
)

// DefaultTimeout bounds a single remote fetch.
const DefaultTimeout = 15 * time.Second

// MaxBodySize caps remote documents.
var MaxBodySize int64 = 32 << 20

// ErrBodyTooLarge is returned when a remote document exceeds MaxBodySize.
var ErrBodyTooLarge = errors.New("remote document too large")

// DataSource is a resolved feed location.
type DataSource struct {
	Type SourceType `json:"type"`
	// Location is the URL for remote sources and the absolute path otherwise.
	Location string `json:"location"`
}

// String returns a human-readable description of the source.
func (s DataSource) String() string {
	return fmt.Sprintf("%s (%s)", s.Location, s.Type)
}

// Resolve classifies a location.
func Resolve(loc string) (DataSource, error) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return DataSource{}, fmt.Errorf("empty feed location")
	}
	lower := strings.ToLower(loc)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return DataSource{Type: SourceTypeHTTP, Location: loc}, nil
	}
	abs, err := filepath.Abs(loc)
	if err != nil {
		return DataSource{}, fmt.Errorf("resolve %s: %w", loc, err)
	}
	switch strings.ToLower(filepath.Ext(abs)) {
	case ".db", ".sqlite", ".sqlite3":
		return DataSource{Type: SourceTypeSQLite, Location: abs}, nil
	}
	return DataSource{Type: SourceTypeFile, Location: abs}, nil
}

// Client is the HTTP client used for remote feeds.
var Client = &http.Client{Timeout: DefaultTimeout}

// Fetch returns the raw bytes of a file or http(s) location. SQLite sources
// are not byte documents; use LoadDataset for them.
func Fetch(ctx context.Context, loc string) ([]byte, error) {
	src, err := Resolve(loc)
	if err != nil {
		return nil, err
	}
	return src.Fetch(ctx)
}

// Fetch returns the raw bytes of the source.
func (s DataSource) Fetch(ctx context.Context) ([]byte, error) {
	start := time.Now()
	defer func() { debug.LogTiming("datasource.Fetch "+s.Location, time.Since(start)) }()

	switch s.Type {
	case SourceTypeFile:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(s.Location)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.Location, err)
		}
		return data, nil

	case SourceTypeHTTP:
		return fetchHTTP(ctx, s.Location)

	case SourceTypeSQLite:
		return nil, fmt.Errorf("%s is a snapshot database, not a document", s.Location)

	default:
		return nil, fmt.Errorf("unknown source type: %s", s.Type)
	}
}

// fetchHTTP always asks for a fresh copy.
func fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if int64(len(data)) > MaxBodySize {
		return nil, fmt.Errorf("fetch %s: %w (limit %d bytes)", url, ErrBodyTooLarge, MaxBodySize)
	}
	return data, nil
}
