package datasource

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vanderheijden86/sectorlens/pkg/debug"
	"github.com/vanderheijden86/sectorlens/pkg/loader"
	"github.com/vanderheijden86/sectorlens/pkg/model"
)

// PrimaryFeed returns a loader.PrimaryFeed for the location. Documents are
// parsed with loader.Load; snapshot databases are read directly.
func PrimaryFeed(loc string) loader.PrimaryFeed {
	return func(ctx context.Context) (*model.Dataset, error) {
		src, err := Resolve(loc)
		if err != nil {
			return nil, err
		}
		return LoadFromSource(ctx, src)
	}
}

// OverlayFeed returns a loader.OverlayFeed for the location, or nil when loc
// is empty so that Acquire skips the overlay entirely.
func OverlayFeed(loc string) loader.OverlayFeed {
	if loc == "" {
		return nil
	}
	return func(ctx context.Context) (string, error) {
		data, err := Fetch(ctx, loc)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// LoadFromSource loads a dataset from a resolved source, dispatching on its
// type.
func LoadFromSource(ctx context.Context, src DataSource) (*model.Dataset, error) {
	switch src.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", src.Location, err)
		}
		defer reader.Close()
		return reader.LoadDataset(ctx)

	case SourceTypeFile, SourceTypeHTTP:
		data, err := src.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		return loader.Load(bytes.NewReader(data))

	default:
		return nil, fmt.Errorf("unknown source type: %s", src.Type)
	}
}

// Acquire loads the primary and overlay locations through loader.Acquire.
func Acquire(ctx context.Context, primary, overlay string) (*model.Dataset, error) {
	debug.Section("acquire " + primary)
	return loader.Acquire(ctx, PrimaryFeed(primary), OverlayFeed(overlay))
}
