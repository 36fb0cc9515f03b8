package loader

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/sectorlens/pkg/debug"
	"github.com/vanderheijden86/sectorlens/pkg/model"
)

// PrimaryFeed produces the primary dataset.
type PrimaryFeed func(ctx context.Context) (*model.Dataset, error)

// OverlayFeed produces the raw overlay text. A nil OverlayFeed means there is
// no overlay configured.
type OverlayFeed func(ctx context.Context) (string, error)

// Acquire fetches the primary dataset and the overlay concurrently, then merges
// them. Overlay failures are logged and swallowed. A primary failure yields an
// empty dataset and an error wrapping ErrDataUnavailable; the dataset is always
// non-nil and renderable.
func Acquire(ctx context.Context, primary PrimaryFeed, overlay OverlayFeed) (*model.Dataset, error) {
	defer debug.LogEnterExit("loader.Acquire")()

	var (
		ds          *model.Dataset
		primaryErr  error
		overlayText string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if primary == nil {
			primaryErr = errors.New("no primary feed configured")
			return nil
		}
		ds, primaryErr = primary(gctx)
		return nil
	})
	if overlay != nil {
		g.Go(func() error {
			text, err := overlay(gctx)
			if err != nil {
				debug.Log("%v: %v", ErrOverlayUnavailable, err)
				return nil
			}
			overlayText = text
			return nil
		})
	}
	// Both goroutines swallow their errors; Wait only synchronizes.
	_ = g.Wait()

	if primaryErr != nil || ds == nil {
		if primaryErr == nil {
			primaryErr = errors.New("primary feed returned no data")
		}
		if !errors.Is(primaryErr, ErrDataUnavailable) {
			primaryErr = fmt.Errorf("%w: %v", ErrDataUnavailable, primaryErr)
		}
		debug.Log("%v", primaryErr)
		return model.Empty(), primaryErr
	}

	return MergeRiskOverlay(ds, overlayText), nil
}
