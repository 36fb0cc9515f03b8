package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means the primary feed was unreachable or could not be
	// parsed. Callers receive an empty, renderable dataset alongside it.
	ErrDataUnavailable = errors.New("dashboard data unavailable")

	// ErrOverlayUnavailable means the risk overlay feed could not be fetched.
	// The primary data stands alone.
	ErrOverlayUnavailable = errors.New("risk overlay unavailable")
)

// MalformedRowError describes an overlay row that contributed nothing.
type MalformedRowError struct {
	Line   int
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("overlay line %d: %s", e.Line, e.Reason)
}

// MalformedCellError describes a single overlay cell that was skipped.
type MalformedCellError struct {
	Line   int
	Column string
	Raw    string
}

func (e *MalformedCellError) Error() string {
	return fmt.Sprintf("overlay line %d column %q: not a number: %q", e.Line, e.Column, e.Raw)
}
