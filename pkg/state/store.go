package state

import (
	"github.com/vanderheijden86/sectorlens/pkg/model"
)

// Change is a bit set describing what a transition touched.
type Change uint8

const (
	ChangeSegment Change = 1 << iota
	ChangeYear
	ChangeSelection
	ChangeMode
	ChangeData
)

// Has reports whether c includes flag.
func (c Change) Has(flag Change) bool {
	return c&flag != 0
}

// Listener observes committed transitions.
type Listener func(c Change, v View)

// Store owns the dataset and the view. All mutation goes through its named
// transitions; listeners fire only when something actually changed.
type Store struct {
	ds        *model.Dataset
	view      View
	listeners []Listener
}

// NewStore creates a store initialized from ds.
func NewStore(ds *model.Dataset) *Store {
	if ds == nil {
		ds = model.Empty()
	}
	return &Store{ds: ds, view: New(ds)}
}

// Dataset returns the current dataset. Callers must treat it as read-only.
func (s *Store) Dataset() *model.Dataset {
	return s.ds
}

// View returns a copy of the current view.
func (s *Store) View() View {
	return s.view
}

// Subscribe registers a listener.
func (s *Store) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// SetSegment applies View.SetSegment.
func (s *Store) SetSegment(seg Segment) bool {
	next, changed := s.view.SetSegment(seg)
	return s.commit(next, changed, ChangeSegment)
}

// SetYearIndex applies View.SetYearIndex.
func (s *Store) SetYearIndex(i int) bool {
	next, changed := s.view.SetYearIndex(s.ds, i)
	return s.commit(next, changed, ChangeYear)
}

// SetChartMode applies View.SetChartMode.
func (s *Store) SetChartMode(m ChartMode) bool {
	next, changed := s.view.SetChartMode(m)
	return s.commit(next, changed, ChangeMode)
}

// SelectSector applies View.SelectSector.
func (s *Store) SelectSector(id string) bool {
	next, changed := s.view.SelectSector(s.ds, id)
	return s.commit(next, changed, ChangeSelection)
}

// ReplaceDataset swaps in a reloaded dataset and rebounds the view.
func (s *Store) ReplaceDataset(ds *model.Dataset) {
	if ds == nil {
		ds = model.Empty()
	}
	wasEmpty := s.ds.IsEmpty()
	s.ds = ds
	next := s.view.Rebound(ds)
	if wasEmpty && !ds.IsEmpty() {
		next = New(ds)
		next.Segment = s.view.Segment
		next.Mode = s.view.Mode
	}
	s.commit(next, true, ChangeData)
}

func (s *Store) commit(next View, changed bool, c Change) bool {
	if !changed {
		return false
	}
	s.view = next
	for _, l := range s.listeners {
		l(c, next)
	}
	return true
}
