package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/sectorlens/pkg/dashboard"
)

// FrameInterval is the delay between a scrub and its chart repaint.
const FrameInterval = 16 * time.Millisecond

// frameMsg marks the end of a frame interval.
type frameMsg struct{}

// TickScheduler turns orchestrator frame requests into tea.Tick commands.
// At most one tick is in flight. A request made while a tick is pending
// replaces the pending token and rides on that tick, so continuous scrubbing
// still repaints once per interval.
type TickScheduler struct {
	interval time.Duration
	pending  dashboard.Token
	inFlight bool
	needTick bool
}

// NewTickScheduler creates a scheduler firing after interval.
func NewTickScheduler(interval time.Duration) *TickScheduler {
	if interval <= 0 {
		interval = FrameInterval
	}
	return &TickScheduler{interval: interval}
}

// Request makes t the token delivered by the next tick.
func (s *TickScheduler) Request(t dashboard.Token) {
	s.pending = t
	if !s.inFlight {
		s.needTick = true
	}
}

// Cancel withdraws t if it is still pending. A tick already issued keeps
// running and delivers whatever is requested before it fires.
func (s *TickScheduler) Cancel(t dashboard.Token) {
	if s.pending != t {
		return
	}
	s.pending = 0
	s.needTick = false
}

// Pending returns the token the next tick will deliver, or 0.
func (s *TickScheduler) Pending() dashboard.Token {
	return s.pending
}

// InFlight reports whether a tick has been issued and not yet fired.
func (s *TickScheduler) InFlight() bool {
	return s.inFlight
}

// Drain returns the tick command when a request needs one, or nil.
func (s *TickScheduler) Drain() tea.Cmd {
	if !s.needTick || s.pending == 0 {
		return nil
	}
	s.needTick = false
	s.inFlight = true
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// Fire consumes a tick and returns the token to paint, or 0 when the
// request was cancelled in the meantime.
func (s *TickScheduler) Fire() dashboard.Token {
	s.inFlight = false
	t := s.pending
	s.pending = 0
	return t
}
