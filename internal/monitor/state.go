package monitor

import (
	"sync"
	"time"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

const defaultEventsKept = 64

// state is the mutable view shared between the poll loop and status readers:
// the retained snapshot, error bookkeeping, counters, and a bounded run of
// recent events. Readers only ever see copies.
type state struct {
	mu sync.RWMutex

	running  bool
	snapshot *domain.TokenSnapshot
	stale    bool

	lastErr     string
	lastErrKind string

	lastPollAt    time.Time
	lastSuccessAt time.Time

	cycles        int64
	eventsEmitted int64

	events    []domain.BuyEvent
	eventsCap int
}

func newState(eventsCap int) *state {
	if eventsCap <= 0 {
		eventsCap = defaultEventsKept
	}
	return &state{eventsCap: eventsCap}
}

// setRunning flips the running flag and reports whether it changed.
func (s *state) setRunning(v bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running == v {
		return false
	}
	s.running = v
	return true
}

func (s *state) isRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// current returns the retained snapshot. Snapshots are immutable, so sharing
// the pointer with the detector is safe.
func (s *state) current() *domain.TokenSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// recordSuccess replaces the retained snapshot. The caller must have already
// run detection against the previous one.
func (s *state) recordSuccess(snap domain.TokenSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = &snap
	s.stale = false
	s.lastErr = ""
	s.lastErrKind = ""
	s.lastPollAt = snap.TakenAt
	s.lastSuccessAt = snap.TakenAt
	s.cycles++
}

// recordFailure notes a failed poll. The previous snapshot is retained and
// marked stale so status surfaces can still serve last-known-good data.
func (s *state) recordFailure(err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err.Error()
	s.lastErrKind = domain.FetchKind(err)
	s.lastPollAt = at
	if s.snapshot != nil {
		s.stale = true
	}
	s.cycles++
}

func (s *state) recordEvents(events []domain.BuyEvent) {
	if len(events) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventsEmitted += int64(len(events))
	s.events = append(s.events, events...)
	if n := len(s.events) - s.eventsCap; n > 0 {
		s.events = s.events[n:]
	}
}

// recentEvents returns up to limit retained events, newest first. limit <= 0
// means all of them.
func (s *state) recentEvents(limit int) []domain.BuyEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.events)
	if n == 0 {
		return nil
	}
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]domain.BuyEvent, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.events[i])
	}
	return out
}

func (s *state) status() domain.MonitorStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := domain.MonitorStatus{
		Running:       s.running,
		Stale:         s.stale,
		LastError:     s.lastErr,
		LastErrorKind: s.lastErrKind,
		LastPollAt:    s.lastPollAt,
		LastSuccessAt: s.lastSuccessAt,
		Cycles:        s.cycles,
		EventsEmitted: s.eventsEmitted,
	}
	if s.snapshot != nil {
		snap := *s.snapshot
		st.Snapshot = &snap
	}
	return st
}
