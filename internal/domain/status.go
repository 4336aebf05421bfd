package domain

import "time"

// PricePoint is one per-cycle price observation kept in the short in-memory
// history ring backing the status surface.
type PricePoint struct {
	At       time.Time
	PriceUSD float64
}

// MonitorStatus is the read-only view of the monitor loop's state handed to
// status queries. Stale is set when the retained snapshot predates a fetch
// failure, so callers can show last-known-good data with a warning instead
// of an empty response.
type MonitorStatus struct {
	Running       bool
	Snapshot      *TokenSnapshot
	Stale         bool
	LastError     string
	LastErrorKind string
	LastPollAt    time.Time
	LastSuccessAt time.Time
	PollInterval  time.Duration
	Cycles        int64
	EventsEmitted int64
	PriceHistory  []PricePoint
}
