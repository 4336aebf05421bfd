package monitor

import (
	"sync"
	"time"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

const defaultHistoryPoints = 120

// PriceHistory keeps a bounded run of recent price observations for the
// tracked asset. One point is recorded per successful poll, so the default
// capacity covers roughly an hour at the standard cadence.
type PriceHistory struct {
	mu  sync.RWMutex
	pts []domain.PricePoint
	max int
}

// NewPriceHistory creates a history ring holding up to capacity points.
func NewPriceHistory(capacity int) *PriceHistory {
	if capacity <= 0 {
		capacity = defaultHistoryPoints
	}
	return &PriceHistory{max: capacity}
}

// Record appends a price observation and drops the oldest points beyond
// capacity.
func (h *PriceHistory) Record(price float64, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pts = append(h.pts, domain.PricePoint{At: at, PriceUSD: price})
	if n := len(h.pts) - h.max; n > 0 {
		h.pts = h.pts[n:]
	}
}

// Points returns a copy of the recorded history, oldest first. The returned
// slice is safe to mutate.
func (h *PriceHistory) Points() []domain.PricePoint {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.pts) == 0 {
		return nil
	}
	out := make([]domain.PricePoint, len(h.pts))
	copy(out, h.pts)
	return out
}
