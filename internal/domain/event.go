package domain

import "time"

// BuyEvent is one purchase transaction judged new relative to the previous
// snapshot. Emitted by the detector, consumed immediately by the notifier.
type BuyEvent struct {
	ID          string // UUID, stamped at detection
	TxID        string
	Amount      float64 // tokens bought
	PriceImpact float64 // abs 5m price change at detection, percent
	Remaining   float64 // estimated tokens left in the pool
	OccurredAt  time.Time
	DetectedAt  time.Time
}
