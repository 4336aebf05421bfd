package monitor

import (
	"sort"

	"github.com/google/uuid"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

// Detect compares the purchases in the current snapshot against the previous
// one and returns one BuyEvent per transaction ID not seen before, ordered by
// purchase timestamp ascending. A nil previous snapshot establishes the
// baseline: everything in the first snapshot counts as already known and no
// events are returned.
//
// Comparison is by transaction ID only. An already-seen ID whose amount or
// timestamp changed produces nothing, and IDs that disappeared are ignored.
func Detect(previous *domain.TokenSnapshot, current domain.TokenSnapshot) []domain.BuyEvent {
	if previous == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(previous.Transactions))
	for _, tx := range previous.Transactions {
		seen[tx.ID] = struct{}{}
	}

	remaining := current.RemainingTokens()
	impact := current.PriceChange5m
	if impact < 0 {
		impact = -impact
	}

	var events []domain.BuyEvent
	for _, tx := range current.Transactions {
		if tx.ID == "" {
			continue
		}
		if _, ok := seen[tx.ID]; ok {
			continue
		}
		seen[tx.ID] = struct{}{}
		events = append(events, domain.BuyEvent{
			ID:          uuid.Must(uuid.NewRandom()).String(),
			TxID:        tx.ID,
			Amount:      tx.Amount,
			PriceImpact: impact,
			Remaining:   remaining,
			OccurredAt:  tx.Timestamp,
			DetectedAt:  current.TakenAt,
		})
	}
	if len(events) > 1 {
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].OccurredAt.Before(events[j].OccurredAt)
		})
	}
	return events
}
