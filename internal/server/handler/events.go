package handler

import (
	"net/http"
)

// EventsHandler serves recently detected purchases.
type EventsHandler struct {
	monitor MonitorSource
}

// NewEventsHandler creates an EventsHandler.
func NewEventsHandler(monitor MonitorSource) *EventsHandler {
	return &EventsHandler{monitor: monitor}
}

type eventInfo struct {
	ID          string  `json:"id"`
	TxID        string  `json:"tx_id"`
	Amount      float64 `json:"amount"`
	PriceImpact float64 `json:"price_impact"`
	Remaining   float64 `json:"remaining"`
	OccurredAt  string  `json:"occurred_at"`
	DetectedAt  string  `json:"detected_at"`
}

type listEventsResponse struct {
	Events []eventInfo `json:"events"`
	Count  int         `json:"count"`
	Limit  int         `json:"limit"`
}

// ListEvents returns recently detected buys, newest first.
// GET /api/events?limit=20
func (h *EventsHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 20, 100)

	events := h.monitor.RecentEvents(limit)
	out := make([]eventInfo, 0, len(events))
	for _, ev := range events {
		out = append(out, eventInfo{
			ID:          ev.ID,
			TxID:        ev.TxID,
			Amount:      ev.Amount,
			PriceImpact: ev.PriceImpact,
			Remaining:   ev.Remaining,
			OccurredAt:  fmtTime(ev.OccurredAt),
			DetectedAt:  fmtTime(ev.DetectedAt),
		})
	}

	writeJSON(w, http.StatusOK, listEventsResponse{
		Events: out,
		Count:  len(out),
		Limit:  limit,
	})
}
