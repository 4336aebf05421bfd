package handler

import (
	"net/http"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

// SubscribersHandler serves the subscriber roster.
type SubscribersHandler struct {
	subs domain.Subscribers
}

// NewSubscribersHandler creates a SubscribersHandler.
func NewSubscribersHandler(subs domain.Subscribers) *SubscribersHandler {
	return &SubscribersHandler{subs: subs}
}

type subscriberInfo struct {
	ChatID       int64  `json:"chat_id"`
	Active       bool   `json:"active"`
	SubscribedAt string `json:"subscribed_at"`
}

type listSubscribersResponse struct {
	Subscribers []subscriberInfo `json:"subscribers"`
	Total       int              `json:"total"`
	Active      int              `json:"active"`
}

// ListSubscribers returns every known subscriber with its state, disabled
// ones included.
// GET /api/subscribers
func (h *SubscribersHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	all := h.subs.All()

	out := make([]subscriberInfo, 0, len(all))
	active := 0
	for _, s := range all {
		if s.Active {
			active++
		}
		out = append(out, subscriberInfo{
			ChatID:       s.ChatID,
			Active:       s.Active,
			SubscribedAt: fmtTime(s.SubscribedAt),
		})
	}

	writeJSON(w, http.StatusOK, listSubscribersResponse{
		Subscribers: out,
		Total:       len(out),
		Active:      active,
	})
}
