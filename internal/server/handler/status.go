package handler

import (
	"net/http"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

// MonitorSource is the slice of the monitor the status and events handlers
// read. It is declared locally so the handler package does not depend on the
// concrete monitor implementation.
type MonitorSource interface {
	Status() domain.MonitorStatus
	RecentEvents(limit int) []domain.BuyEvent
}

// StatusInfo carries the static deployment metadata reported alongside the
// live monitor state.
type StatusInfo struct {
	Mode    string
	Symbol  string
	Address string
}

// StatusHandler serves the monitor status for the dashboard.
type StatusHandler struct {
	monitor MonitorSource
	subs    domain.Subscribers
	info    StatusInfo
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(monitor MonitorSource, subs domain.Subscribers, info StatusInfo) *StatusHandler {
	return &StatusHandler{monitor: monitor, subs: subs, info: info}
}

type statusResponse struct {
	Mode         string           `json:"mode"`
	Token        tokenInfo        `json:"token"`
	Monitor      monitorInfo      `json:"monitor"`
	Snapshot     *snapshotInfo    `json:"snapshot,omitempty"`
	Subscribers  subscriberCounts `json:"subscribers"`
	PriceHistory []pricePoint     `json:"price_history,omitempty"`
}

type tokenInfo struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

type monitorInfo struct {
	Running             bool    `json:"running"`
	Stale               bool    `json:"stale"`
	LastError           string  `json:"last_error,omitempty"`
	LastErrorKind       string  `json:"last_error_kind,omitempty"`
	LastPollAt          string  `json:"last_poll_at,omitempty"`
	LastSuccessAt       string  `json:"last_success_at,omitempty"`
	PollIntervalSeconds float64 `json:"poll_interval_seconds"`
	Cycles              int64   `json:"cycles"`
	EventsEmitted       int64   `json:"events_emitted"`
}

type snapshotInfo struct {
	PairAddress     string  `json:"pair_address"`
	DexID           string  `json:"dex_id"`
	PriceUSD        float64 `json:"price_usd"`
	LiquidityUSD    float64 `json:"liquidity_usd"`
	MarketCapUSD    float64 `json:"market_cap_usd"`
	Volume5m        float64 `json:"volume_5m"`
	Volume24h       float64 `json:"volume_24h"`
	PriceChange5m   float64 `json:"price_change_5m"`
	PriceChange24h  float64 `json:"price_change_24h"`
	Buys24h         int64   `json:"buys_24h"`
	Sells24h        int64   `json:"sells_24h"`
	RemainingTokens float64 `json:"remaining_tokens"`
	TakenAt         string  `json:"taken_at"`
}

type subscriberCounts struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

type pricePoint struct {
	At       string  `json:"at"`
	PriceUSD float64 `json:"price_usd"`
}

// GetStatus responds with the full monitor state: loop health, the retained
// snapshot, subscriber counts, and the recent price history.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st := h.monitor.Status()

	resp := statusResponse{
		Mode: h.info.Mode,
		Token: tokenInfo{
			Address: h.info.Address,
			Symbol:  h.info.Symbol,
		},
		Monitor: monitorInfo{
			Running:             st.Running,
			Stale:               st.Stale,
			LastError:           st.LastError,
			LastErrorKind:       st.LastErrorKind,
			LastPollAt:          fmtTime(st.LastPollAt),
			LastSuccessAt:       fmtTime(st.LastSuccessAt),
			PollIntervalSeconds: st.PollInterval.Seconds(),
			Cycles:              st.Cycles,
			EventsEmitted:       st.EventsEmitted,
		},
		Subscribers: subscriberCounts{
			Total:  h.subs.Count(),
			Active: h.subs.ActiveCount(),
		},
	}

	if snap := st.Snapshot; snap != nil {
		resp.Snapshot = &snapshotInfo{
			PairAddress:     snap.PairAddress,
			DexID:           snap.DexID,
			PriceUSD:        snap.PriceUSD,
			LiquidityUSD:    snap.LiquidityUSD,
			MarketCapUSD:    snap.MarketCapUSD,
			Volume5m:        snap.Volume5m,
			Volume24h:       snap.Volume24h,
			PriceChange5m:   snap.PriceChange5m,
			PriceChange24h:  snap.PriceChange24h,
			Buys24h:         snap.Buys24h,
			Sells24h:        snap.Sells24h,
			RemainingTokens: snap.RemainingTokens(),
			TakenAt:         fmtTime(snap.TakenAt),
		}
	}

	if len(st.PriceHistory) > 0 {
		resp.PriceHistory = make([]pricePoint, 0, len(st.PriceHistory))
		for _, p := range st.PriceHistory {
			resp.PriceHistory = append(resp.PriceHistory, pricePoint{
				At:       fmtTime(p.At),
				PriceUSD: p.PriceUSD,
			})
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
