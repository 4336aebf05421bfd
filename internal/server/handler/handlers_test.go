package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/roarwatch/internal/domain"
	"github.com/alanyoungcy/roarwatch/internal/registry"
)

type fakeMonitor struct {
	status domain.MonitorStatus
	events []domain.BuyEvent
}

func (f *fakeMonitor) Status() domain.MonitorStatus { return f.status }

func (f *fakeMonitor) RecentEvents(limit int) []domain.BuyEvent {
	if limit <= 0 || limit > len(f.events) {
		limit = len(f.events)
	}
	return f.events[:limit]
}

func doGet(t *testing.T, h http.HandlerFunc, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthCheck(t *testing.T) {
	h := NewHealthHandler(time.Now().UTC().Add(-90 * time.Second))

	rec, body := doGet(t, h.HealthCheck, "/api/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "ok", body["status"])
	assert.GreaterOrEqual(t, body["uptime_seconds"].(float64), 90.0)
}

func TestGetStatusWithSnapshot(t *testing.T) {
	now := time.Now().UTC()
	mon := &fakeMonitor{status: domain.MonitorStatus{
		Running: true,
		Snapshot: &domain.TokenSnapshot{
			PairAddress:  "0xPAIR",
			DexID:        "uniswap",
			PriceUSD:     2.0,
			LiquidityUSD: 40_000,
			TakenAt:      now,
		},
		LastPollAt:    now,
		LastSuccessAt: now,
		PollInterval:  30 * time.Second,
		Cycles:        12,
		EventsEmitted: 3,
		PriceHistory:  []domain.PricePoint{{At: now, PriceUSD: 2.0}},
	}}
	subs := registry.New()
	subs.Subscribe(1)
	subs.Subscribe(2)
	subs.Unsubscribe(2)

	h := NewStatusHandler(mon, subs, StatusInfo{Mode: "full", Symbol: "ROAR", Address: "0xabc"})
	rec, body := doGet(t, h.GetStatus, "/api/status")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "full", body["mode"])

	token := body["token"].(map[string]any)
	assert.Equal(t, "ROAR", token["symbol"])

	monitor := body["monitor"].(map[string]any)
	assert.Equal(t, true, monitor["running"])
	assert.Equal(t, false, monitor["stale"])
	assert.Equal(t, 30.0, monitor["poll_interval_seconds"])
	assert.Equal(t, 12.0, monitor["cycles"])

	snap := body["snapshot"].(map[string]any)
	assert.Equal(t, "0xPAIR", snap["pair_address"])
	assert.Equal(t, 10_000.0, snap["remaining_tokens"])

	counts := body["subscribers"].(map[string]any)
	assert.Equal(t, 2.0, counts["total"])
	assert.Equal(t, 1.0, counts["active"])

	history := body["price_history"].([]any)
	require.Len(t, history, 1)
}

func TestGetStatusStaleWindow(t *testing.T) {
	mon := &fakeMonitor{status: domain.MonitorStatus{
		Running:       true,
		Stale:         true,
		LastError:     "fetch: upstream unavailable",
		LastErrorKind: domain.KindTransport,
		Snapshot:      &domain.TokenSnapshot{PriceUSD: 1.0},
	}}
	h := NewStatusHandler(mon, registry.New(), StatusInfo{Mode: "bot"})

	rec, body := doGet(t, h.GetStatus, "/api/status")

	// Last-known-good data stays available with a staleness flag, never an
	// error response.
	assert.Equal(t, http.StatusOK, rec.Code)
	monitor := body["monitor"].(map[string]any)
	assert.Equal(t, true, monitor["stale"])
	assert.Equal(t, "transport", monitor["last_error_kind"])
	assert.NotNil(t, body["snapshot"])
}

func TestGetStatusBeforeFirstPoll(t *testing.T) {
	h := NewStatusHandler(&fakeMonitor{}, registry.New(), StatusInfo{Mode: "monitor"})

	rec, body := doGet(t, h.GetStatus, "/api/status")

	assert.Equal(t, http.StatusOK, rec.Code)
	_, hasSnapshot := body["snapshot"]
	assert.False(t, hasSnapshot, "no snapshot key before the first successful poll")
}

func TestListEvents(t *testing.T) {
	now := time.Now().UTC()
	mon := &fakeMonitor{events: []domain.BuyEvent{
		{ID: "a", TxID: "t3", Amount: 500, DetectedAt: now},
		{ID: "b", TxID: "t2", Amount: 200, DetectedAt: now.Add(-time.Minute)},
		{ID: "c", TxID: "t1", Amount: 100, DetectedAt: now.Add(-2 * time.Minute)},
	}}
	h := NewEventsHandler(mon)

	rec, body := doGet(t, h.ListEvents, "/api/events?limit=2")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, body["count"])
	assert.Equal(t, 2.0, body["limit"])
	events := body["events"].([]any)
	require.Len(t, events, 2)
	first := events[0].(map[string]any)
	assert.Equal(t, "t3", first["tx_id"])
	assert.Equal(t, 500.0, first["amount"])
}

func TestListEventsLimitClamped(t *testing.T) {
	h := NewEventsHandler(&fakeMonitor{})

	_, body := doGet(t, h.ListEvents, "/api/events?limit=9999")
	assert.Equal(t, 100.0, body["limit"])

	_, body = doGet(t, h.ListEvents, "/api/events?limit=bogus")
	assert.Equal(t, 20.0, body["limit"], "invalid limit falls back to the default")
}

func TestListSubscribers(t *testing.T) {
	subs := registry.New()
	subs.Subscribe(20)
	subs.Subscribe(10)
	subs.Unsubscribe(20)
	h := NewSubscribersHandler(subs)

	rec, body := doGet(t, h.ListSubscribers, "/api/subscribers")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, body["total"])
	assert.Equal(t, 1.0, body["active"])

	list := body["subscribers"].([]any)
	require.Len(t, list, 2)
	first := list[0].(map[string]any)
	assert.Equal(t, 10.0, first["chat_id"])
	assert.Equal(t, true, first["active"])
}
