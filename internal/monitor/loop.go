// Package monitor drives the poll-detect-notify cycle for the tracked token:
// fetch a snapshot from the quote source on a fixed cadence, diff its
// transactions against the previous snapshot, and hand new purchases to the
// dispatcher.
package monitor

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

const defaultPollInterval = 30 * time.Second

// Dispatcher fans detected purchases out to subscribers. Dispatch blocks
// until every delivery attempt for the batch has finished.
type Dispatcher interface {
	Dispatch(ctx context.Context, events []domain.BuyEvent)
}

// Config configures the Monitor.
type Config struct {
	PollInterval time.Duration
	EventsKept   int // retained events for the status API
	HistoryKept  int // retained price points
	AutoStart    bool
}

// Monitor owns the poll loop. The cadence never changes on failure: a failed
// poll keeps the previous snapshot, logs, and lets the next tick try again.
// Cycles execute inline in Run's goroutine, so no two cycles ever overlap and
// a shutdown waits for the one in flight.
type Monitor struct {
	source   domain.QuoteSource
	dispatch Dispatcher
	bus      domain.EventBus
	history  *PriceHistory
	state    *state
	interval time.Duration
	kick     chan struct{}
	logger   *slog.Logger
}

// New creates a Monitor. dispatch and bus may be nil when running without
// notifications.
func New(source domain.QuoteSource, dispatch Dispatcher, bus domain.EventBus, cfg Config, logger *slog.Logger) *Monitor {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	m := &Monitor{
		source:   source,
		dispatch: dispatch,
		bus:      bus,
		history:  NewPriceHistory(cfg.HistoryKept),
		state:    newState(cfg.EventsKept),
		interval: cfg.PollInterval,
		kick:     make(chan struct{}, 1),
		logger:   logger.With(slog.String("component", "monitor")),
	}
	if cfg.AutoStart {
		m.state.setRunning(true)
	}
	return m
}

// Run drives the poll loop until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.InfoContext(ctx, "monitor loop started",
		slog.Duration("poll_interval", m.interval),
		slog.Bool("running", m.state.isRunning()),
	)
	defer m.logger.Info("monitor loop stopped")

	// Poll immediately on start; the first snapshot is the baseline.
	if m.state.isRunning() {
		m.cycle(ctx)
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.kick:
			if m.state.isRunning() {
				m.cycle(ctx)
			}
		case <-ticker.C:
			if !m.state.isRunning() {
				continue
			}
			m.cycle(ctx)
		}
	}
}

// Start enables polling and schedules an immediate cycle. It reports false
// when the monitor was already running.
func (m *Monitor) Start() bool {
	if !m.state.setRunning(true) {
		return false
	}
	m.logger.Info("monitoring started")
	m.publishStatus(context.Background(), "started")
	select {
	case m.kick <- struct{}{}:
	default:
	}
	return true
}

// Stop disables polling. A cycle already in flight finishes, deliveries
// included. It reports false when the monitor was already stopped.
func (m *Monitor) Stop() bool {
	if !m.state.setRunning(false) {
		return false
	}
	m.logger.Info("monitoring stopped")
	m.publishStatus(context.Background(), "stopped")
	return true
}

// Running reports whether polling is currently enabled.
func (m *Monitor) Running() bool {
	return m.state.isRunning()
}

// Status returns a copy of the monitor's current state for status surfaces.
func (m *Monitor) Status() domain.MonitorStatus {
	st := m.state.status()
	st.PollInterval = m.interval
	st.PriceHistory = m.history.Points()
	return st
}

// RecentEvents returns up to limit recently detected purchases, newest first.
func (m *Monitor) RecentEvents(limit int) []domain.BuyEvent {
	return m.state.recentEvents(limit)
}

// cycle runs one poll: fetch, detect against the previous snapshot, replace
// state, dispatch. Fetch failures short-circuit before detection so the
// retained snapshot is never replaced by a partial read.
func (m *Monitor) cycle(ctx context.Context) {
	snap, err := m.source.Fetch(ctx)
	if err != nil {
		m.state.recordFailure(err, time.Now().UTC())
		m.logger.ErrorContext(ctx, "poll failed",
			slog.String("kind", domain.FetchKind(err)),
			slog.String("error", err.Error()),
		)
		m.publishStatus(ctx, "cycle")
		return
	}

	previous := m.state.current()
	events := Detect(previous, snap)
	m.state.recordSuccess(snap)
	m.history.Record(snap.PriceUSD, snap.TakenAt)

	m.logger.InfoContext(ctx, "poll complete",
		slog.Float64("price_usd", snap.PriceUSD),
		slog.Float64("remaining", snap.RemainingTokens()),
		slog.Int("transactions", len(snap.Transactions)),
		slog.Int("new_buys", len(events)),
	)

	if len(events) > 0 {
		m.state.recordEvents(events)
		m.publishBuys(ctx, events)
		if m.dispatch != nil {
			// Detached context: a shutdown arriving mid-cycle still lets
			// in-flight sends finish.
			m.dispatch.Dispatch(context.WithoutCancel(ctx), events)
		}
	}
	m.publishStatus(ctx, "cycle")
}

func (m *Monitor) publishBuys(ctx context.Context, events []domain.BuyEvent) {
	if m.bus == nil {
		return
	}
	for _, ev := range events {
		payload, _ := json.Marshal(map[string]any{
			"event":        "buy",
			"id":           ev.ID,
			"tx_id":        ev.TxID,
			"amount":       ev.Amount,
			"remaining":    ev.Remaining,
			"price_impact": ev.PriceImpact,
			"occurred_at":  ev.OccurredAt.Format(time.RFC3339Nano),
			"detected_at":  ev.DetectedAt.Format(time.RFC3339Nano),
		})
		_ = m.bus.Publish(ctx, domain.BusChannelBuys, payload)
	}
}

func (m *Monitor) publishStatus(ctx context.Context, kind string) {
	if m.bus == nil {
		return
	}
	st := m.state.status()
	msg := map[string]any{
		"event":     kind,
		"running":   st.Running,
		"stale":     st.Stale,
		"cycles":    st.Cycles,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if st.Snapshot != nil {
		msg["price_usd"] = st.Snapshot.PriceUSD
		msg["remaining"] = st.Snapshot.RemainingTokens()
	}
	if st.LastError != "" {
		msg["error"] = st.LastError
		msg["error_kind"] = st.LastErrorKind
	}
	payload, _ := json.Marshal(msg)
	_ = m.bus.Publish(ctx, domain.BusChannelStatus, payload)
}
