package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

// Sender is the interface that each alert channel must implement.
type Sender interface {
	// Send delivers an alert with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns a short identifier for the sender (e.g. "telegram").
	Name() string
}

// Alerter watches the status channel and pushes operational alerts to the
// configured senders: monitoring started or stopped, the first failed poll
// after a healthy one, and recovery. Repeated failures stay quiet until the
// loop recovers, so a flapping upstream produces one alert pair, not a flood.
type Alerter struct {
	bus     domain.EventBus
	senders []Sender
	logger  *slog.Logger
}

// NewAlerter creates an Alerter delivering to the given senders.
func NewAlerter(bus domain.EventBus, senders []Sender, logger *slog.Logger) *Alerter {
	return &Alerter{
		bus:     bus,
		senders: senders,
		logger:  logger.With(slog.String("component", "alerter")),
	}
}

// statusEvent is the JSON shape the monitor publishes on the status channel.
type statusEvent struct {
	Event     string  `json:"event"`
	Running   bool    `json:"running"`
	Stale     bool    `json:"stale"`
	Cycles    int64   `json:"cycles"`
	Error     string  `json:"error"`
	ErrorKind string  `json:"error_kind"`
	PriceUSD  float64 `json:"price_usd"`
	Remaining float64 `json:"remaining"`
}

// Run consumes the status channel until ctx is cancelled.
func (a *Alerter) Run(ctx context.Context) error {
	ch, err := a.bus.Subscribe(ctx, domain.BusChannelStatus)
	if err != nil {
		return fmt.Errorf("alerter: subscribe status: %w", err)
	}
	a.logger.Info("alerter started", slog.Int("senders", len(a.senders)))
	defer a.logger.Info("alerter stopped")

	failing := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			if err := a.handle(ctx, data, &failing); err != nil {
				a.logger.WarnContext(ctx, "alert dispatch failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (a *Alerter) handle(ctx context.Context, data []byte, failing *bool) error {
	var ev statusEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return fmt.Errorf("alerter: decode status event: %w", err)
	}

	switch ev.Event {
	case "started":
		return a.dispatch(ctx, "Monitoring Started", "Buy detection is active.")
	case "stopped":
		return a.dispatch(ctx, "Monitoring Stopped", "Buy detection is paused.")
	case "cycle":
		if ev.Error != "" && !*failing {
			*failing = true
			return a.dispatch(ctx, "Poll Failing",
				fmt.Sprintf("Quote fetch failed (%s): %s", ev.ErrorKind, ev.Error))
		}
		if ev.Error == "" && *failing {
			*failing = false
			return a.dispatch(ctx, "Poll Recovered",
				fmt.Sprintf("Quote source healthy again at cycle %d.", ev.Cycles))
		}
	}
	return nil
}

// dispatch iterates over all senders. Errors from individual senders are
// collected and returned combined; one sender failing does not prevent
// delivery to the remaining ones.
func (a *Alerter) dispatch(ctx context.Context, title, message string) error {
	if len(a.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range a.senders {
		if err := s.Send(ctx, title, message); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		a.logger.DebugContext(ctx, "alert sent",
			slog.String("sender", s.Name()),
			slog.String("title", title),
		)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d alert sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
