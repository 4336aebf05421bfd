// Package notify delivers buy alerts to subscribers and operational alerts
// to the configured admin channels.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/roarwatch/internal/domain"
	"github.com/alanyoungcy/roarwatch/internal/render"
)

const defaultMaxConcurrent = 10

// BroadcasterConfig configures the Broadcaster.
type BroadcasterConfig struct {
	Symbol         string
	MaxConcurrent  int  // parallel sends per event
	DisableOnBlock bool // drop recipients who blocked the bot
}

// Broadcaster fans detected purchases out to every active subscriber. Each
// event is rendered once; delivery failures are isolated per recipient and
// never retried, so one broken chat cannot hold up or hide the rest.
type Broadcaster struct {
	transport      domain.Transport
	subs           domain.Subscribers
	renderer       domain.Renderer
	symbol         string
	maxConcurrent  int
	disableOnBlock bool
	logger         *slog.Logger
}

// NewBroadcaster creates a Broadcaster.
func NewBroadcaster(
	transport domain.Transport,
	subs domain.Subscribers,
	renderer domain.Renderer,
	cfg BroadcasterConfig,
	logger *slog.Logger,
) *Broadcaster {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.Symbol == "" {
		cfg.Symbol = "ROAR"
	}
	return &Broadcaster{
		transport:      transport,
		subs:           subs,
		renderer:       renderer,
		symbol:         cfg.Symbol,
		maxConcurrent:  cfg.MaxConcurrent,
		disableOnBlock: cfg.DisableOnBlock,
		logger:         logger.With(slog.String("component", "broadcaster")),
	}
}

// Dispatch delivers each event to every active subscriber, in order. It
// returns once every delivery attempt for the batch has finished.
func (b *Broadcaster) Dispatch(ctx context.Context, events []domain.BuyEvent) {
	for _, ev := range events {
		b.deliver(ctx, ev)
	}
}

// deliver sends one event to the subscriber set captured at this moment, so
// a recipient disabled while an earlier event was in flight no longer
// receives later ones.
func (b *Broadcaster) deliver(ctx context.Context, ev domain.BuyEvent) {
	recipients := b.subs.Active()
	if len(recipients) == 0 {
		b.logger.DebugContext(ctx, "no active subscribers", slog.String("tx_id", ev.TxID))
		return
	}

	caption := b.alertText(ev)
	photo, err := b.renderer.RenderEvent(ev)
	if err != nil {
		b.logger.WarnContext(ctx, "card render failed, falling back to text",
			slog.String("tx_id", ev.TxID),
			slog.String("error", err.Error()),
		)
		photo = nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.maxConcurrent)
	for _, chatID := range recipients {
		chatID := chatID
		g.Go(func() error {
			b.send(gctx, chatID, photo, caption)
			return nil
		})
	}
	_ = g.Wait()

	b.logger.InfoContext(ctx, "buy alert dispatched",
		slog.String("tx_id", ev.TxID),
		slog.Float64("amount", ev.Amount),
		slog.Int("recipients", len(recipients)),
	)
}

func (b *Broadcaster) send(ctx context.Context, chatID int64, photo []byte, caption string) {
	var err error
	if photo != nil {
		err = b.transport.SendPhoto(ctx, chatID, photo, caption)
	} else {
		err = b.transport.SendMessage(ctx, chatID, caption)
	}
	if err == nil {
		return
	}
	if b.disableOnBlock && errors.Is(err, domain.ErrBlocked) {
		b.subs.Disable(chatID)
		b.logger.WarnContext(ctx, "subscriber blocked the bot, disabled",
			slog.Int64("chat_id", chatID),
		)
		return
	}
	b.logger.ErrorContext(ctx, "buy alert delivery failed",
		slog.Int64("chat_id", chatID),
		slog.String("kind", domain.DeliveryKind(err)),
		slog.String("error", err.Error()),
	)
}

// alertText builds the Markdown caption for a buy alert. Zero amount or
// impact lines are omitted.
func (b *Broadcaster) alertText(ev domain.BuyEvent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🚀 *New %s Buy Detected!*\n\n", b.symbol)
	fmt.Fprintf(&sb, "💰 %s Left: *%s*\n", b.symbol, render.FormatAmount(ev.Remaining))
	if ev.Amount > 0 {
		fmt.Fprintf(&sb, "📈 Buy Amount: `%.2f %s`\n", ev.Amount, b.symbol)
	}
	if ev.PriceImpact > 0 {
		fmt.Fprintf(&sb, "📊 Price Impact: `%.2f%%`\n", ev.PriceImpact)
	}
	return sb.String()
}
