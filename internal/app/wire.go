package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/roarwatch/internal/bus"
	"github.com/alanyoungcy/roarwatch/internal/cache/memory"
	"github.com/alanyoungcy/roarwatch/internal/config"
	"github.com/alanyoungcy/roarwatch/internal/crypto"
	"github.com/alanyoungcy/roarwatch/internal/domain"
	"github.com/alanyoungcy/roarwatch/internal/monitor"
	"github.com/alanyoungcy/roarwatch/internal/notify"
	"github.com/alanyoungcy/roarwatch/internal/platform/dexscreener"
	"github.com/alanyoungcy/roarwatch/internal/platform/telegram"
	"github.com/alanyoungcy/roarwatch/internal/registry"
	"github.com/alanyoungcy/roarwatch/internal/render"
)

// Dependencies bundles every domain-level dependency that the application
// modes need to operate. It is constructed by Wire and torn down by the
// returned cleanup function.
type Dependencies struct {
	// Core pipeline
	Quotes      domain.QuoteSource
	Registry    domain.Subscribers
	Renderer    domain.Renderer
	Bus         domain.EventBus
	RateLimiter domain.RateLimiter
	Monitor     *monitor.Monitor

	// Chat transport; nil in monitor mode or when Telegram is disabled.
	Telegram  *telegram.Client
	Transport domain.Transport

	// Notifications
	Broadcaster *notify.Broadcaster
	Alerter     *notify.Alerter
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Quote source ---
	deps.Quotes = dexscreener.NewClient(
		cfg.Quotes.BaseURL,
		cfg.Token.Address,
		cfg.Quotes.RequestTimeout.Duration,
	)

	// --- In-memory infrastructure ---
	deps.Registry = registry.New()
	deps.Bus = bus.New()
	deps.RateLimiter = memory.NewRateLimiter()

	// --- Card renderer ---
	card, err := render.NewCard(render.Config{
		BackgroundPath: cfg.Render.BackgroundPath,
		Width:          cfg.Render.Width,
		Height:         cfg.Render.Height,
		Symbol:         cfg.Token.Symbol,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: renderer: %w", err)
	}
	deps.Renderer = card

	// --- Telegram transport (bot modes only) ---
	if cfg.NeedsTelegram() {
		token, err := crypto.LoadToken(crypto.TokenConfig{
			RawToken:           cfg.Keys.RawBotToken,
			EncryptedTokenPath: cfg.Keys.EncryptedTokenPath,
			TokenPassword:      cfg.Keys.TokenPassword,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: bot token: %w", err)
		}
		deps.Telegram = telegram.NewClient(token, cfg.Telegram.PollTimeout.Duration)
		deps.Transport = deps.Telegram
	}

	// --- Subscriber fan-out ---
	if deps.Transport != nil {
		deps.Broadcaster = notify.NewBroadcaster(
			deps.Transport,
			deps.Registry,
			deps.Renderer,
			notify.BroadcasterConfig{
				Symbol:         cfg.Token.Symbol,
				MaxConcurrent:  cfg.Notify.MaxConcurrent,
				DisableOnBlock: cfg.Notify.DisableOnBlock,
			},
			logger,
		)
	}

	// --- Monitor loop ---
	var dispatch monitor.Dispatcher
	if deps.Broadcaster != nil {
		dispatch = deps.Broadcaster
	}
	deps.Monitor = monitor.New(deps.Quotes, dispatch, deps.Bus, monitor.Config{
		PollInterval: cfg.Quotes.PollInterval.Duration,
		EventsKept:   cfg.Notify.EventsBuffer,
		AutoStart:    true,
	}, logger)

	// --- Operational alerts ---
	var senders []notify.Sender
	if deps.Transport != nil && cfg.Telegram.AdminChatID != 0 {
		senders = append(senders, notify.NewTelegramSender(deps.Transport, cfg.Telegram.AdminChatID))
	}
	if cfg.Alerts.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Alerts.DiscordWebhookURL))
	}
	if len(senders) > 0 {
		deps.Alerter = notify.NewAlerter(deps.Bus, senders, logger)
	}

	return deps, cleanup, nil
}
