// Package bot implements the Telegram command surface: a long-poll update
// loop and the handlers for the monitoring commands.
package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/alanyoungcy/roarwatch/internal/domain"
	"github.com/alanyoungcy/roarwatch/internal/platform/telegram"
)

const errorRetryPause = 3 * time.Second

// API is the slice of the Telegram client the router consumes beyond plain
// sends.
type API interface {
	GetMe(ctx context.Context) (telegram.User, error)
	GetUpdates(ctx context.Context, offset int64) ([]telegram.Update, error)
}

// MonitorControl is the slice of the monitor the commands drive.
type MonitorControl interface {
	Start() bool
	Stop() bool
	Status() domain.MonitorStatus
}

// Config configures the Router.
type Config struct {
	Symbol       string
	TokenAddress string
}

// Router consumes updates from the Bot API and dispatches the monitoring
// commands. Every reply is best-effort: a failed send is logged and the loop
// moves on.
type Router struct {
	api       API
	transport domain.Transport
	monitor   MonitorControl
	subs      domain.Subscribers
	renderer  domain.Renderer
	symbol    string
	address   string
	logger    *slog.Logger

	botUser string // learned from getMe, used to filter /cmd@OtherBot
}

// NewRouter creates a Router.
func NewRouter(
	api API,
	transport domain.Transport,
	mon MonitorControl,
	subs domain.Subscribers,
	renderer domain.Renderer,
	cfg Config,
	logger *slog.Logger,
) *Router {
	if cfg.Symbol == "" {
		cfg.Symbol = "ROAR"
	}
	return &Router{
		api:       api,
		transport: transport,
		monitor:   mon,
		subs:      subs,
		renderer:  renderer,
		symbol:    cfg.Symbol,
		address:   cfg.TokenAddress,
		logger:    logger.With(slog.String("component", "bot")),
	}
}

// Run drives the long-poll loop until ctx is cancelled.
func (r *Router) Run(ctx context.Context) error {
	me, err := r.api.GetMe(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "getMe failed, command mention filtering disabled",
			slog.String("error", err.Error()),
		)
	} else {
		r.botUser = me.Username
	}
	r.logger.Info("bot started", slog.String("username", r.botUser))
	defer r.logger.Info("bot stopped")

	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		updates, err := r.api.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.ErrorContext(ctx, "get updates failed", slog.String("error", err.Error()))
			// Pause before retrying, but honour the context.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(errorRetryPause):
			}
			continue
		}
		for _, up := range updates {
			if up.UpdateID >= offset {
				offset = up.UpdateID + 1
			}
			r.handle(ctx, up)
		}
	}
}

func (r *Router) handle(ctx context.Context, up telegram.Update) {
	msg := up.Message
	if msg == nil || msg.Chat.ID == 0 {
		return
	}
	cmd, _ := msg.Command()
	if cmd == "" || !msg.Addressed(r.botUser) {
		return
	}

	chatID := msg.Chat.ID
	r.logger.InfoContext(ctx, "command received",
		slog.String("command", cmd),
		slog.Int64("chat_id", chatID),
	)

	switch cmd {
	case "start":
		r.reply(ctx, chatID, welcomeText(r.symbol, r.address))
	case "help":
		r.reply(ctx, chatID, helpText(r.symbol, r.address))
	case "start_roar":
		r.handleStartMonitor(ctx, chatID)
	case "stop_roar":
		r.handleStopMonitor(ctx, chatID)
	case "roar_status":
		r.handleStatus(ctx, chatID)
	case "subscribe":
		r.handleSubscribe(ctx, chatID)
	case "unsubscribe":
		r.handleUnsubscribe(ctx, chatID)
	default:
		r.reply(ctx, chatID, unknownText())
	}
}

func (r *Router) handleStartMonitor(ctx context.Context, chatID int64) {
	if !r.monitor.Start() {
		r.reply(ctx, chatID, monitoringAlreadyActiveText())
		return
	}
	r.reply(ctx, chatID, monitoringStartedText(r.symbol, r.address))
}

func (r *Router) handleStopMonitor(ctx context.Context, chatID int64) {
	if !r.monitor.Stop() {
		r.reply(ctx, chatID, monitoringNotActiveText())
		return
	}
	r.reply(ctx, chatID, monitoringStoppedText(r.symbol))
}

func (r *Router) handleStatus(ctx context.Context, chatID int64) {
	st := r.monitor.Status()
	if st.Snapshot == nil {
		if st.Running {
			r.reply(ctx, chatID, statusPendingText())
		} else {
			r.reply(ctx, chatID, statusUnavailableText())
		}
		return
	}

	remaining := st.Snapshot.RemainingTokens()
	r.reply(ctx, chatID, statusText(r.symbol, remaining, st, r.subs.ActiveCount()))

	// The status card follows the text reply, like the buy alerts.
	photo, err := r.renderer.Render(remaining)
	if err != nil {
		r.logger.ErrorContext(ctx, "status card render failed", slog.String("error", err.Error()))
		return
	}
	if err := r.transport.SendPhoto(ctx, chatID, photo, statusCaption(r.symbol, remaining)); err != nil {
		r.logger.ErrorContext(ctx, "status card send failed",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

func (r *Router) handleSubscribe(ctx context.Context, chatID int64) {
	r.subs.Subscribe(chatID)
	r.logger.InfoContext(ctx, "chat subscribed",
		slog.Int64("chat_id", chatID),
		slog.Int("active", r.subs.ActiveCount()),
	)
	r.reply(ctx, chatID, subscribedText(r.symbol))
}

func (r *Router) handleUnsubscribe(ctx context.Context, chatID int64) {
	r.subs.Unsubscribe(chatID)
	r.logger.InfoContext(ctx, "chat unsubscribed",
		slog.Int64("chat_id", chatID),
		slog.Int("active", r.subs.ActiveCount()),
	)
	r.reply(ctx, chatID, unsubscribedText())
}

func (r *Router) reply(ctx context.Context, chatID int64, text string) {
	if err := r.transport.SendMessage(ctx, chatID, text); err != nil {
		r.logger.ErrorContext(ctx, "reply failed",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}
