package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/roarwatch/internal/bot"
	"github.com/alanyoungcy/roarwatch/internal/server"
	"github.com/alanyoungcy/roarwatch/internal/server/handler"
	"github.com/alanyoungcy/roarwatch/internal/server/ws"
)

// MonitorMode runs the poll loop and operational alerts only: no chat
// commands, no subscriber notifications, no HTTP surface. Useful for
// watching the logs of a new deployment before pointing a bot token at it.
func (a *App) MonitorMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting monitor mode")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Monitor.Run(ctx)
	})
	if deps.Alerter != nil {
		g.Go(func() error {
			return deps.Alerter.Run(ctx)
		})
	}

	return g.Wait()
}

// BotMode runs the poll loop plus the Telegram command surface: subscribers
// manage themselves via chat commands and receive buy alerts.
func (a *App) BotMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting bot mode")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Monitor.Run(ctx)
	})
	if deps.Alerter != nil {
		g.Go(func() error {
			return deps.Alerter.Run(ctx)
		})
	}
	a.startBot(ctx, g, deps)

	return g.Wait()
}

// FullMode runs everything: the poll loop, the Telegram command surface, and
// the HTTP/WebSocket status API.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Monitor.Run(ctx)
	})
	if deps.Alerter != nil {
		g.Go(func() error {
			return deps.Alerter.Run(ctx)
		})
	}
	a.startBot(ctx, g, deps)

	if a.cfg.Server.Enabled {
		a.startHTTPServer(ctx, g, deps)
	} else {
		a.logger.WarnContext(ctx, "server.enabled is false, full mode runs without the HTTP surface")
	}

	return g.Wait()
}

// startBot adds the Telegram update loop to the group when a transport is
// wired. Running without one is allowed so full mode still serves the HTTP
// API when Telegram is disabled.
func (a *App) startBot(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	if deps.Telegram == nil {
		a.logger.WarnContext(ctx, "telegram transport not wired, chat commands disabled")
		return
	}

	router := bot.NewRouter(
		deps.Telegram,
		deps.Transport,
		deps.Monitor,
		deps.Registry,
		deps.Renderer,
		bot.Config{
			Symbol:       a.cfg.Token.Symbol,
			TokenAddress: a.cfg.Token.Address,
		},
		a.logger,
	)
	g.Go(func() error {
		return router.Run(ctx)
	})
}

// startHTTPServer adds the HTTP server and the WebSocket hub to the given
// errgroup. The server is shut down gracefully when the context is cancelled.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	hub := ws.NewHub(deps.Bus, ws.Config{
		Mode:      a.cfg.Mode,
		Symbol:    a.cfg.Token.Symbol,
		StartedAt: time.Now().UTC(),
	}, a.logger)
	g.Go(func() error {
		return hub.Run(ctx)
	})

	handlers := server.Handlers{
		Health: handler.NewHealthHandler(time.Now().UTC()),
		Status: handler.NewStatusHandler(deps.Monitor, deps.Registry, handler.StatusInfo{
			Mode:    a.cfg.Mode,
			Symbol:  a.cfg.Token.Symbol,
			Address: a.cfg.Token.Address,
		}),
		Events:      handler.NewEventsHandler(deps.Monitor),
		Subscribers: handler.NewSubscribersHandler(deps.Registry),
	}

	srv := server.NewServer(server.Config{
		Port:            a.cfg.Server.Port,
		CORSOrigins:     a.cfg.Server.CORSOrigins,
		APIKey:          a.cfg.Server.APIKey,
		RateLimitPerMin: a.cfg.Server.RateLimitPerMin,
	}, handlers, hub, deps.RateLimiter, a.logger)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
}
