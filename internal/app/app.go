package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/yungbote/mathstep-backend/internal/http"
	"github.com/yungbote/mathstep-backend/internal/platform/dbctx"
	"github.com/yungbote/mathstep-backend/internal/platform/envutil"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
	"github.com/yungbote/mathstep-backend/internal/platform/observability"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *http.Server
	Router   *gin.Engine

	otelShutdown func(context.Context) error
	cron         *cron.Cron
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	if err := envutil.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)
	if cfg.LogMode != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.LogMode,
		Version:     cfg.Version,
	})

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	reposet := wireRepos(clients.DB, log)
	serviceset, err := wireServices(ctx, log, cfg, clients, reposet)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(log, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, handlerset, middleware)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Server:       server,
		Router:       server.Engine,
		otelShutdown: otelShutdown,
	}, nil
}

// Start schedules the periodic sweep of expired tokens.
func (a *App) Start() error {
	if a == nil || a.cron != nil {
		return nil
	}
	every := a.Cfg.TokenSweepEvery
	if every <= 0 {
		a.Log.Info("Token sweep disabled")
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc("@every "+every.String(), func() { a.sweepTokens(ctx) }); err != nil {
		cancel()
		return fmt.Errorf("schedule token sweep: %w", err)
	}
	c.Start()
	a.cron = c
	a.cancel = cancel
	a.Log.Info("Token sweep scheduled", "every", every.String())
	return nil
}

func (a *App) sweepTokens(ctx context.Context) {
	n, err := a.Repos.UserToken.FullDeleteExpired(dbctx.Context{Ctx: ctx}, time.Now())
	if err != nil {
		a.Log.Warn("Token sweep failed", "error", err)
		return
	}
	if n > 0 {
		a.Log.Info("Swept expired tokens", "count", n)
	}
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Listening", "addr", addr)
	return a.Server.Run(addr)
}

// Close stops the server and background work, then releases clients.
func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			a.Log.Warn("HTTP shutdown failed", "error", err)
		}
	}
	if a.cron != nil {
		a.cancel()
		<-a.cron.Stop().Done()
		a.cron = nil
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
