package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/brandstorm-backend/internal/data/db"
	server "github.com/yungbote/brandstorm-backend/internal/http"
	"github.com/yungbote/brandstorm-backend/internal/observability"
	"github.com/yungbote/brandstorm-backend/internal/pkg/dbctx"
	"github.com/yungbote/brandstorm-backend/internal/platform/envutil"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
	"github.com/yungbote/brandstorm-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *server.Server
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	SSEHub   *realtime.SSEHub
	Metrics  *observability.Metrics

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// NewLogger builds the process logger from LOG_MODE.
func NewLogger() (*logger.Logger, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development", nil))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// OpenStore connects to the configured database and migrates the schema.
func OpenStore(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	theDB, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("init %s: %w", cfg.DB.Driver, err)
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		_ = db.Close(theDB)
		return nil, fmt.Errorf("%s automigrate: %w", cfg.DB.Driver, err)
	}
	return theDB, nil
}

func New(ctx context.Context) (*App, error) {
	log, err := NewLogger()
	if err != nil {
		return nil, err
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.NewMetrics()

	theDB, err := OpenStore(log, cfg)
	if err != nil {
		_ = otelShutdown(ctx)
		log.Sync()
		return nil, err
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = db.Close(theDB)
		_ = otelShutdown(ctx)
		log.Sync()
		return nil, err
	}

	hub := realtime.NewSSEHub(log, realtime.WithMetrics(metrics), realtime.WithBuffer(cfg.SSEBuffer))
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, hub, clients, metrics)
	handlerset := wireHandlers(theDB, log, cfg, serviceset, hub)
	srv := wireServer(log, cfg, handlerset, metrics)
	srv.OnShutdown(hub.CloseAll)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       srv,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		SSEHub:       hub,
		Metrics:      metrics,
		otelShutdown: otelShutdown,
	}, nil
}

// Start repairs drifted counters and attaches the Redis forwarder, if any.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.Cfg.ReconcileOnBoot {
		if _, err := a.Services.Suggestion.Reconcile(dbctx.Context{Ctx: ctx}); err != nil {
			return fmt.Errorf("startup reconcile: %w", err)
		}
	}

	if a.Clients.SSEBus != nil {
		if err := a.Clients.SSEBus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
			return fmt.Errorf("start SSE forwarder: %w", err)
		}
		a.Log.Info("Redis SSE forwarder started", "channel", a.Cfg.Redis.Channel)
	}
	return nil
}

// Run serves HTTP until ctx ends or the process is signalled, then shuts
// the server down within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if err := a.Start(ctx); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	eg, groupCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return a.Server.Run(":" + a.Cfg.Port)
	})

	eg.Go(func() error {
		select {
		case <-groupCtx.Done():
		case s := <-sig:
			a.Log.Info("Shutdown signal received", "signal", s.String())
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			a.Log.Error("Server shutdown failed", "error", err)
			return err
		}
		return nil
	})

	err := eg.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Log.Error("Server stopped with error", "error", err)
		return err
	}
	a.Log.Info("Server exiting")
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.SSEHub != nil {
		a.SSEHub.CloseAll()
	}
	a.Clients.Close()
	if a.DB != nil {
		if err := db.Close(a.DB); err != nil && a.Log != nil {
			a.Log.Warn("Closing database failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil && a.Log != nil {
			a.Log.Warn("Tracer shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
