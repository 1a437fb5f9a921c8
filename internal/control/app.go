// Package control wires the resilience core together and manages its
// lifecycle: history, executor, handler, sinks, file store and the
// diagnostics server.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/pressly/goose/v3"

	"github.com/blushlabs/resilience/internal/core/config"
	"github.com/blushlabs/resilience/internal/diag"
	"github.com/blushlabs/resilience/internal/infra/fsops"
	redisclient "github.com/blushlabs/resilience/internal/infra/redis"
	"github.com/blushlabs/resilience/internal/infra/storage"
	"github.com/blushlabs/resilience/internal/infra/storage/postgres"
	"github.com/blushlabs/resilience/internal/resilience/history"
	"github.com/blushlabs/resilience/internal/resilience/recovery"
)

// App is the composed service.
type App struct {
	cfg     *config.AppConfig
	handler *recovery.Handler
	store   *fsops.Store
	diag    *diag.Server
	db      *postgres.DB
	redis   *redisclient.Client
	log     *slog.Logger
}

// NewApp builds the service from configuration. The Redis journal and
// Postgres archive are optional; each is enabled by its URL being set.
func NewApp(cfg *config.AppConfig, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	hist := history.NewLog(cfg.History.Capacity)
	exec := recovery.NewExecutor(recovery.RetryConfig{
		MaxAttempts: cfg.Recovery.MaxAttempts,
		BaseDelay:   cfg.Recovery.BaseDelay,
		MaxDelay:    cfg.Recovery.MaxDelay,
	})

	app := &App{cfg: cfg, log: logger}
	var sinks []recovery.Sink
	var archive storage.ErrorArchive

	if cfg.Redis.URL != "" {
		rdb, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect journal: %w", err)
		}
		app.redis = rdb
		sinks = append(sinks, redisclient.NewJournal(rdb, 0))
		logger.Info("Redis error journal enabled")
	}

	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect archive: %w", err)
		}
		app.db = db

		// Run migrations
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate archive: %w", err)
		}

		repo := postgres.NewArchiveRepo(db)
		sinks = append(sinks, repo)
		archive = repo
		logger.Info("Postgres error archive enabled")
	}

	app.handler = recovery.NewHandler(hist, exec, logger, sinks...)

	if err := os.MkdirAll(cfg.Store.Root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store root: %w", err)
	}
	app.store = fsops.NewStore(cfg.Store.Root, app.handler)
	app.diag = diag.NewServer(app.handler, app.store, archive, cfg.Server.Port)

	return app, nil
}

// Handler exposes the operation wrapper to in-process callers.
func (a *App) Handler() *recovery.Handler {
	return a.handler
}

// Store exposes the file store to in-process callers.
func (a *App) Store() *fsops.Store {
	return a.store
}

// Start launches the diagnostics server.
func (a *App) Start(ctx context.Context) error {
	space := fsops.CheckDiskSpace(a.cfg.Store.Root, a.cfg.Store.MinFreeBytes)
	if !space.SufficientSpace {
		a.log.Warn("store volume is low on space",
			"path", space.Path,
			"available_bytes", space.AvailableBytes,
		)
	}

	go func() {
		a.log.Info("Diagnostics server listening", "port", a.cfg.Server.Port)
		if err := a.diag.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("Diagnostics server failed", "error", err)
		}
	}()
	return nil
}

// Stop shuts everything down gracefully.
func (a *App) Stop(ctx context.Context) error {
	if err := a.diag.Stop(ctx); err != nil {
		return err
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	return nil
}
