package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/bookshelf/internal/catalog"
	"github.com/MrSnakeDoc/bookshelf/internal/config"
	"github.com/MrSnakeDoc/bookshelf/internal/httpserver"
	"github.com/MrSnakeDoc/bookshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookshelf/internal/logger"
	"github.com/MrSnakeDoc/bookshelf/internal/maintenance"
	"github.com/MrSnakeDoc/bookshelf/internal/shelf"
	"github.com/MrSnakeDoc/bookshelf/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	backend  *Backend
	shelf    *shelf.Service
	repairer *maintenance.Repairer
}

// New connects the store and wires the service, the repairer and the HTTP server.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	// Fail fast if the store is unavailable
	backend, err := OpenBackend(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	genres, err := catalog.Resolve(cfg.GenreFile)
	if err != nil {
		_ = backend.Close(ctx)
		return nil, fmt.Errorf("load genre catalog: %w", err)
	}
	loggerClient.Info("genre catalog loaded",
		logger.Int("genres", len(genres.Genres)),
		logger.String("file", cfg.GenreFile))

	svc := shelf.New(backend.Store, loggerClient.With(logger.String("component", "shelf")),
		shelf.WithDefaultGenre(genres.Other))

	repairer := maintenance.NewRepairer(
		backend.Store,
		svc.Locker(),
		loggerClient.With(logger.String("component", "repairer")),
		cfg.RepairInterval,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Build:        version.Get(),
		TimeNow:      time.Now,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		Backend:      backend.Name,
		Store:        backend.Store,
		PingTimeout:  cfg.PingTimeout,
		Shelf:        svc,
		Catalog:      genres,
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   httpserver.New(cfg, loggerClient, d),
		backend:  backend,
		shelf:    svc,
		repairer: repairer,
	}, nil
}

func (a *App) Run() error {
	build := version.Get()
	a.logger.Infof("🚀 Starting Bookshelf %s on %s", build.Version, a.cfg.ListenPort)
	a.logger.Infof("%s, store=%s", build, a.backend.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Repair stranded entries before the first request, then periodically
	if err := a.repairer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start repairer: %w", err)
	}
	a.logger.Info("repairer started",
		logger.Duration("interval", a.cfg.RepairInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.repairer.Stop()
		_ = a.backend.Close(context.Background())
		return err
	}

	a.repairer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := a.backend.Close(shutdownCtx); err != nil {
		a.logger.Warnf("failed to close %s: %v", a.backend.Name, err)
	} else {
		a.logger.Infof("✅ %s closed cleanly", a.backend.Name)
	}

	a.logger.Info("✅ Bookshelf stopped cleanly")
	return nil
}
