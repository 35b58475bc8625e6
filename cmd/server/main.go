package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Clark-Hu/game-reviews/internal/catalog"
	"github.com/Clark-Hu/game-reviews/internal/config"
	httpserver "github.com/Clark-Hu/game-reviews/internal/http"
	"github.com/Clark-Hu/game-reviews/internal/logger"
	"github.com/Clark-Hu/game-reviews/internal/repository"
	"github.com/Clark-Hu/game-reviews/internal/session"
	"github.com/Clark-Hu/game-reviews/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped gracefully")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if cfg.DBAutoMigrate {
		if err := store.Migrate(cfg.DBURL, cfg.DBMigrationsDir, log); err != nil {
			return err
		}
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 log,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		return err
	}
	defer st.Close()

	catalogClient, err := catalog.NewHTTPClient(catalog.Options{
		BaseURL:     cfg.CatalogURL,
		ClientID:    cfg.CatalogClientID,
		AccessToken: cfg.CatalogAccessToken,
		Timeout:     time.Duration(cfg.CatalogTimeoutSecs) * time.Second,
		Logger:      log,
	})
	if err != nil {
		return err
	}

	identity, err := newIdentityProvider(cfg, log)
	if err != nil {
		return err
	}

	views, err := httpserver.NewTemplateRenderer()
	if err != nil {
		return err
	}

	repo := repository.New(st, repository.WithPasswordCost(cfg.PasswordHashCost))
	server := httpserver.New(cfg, httpserver.Deps{
		Store:    st,
		Repo:     repo,
		Catalog:  catalogClient,
		Identity: identity,
		Views:    views,
		Logger:   log,
	})

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	var runErr error
	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn("graceful shutdown error", "error", err)
	}
	return runErr
}

// newIdentityProvider signs identity cookies whenever a secret is configured.
func newIdentityProvider(cfg config.Config, log *slog.Logger) (session.Provider, error) {
	maxAge := time.Duration(cfg.SessionMaxAgeSecs) * time.Second
	if cfg.SessionSecret == "" {
		log.Warn("SESSION_SECRET not set; identity cookies are unsigned")
		return session.NewCookieProvider(maxAge), nil
	}
	return session.NewSignedProvider(cfg.SessionSecret, maxAge)
}
