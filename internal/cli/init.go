// Package cli holds the process bootstrap shared by cmd/bizops and
// cmd/bizops-worker, and the bizops command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bizops/internal/backend"
	"bizops/internal/config"
	"bizops/internal/core"
	"bizops/internal/expense"
	"bizops/internal/log"
	"bizops/internal/services"
	"bizops/internal/storage/memory"
)

// SetupLogger builds the process logger at the given level and installs it
// as the slog default.
func SetupLogger(w io.Writer, level string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: log.ComponentApp,
		Output:    w,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// AppOptions override the collaborators OpenApp would otherwise build from
// the system. Zero values mean the defaults.
type AppOptions struct {
	Clock core.Clock
	IDs   core.IDGenerator
}

// OpenApp creates the configured backend, assembles the services on top of
// it and loads every store. The returned cleanup closes the backend.
func OpenApp(ctx context.Context, cfg *config.Config, logger *log.Logger, opts AppOptions) (*services.App, func() error, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create backend: %w", err)
	}
	seed, err := config.ParseWalletSeed(cfg.WalletSeed)
	if err != nil {
		_ = res.Cleanup()
		return nil, nil, err
	}

	app := services.NewApp(services.Deps{
		Repo:              res.Repo,
		Publisher:         res.Publisher,
		Clock:             opts.Clock,
		IDs:               opts.IDs,
		Logger:            logger,
		WalletSeed:        seed,
		ExpenseCategories: memory.ExpenseCategoriesFromDir(cfg.DataDir, expense.DefaultCategories),
		Location:          cfg.Location(),
		CacheSize:         cfg.CacheSize,
		CacheTTL:          cfg.CacheTTL,
	})
	if err := app.Load(ctx); err != nil {
		_ = res.Cleanup()
		return nil, nil, err
	}
	return app, res.Cleanup, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that is closed once cleanup has run.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup is done.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
