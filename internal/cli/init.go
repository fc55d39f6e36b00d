// Package cli provides common CLI initialization utilities shared by
// cmd/finflow and cmd/finflow-worker.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finflow/internal/backend"
	"finflow/internal/config"
	applog "finflow/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from the configured level and
// format and installs it as the slog default. An unknown level falls back
// to info and is reported once the logger exists.
func SetupLogger(cfg *config.Config, component string, out io.Writer) *applog.Logger {
	lc := applog.DefaultConfig()
	lc.Component = component
	if out != nil {
		lc.Output = out
	}
	level, levelErr := applog.ParseLevel(cfg.LogLevel)
	lc.Level = level
	if applog.Format(cfg.LogFormat) == applog.FormatJSON {
		lc.Format = applog.FormatJSON
	}

	logger := applog.New(lc)
	applog.SetDefault(logger)
	if levelErr != nil {
		logger.Warn("Invalid log level, using info", "error", levelErr)
	}
	return logger
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitBackend opens the configured store and the optional outbound adapters.
func InitBackend(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("initialize %s backend: %w", bcfg.Type, err)
	}
	return res, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *slog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

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

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
