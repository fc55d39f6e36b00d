package main

import (
	"context"
	"errors"
	"os"
	"time"

	"finflow/internal/amqp"
	"finflow/internal/backend"
	"finflow/internal/cli"
	applog "finflow/internal/log"
	"finflow/internal/services"
	"finflow/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		applog.New(applog.DefaultConfig()).Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	logger := cli.SetupLogger(cfg, applog.ComponentWorker, os.Stdout)
	logger.Info("Starting finflow-worker")

	// A memory store is private to its process and would never see the
	// CLI's writes; closing it would also overwrite the snapshot file.
	if cfg.DataBackend != backend.SQLiteBackend.String() {
		logger.Error("finflow-worker requires the sqlite backend", "data_backend", cfg.DataBackend)
		os.Exit(1)
	}

	res, err := cli.InitBackend(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err)
		os.Exit(1)
	}

	// The worker only reads the ledger, so it never publishes.
	ledger := services.NewLedgerService(res.Store, nil, services.WithLogger(logger))
	if res.Exporter == nil {
		logger.Warn("No dashboard exporter configured, summaries are computed but not exported")
	}
	summaryWorker := worker.NewSummaryWorker(ledger, res.Exporter, worker.Config{ExportInterval: cfg.ExportInterval})

	// The backend's AMQP client is the consumer here.
	consumer, _ := res.Publisher.(*amqp.Client)
	if consumer == nil {
		logger.Info("AMQP disabled, relying on the periodic export only")
	}

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := summaryWorker.Stop(stopCtx); err != nil {
			logger.Warn("Summary worker did not stop cleanly", "error", err)
		}
		if err := res.Cleanup(); err != nil {
			logger.Warn("Failed to close backend", "error", err)
		}
	})
	ctx = applog.NewContext(ctx, logger)

	if err := summaryWorker.Start(ctx); err != nil {
		logger.Error("Failed to start summary worker", "error", err)
		os.Exit(1)
	}

	if consumer != nil {
		go func() {
			err := consumer.ConsumeLedgerChanged(ctx, summaryWorker.HandleLedgerChanged)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
		}()
	}

	cli.WaitForShutdown(ctx, done)
}
