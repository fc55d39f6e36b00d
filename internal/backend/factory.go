package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finflow/internal/amqp"
	"finflow/internal/memory"
	"finflow/internal/ports"
	gsheet "finflow/internal/sheets/google"
	"finflow/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend opens the store and then the optional adapters. An adapter
// that fails to initialize is logged and left nil; the ledger works without it.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.openStore(config)
	if err != nil {
		return nil, err
	}
	result := &BackendResult{Store: store}
	closers := []func() error{store.Close}

	if ev := config.Events; ev != nil {
		client, err := amqp.NewClient(ev.URL, ev.Exchange, ev.Queue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client", "exchange", ev.Exchange, "queue", ev.Queue)
			result.Publisher = client
			closers = append(closers, client.Close)
		}
	}

	if ex := config.Export; ex != nil {
		exporter, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:      ex.SpreadsheetID,
			DashboardSheetName: ex.SheetName,
			ServiceAccountJSON: ex.CredentialsJSON,
			ServiceAccountFile: ex.CredentialsFile,
		})
		if err != nil {
			f.logger.Warn("Failed to initialize Google Sheets exporter, continuing without export", "error", err)
		} else {
			f.logger.Info("Initialized Google Sheets exporter", "sheet", ex.SheetName)
			result.Exporter = exporter
		}
	}

	// Adapters close before the store they were opened after.
	result.Cleanup = func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return result, nil
}

func (f *DefaultFactory) openStore(config Config) (ports.Store, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLitePath)
		return repo, nil

	case MemoryBackend:
		dir := config.SnapshotDir
		if dir == "" {
			dir = "data"
		}
		store, err := memory.NewFromDir(dir)
		if err != nil {
			return nil, fmt.Errorf("load memory backend: %w", err)
		}
		f.logger.Info("Initialized memory backend", "data_directory", dir)
		return store, nil
	}
	return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
}
