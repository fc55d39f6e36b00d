package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finflow/internal/amqp"
	"finflow/internal/dashboard"
	"finflow/internal/ports"
)

// Summarizer computes dashboards; services.LedgerService implements it.
type Summarizer interface {
	Dashboard(ctx context.Context, year, month int) (dashboard.Summary, error)
	Now() time.Time
}

// Config holds configuration for the summary worker
type Config struct {
	// ExportInterval is how often the current month is re-exported even
	// without change messages (default: 5m)
	ExportInterval time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{ExportInterval: 5 * time.Minute}
}

// SummaryWorker recomputes the current month dashboard and exports it,
// on every ledger change message and periodically as a backstop for lost
// messages.
type SummaryWorker struct {
	ledger   Summarizer
	exporter ports.SummaryExporter
	config   Config

	// exportMu serializes exports from the consumer and the ticker.
	exportMu sync.Mutex

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewSummaryWorker(ledger Summarizer, exporter ports.SummaryExporter, config Config) *SummaryWorker {
	if config.ExportInterval <= 0 {
		config.ExportInterval = DefaultConfig().ExportInterval
	}
	return &SummaryWorker{
		ledger:   ledger,
		exporter: exporter,
		config:   config,
	}
}

// HandleLedgerChanged processes a single ledger change message from AMQP
func (w *SummaryWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"entity", msg.Entity,
		"count", len(msg.IDs),
		"timestamp", msg.Timestamp)

	if err := w.ExportCurrentMonth(ctx); err != nil {
		return fmt.Errorf("export after %s change: %w", msg.Entity, err)
	}
	return nil
}

// ExportCurrentMonth computes and exports the dashboard of the month the
// ledger clock is in.
func (w *SummaryWorker) ExportCurrentMonth(ctx context.Context) error {
	w.exportMu.Lock()
	defer w.exportMu.Unlock()

	now := w.ledger.Now()
	summary, err := w.ledger.Dashboard(ctx, now.Year(), int(now.Month()))
	if err != nil {
		return fmt.Errorf("compute dashboard: %w", err)
	}

	if w.exporter == nil {
		slog.WarnContext(ctx, "No summary exporter configured, skipping export",
			"year", summary.Year, "month", summary.Month)
		return nil
	}

	if err := w.exporter.ExportSummary(ctx, summary); err != nil {
		return fmt.Errorf("export summary: %w", err)
	}

	slog.InfoContext(ctx, "Dashboard summary exported",
		"year", summary.Year,
		"month", summary.Month,
		"current_balance_cents", summary.CurrentBalance.Cents,
		"projected_balance_cents", summary.ProjectedBalance.Cents)
	return nil
}

// Start begins the periodic export loop. Returns an error if already running.
func (w *SummaryWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("summary worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.runLoop(ctx)

	slog.InfoContext(ctx, "Summary worker started", "export_interval", w.config.ExportInterval)
	return nil
}

// Stop gracefully stops the loop and waits for completion.
func (w *SummaryWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Summary worker stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Summary worker stop timed out")
		return ctx.Err()
	}

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	return nil
}

// IsRunning returns whether the periodic loop is currently running
func (w *SummaryWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *SummaryWorker) runLoop(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.config.ExportInterval)
	defer ticker.Stop()

	// Export immediately on startup
	w.exportLogged(ctx)

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.exportLogged(ctx)
		}
	}
}

func (w *SummaryWorker) exportLogged(ctx context.Context) {
	if err := w.ExportCurrentMonth(ctx); err != nil {
		slog.ErrorContext(ctx, "Periodic dashboard export failed", "error", err)
	}
}
