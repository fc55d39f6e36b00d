package log

import (
	"context"
	"log/slog"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the context, falling back to the
// process default.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogTransactionsCreated logs a write of one or more ledger entries.
func (sl *StructuredLogger) LogTransactionsCreated(ctx context.Context, accountID string, count int, totalCents int64) {
	fields := NewFields().
		WithAccount(accountID).
		WithCount(count).
		WithAmount(totalCents).
		WithOperation(OpCreate)

	sl.logger.InfoContext(ctx, "Transactions created", fields.ToSlice()...)
}

// LogInvoicePaid logs an invoice marked as paid.
func (sl *StructuredLogger) LogInvoicePaid(ctx context.Context, cardID string, year, month int, totalCents int64) {
	fields := NewFields().
		WithCard(cardID).
		WithPeriod(year, month).
		WithAmount(totalCents).
		WithOperation(OpPay)

	sl.logger.InfoContext(ctx, "Invoice paid", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation)

	sl.logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
