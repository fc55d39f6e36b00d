// Package ports declares the persistence and outbound interfaces the ledger
// services depend on. Stores only keep source records; invoices, balances
// and summaries are always derived from them.
package ports

import (
	"context"
	"errors"

	"finflow/internal/categories"
	"finflow/internal/core"
	"finflow/internal/dashboard"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Persistence ports.
type (
	AccountStore interface {
		ListAccounts(ctx context.Context) ([]core.Account, error)
		GetAccount(ctx context.Context, id string) (core.Account, error)
		SaveAccount(ctx context.Context, a core.Account) error
	}

	TransactionStore interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		// SaveTransactions inserts or replaces all of txns atomically.
		SaveTransactions(ctx context.Context, txns ...core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
	}

	CardStore interface {
		ListCards(ctx context.Context) ([]core.CreditCard, error)
		GetCard(ctx context.Context, id string) (core.CreditCard, error)
		SaveCard(ctx context.Context, c core.CreditCard) error
	}

	CardTransactionStore interface {
		ListCardTransactions(ctx context.Context) ([]core.CardTransaction, error)
		SaveCardTransactions(ctx context.Context, txns ...core.CardTransaction) error
	}

	// InvoicePaymentStore records which invoices were explicitly paid.
	InvoicePaymentStore interface {
		ListPaidInvoices(ctx context.Context) ([]core.InvoiceKey, error)
		MarkInvoicePaid(ctx context.Context, key core.InvoiceKey) error
		// RecordInvoicePayment saves payment and marks key paid as one unit.
		RecordInvoicePayment(ctx context.Context, key core.InvoiceKey, payment core.Transaction) error
	}

	// Store is everything a ledger backend has to persist.
	Store interface {
		AccountStore
		TransactionStore
		CardStore
		CardTransactionStore
		InvoicePaymentStore
		categories.Repository
		Close() error
	}
)

// Outbound ports.
type (
	// SummaryExporter publishes a computed dashboard somewhere outside the process.
	SummaryExporter interface {
		ExportSummary(ctx context.Context, s dashboard.Summary) error
	}

	// EventPublisher announces that source records changed.
	EventPublisher interface {
		PublishLedgerChanged(ctx context.Context, entity string, ids []string) error
	}
)
