package backend

import (
	"context"

	"finflow/internal/ports"
)

// CleanupFunc releases everything a backend opened.
type CleanupFunc func() error

// BackendResult bundles the store with the optional outbound adapters.
// Publisher and Exporter are nil when their service is not configured.
type BackendResult struct {
	Store     ports.Store
	Publisher ports.EventPublisher
	Exporter  ports.SummaryExporter
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config selects the ledger store and the optional adapters around it.
// A nil Events or Export disables that adapter.
type Config struct {
	Type BackendType

	// SQLitePath is the database file of the sqlite store.
	SQLitePath string
	// SnapshotDir holds snapshot.json for the memory store.
	SnapshotDir string

	Events *EventsConfig
	Export *ExportConfig
}

// EventsConfig points at the broker receiving ledger-changed events.
type EventsConfig struct {
	URL      string
	Exchange string
	Queue    string
}

// ExportConfig points at the spreadsheet receiving monthly summaries.
type ExportConfig struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	return bt == SQLiteBackend || bt == MemoryBackend
}
