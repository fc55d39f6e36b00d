package backend

import (
	"errors"
	"fmt"

	"finflow/internal/config"
)

var (
	ErrNilConfig        = errors.New("app config is nil")
	ErrMissingDBPath    = errors.New("SQLite database path is required for sqlite backend")
	ErrIncompleteEvents = errors.New("AMQP exchange and queue are required when AMQP URL is set")
	ErrMissingCreds     = errors.New("service account credentials are required when a spreadsheet is configured")
)

// FromAppConfig maps the environment configuration onto a backend Config.
// Adapters whose address is empty are left disabled.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, ErrNilConfig
	}

	cfg := Config{
		Type:        BackendType(appConfig.DataBackend),
		SQLitePath:  appConfig.SQLiteDBPath,
		SnapshotDir: appConfig.DataDirectory,
	}
	if !cfg.Type.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	if appConfig.AMQPURL != "" {
		cfg.Events = &EventsConfig{
			URL:      appConfig.AMQPURL,
			Exchange: appConfig.AMQPExchange,
			Queue:    appConfig.AMQPQueue,
		}
	}
	if appConfig.SheetsEnabled() {
		cfg.Export = &ExportConfig{
			SpreadsheetID:   appConfig.GoogleSpreadsheetID,
			SheetName:       appConfig.DashboardSheetName,
			CredentialsJSON: appConfig.GoogleServiceAccountJSON,
			CredentialsFile: appConfig.GoogleServiceAccountFile,
		}
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.Type == SQLiteBackend && c.SQLitePath == "" {
		return ErrMissingDBPath
	}
	if e := c.Events; e != nil && (e.Exchange == "" || e.Queue == "") {
		return ErrIncompleteEvents
	}
	if x := c.Export; x != nil && x.CredentialsJSON == "" && x.CredentialsFile == "" {
		return ErrMissingCreds
	}
	return nil
}

// GetBackendTypes lists the supported stores.
func GetBackendTypes() []BackendType {
	return []BackendType{SQLiteBackend, MemoryBackend}
}

func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
