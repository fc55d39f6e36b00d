package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"finflow/internal/config"
	applog "finflow/internal/log"
)

func TestSetupLogger_JSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := SetupLogger(&config.Config{LogLevel: "debug", LogFormat: "json"}, applog.ComponentCLI, &buf)
	logger.Debug("hello", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "hello" || rec["component"] != applog.ComponentCLI {
		t.Errorf("record = %v", rec)
	}
}

func TestSetupLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := SetupLogger(&config.Config{LogLevel: "chatty", LogFormat: "text"}, applog.ComponentWorker, &buf)
	if !strings.Contains(buf.String(), "Invalid log level") {
		t.Errorf("expected warning about the level, got %q", buf.String())
	}

	buf.Reset()
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug should be filtered at info level, got %q", buf.String())
	}
}

func TestInitBackend_Memory(t *testing.T) {
	logger := applog.New(applog.Config{Output: io.Discard})
	cfg := &config.Config{DataBackend: "memory", DataDirectory: t.TempDir()}

	res, err := InitBackend(context.Background(), logger, cfg)
	if err != nil {
		t.Fatalf("InitBackend() error = %v", err)
	}
	defer res.Cleanup()
	if res.Store == nil {
		t.Error("InitBackend() returned no store")
	}
}

func TestInitBackend_InvalidType(t *testing.T) {
	logger := applog.New(applog.Config{Output: io.Discard})
	if _, err := InitBackend(context.Background(), logger, &config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("InitBackend() should reject unknown backends")
	}
}
