package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggerJSONIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Component: ComponentLedger, Output: &buf})

	logger.Info("hello", FieldCardID, "visa")
	logger.Debug("hidden")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected a single JSON record, got %q: %v", buf.String(), err)
	}
	if rec[FieldComponent] != ComponentLedger {
		t.Errorf("component = %v, want %v", rec[FieldComponent], ComponentLedger)
	}
	if rec[FieldCardID] != "visa" {
		t.Errorf("card_id = %v", rec[FieldCardID])
	}
}

func TestLevelMethodsTagComponent(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		log   func(*Logger)
		level string
	}{
		{"Info", func(l *Logger) { l.Info("m") }, "INFO"},
		{"InfoContext", func(l *Logger) { l.InfoContext(ctx, "m") }, "INFO"},
		{"Warn", func(l *Logger) { l.Warn("m") }, "WARN"},
		{"WarnContext", func(l *Logger) { l.WarnContext(ctx, "m") }, "WARN"},
		{"Error", func(l *Logger) { l.Error("m") }, "ERROR"},
		{"ErrorContext", func(l *Logger) { l.ErrorContext(ctx, "m") }, "ERROR"},
		{"Debug", func(l *Logger) { l.Debug("m") }, "DEBUG"},
		{"DebugContext", func(l *Logger) { l.DebugContext(ctx, "m") }, "DEBUG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: slog.LevelDebug, Format: FormatJSON, Component: ComponentWorker, Output: &buf})
			tt.log(logger)

			var rec map[string]any
			if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
				t.Fatalf("expected a single JSON record, got %q: %v", buf.String(), err)
			}
			if rec["level"] != tt.level {
				t.Errorf("level = %v, want %v", rec["level"], tt.level)
			}
			if rec[FieldComponent] != ComponentWorker {
				t.Errorf("component = %v, want %v", rec[FieldComponent], ComponentWorker)
			}
		})
	}
}

func TestWithComponentReplacesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Component: ComponentApp, Output: &buf}).WithComponent(ComponentWorker)

	logger.Warn("careful")

	if !strings.Contains(buf.String(), "component=worker") {
		t.Errorf("expected worker component in %q", buf.String())
	}
	if strings.Count(buf.String(), "component=") != 1 {
		t.Errorf("expected one component attribute in %q", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := New(Config{Component: ComponentCLI, Output: &bytes.Buffer{}})
	ctx := NewContext(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Errorf("FromContext returned a different logger")
	}
	if got := FromContext(context.Background()); got.Component() != "unknown" {
		t.Errorf("fallback component = %q", got.Component())
	}
}

func TestStructuredLoggerLogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Format: FormatJSON, Component: ComponentLedger, Output: &buf}))

	sl.LogError(context.Background(), "save failed", errors.New("disk full"), OpCreate, NewFields().WithAccount("acc-1"))

	out := buf.String()
	for _, want := range []string{`"error":"disk full"`, `"operation":"create"`, `"account_id":"acc-1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestLogFieldsToSlice(t *testing.T) {
	f := NewFields().WithPeriod(2026, 3).WithCount(2)
	if got := len(f.ToSlice()); got != 6 {
		t.Errorf("ToSlice() len = %d, want 6", got)
	}
}
