package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dailies/internal/services"
)

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "nested", "run.log")

	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("import started", String("source", "/cards/a001"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "import started") {
		t.Fatalf("expected message in log output, got %q", data)
	}
	if !strings.Contains(string(data), `"source":"/cards/a001"`) {
		t.Fatalf("expected attribute in log output, got %q", data)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var b strings.Builder
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&b, lvl))

	ctx := services.WithRunID(context.Background(), "run-123")
	ctx = services.WithPhase(ctx, "transcribe")
	ctx = services.WithAsset(ctx, "A001_0001.MP4")

	WithContext(ctx, logger).Info("asset queued")

	out := b.String()
	for _, want := range []string{"run_id=run-123", "phase=transcribe", "asset=A001_0001.MP4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output %q", want, out)
		}
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var b strings.Builder
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&b, lvl))

	logger.Warn("proxy skipped", String("reason", "already exists"))

	if !strings.Contains(b.String(), `reason="already exists"`) {
		t.Fatalf("expected quoted value, got %q", b.String())
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should report disabled at every level")
	}
}
