package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/coredoc/internal/config"
)

func TestRun_RequiresAPIKey(t *testing.T) {
	cfg := config.Default()
	cfg.APIKey = ""
	if err := Run(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatal("expected error without an api key")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.APIKey = "k"
	cfg.Port = "0"
	cfg.WorkerCount = 1

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "debug"
	log, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug logging to be enabled")
	}

	cfg.LogLevel = "loud"
	if _, err := NewLogger(cfg); err == nil {
		t.Error("expected error for unknown level")
	}
}
