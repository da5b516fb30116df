// Package service wires the HTTP server to the processing pipeline.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dgallion1/coredoc/internal/api"
	"github.com/dgallion1/coredoc/internal/config"
	"github.com/dgallion1/coredoc/internal/pipeline"
	"github.com/dgallion1/coredoc/internal/store"
)

const shutdownTimeout = 10 * time.Second

// Run serves the API until ctx is cancelled, then drains the workers and
// shuts the HTTP server down.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	proc, err := pipeline.FromConfig(cfg)
	if err != nil {
		return err
	}
	docs := store.New(cfg.DocumentTTL)

	orch := pipeline.NewOrchestrator(cfg, proc, docs, log)
	orch.Start(ctx)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewServer(orch, docs, log, cfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting coredoc", "port", cfg.Port, "workers", cfg.WorkerCount)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		orch.Stop()
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = httpServer.Shutdown(shutdownCtx)
	orch.Stop()
	return err
}

// NewLogger returns the JSON logger used by the server at the configured
// level.
func NewLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})), nil
}
