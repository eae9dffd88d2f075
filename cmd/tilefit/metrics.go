package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tilefit/tilefit/internal/config"
	"github.com/tilefit/tilefit/internal/metrics"
)

// setupMetrics starts the Prometheus exposition endpoint when enabled and
// returns the recorder to inject into the solver. The returned shutdown
// function stops the HTTP server.
func setupMetrics(cfg *config.Config) (metrics.Recorder, func()) {
	if !cfg.Metrics.Enabled {
		return metrics.NoopRecorder{}, func() {}
	}

	registry := metrics.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(registry))
	server := &http.Server{Addr: cfg.Metrics.Listen, Handler: mux}

	go func() {
		slog.Info("Serving metrics", "listen", cfg.Metrics.Listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()

	return recorder, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Metrics server shutdown failed", "error", err)
		}
	}
}
