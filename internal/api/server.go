// Package api exposes the monitor HTTP API: board snapshots per feed,
// playback and audio state, provider statistics, and lifecycle control.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"dockboard/pkg/version"
)

// NewServer creates and configures the HTTP server.
// It accepts handlers for all API endpoints and a shutdownFunc for graceful shutdown.
func NewServer(addr string, boards *BoardHandler, cfg *ConfigHandler, stats *StatsHandler, audioH *AudioHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health Endpoint
	mux.HandleFunc("GET /health", handleHealth)

	// 2. Version Endpoint
	mux.HandleFunc("GET /api/version", handleVersion)

	// 3. Board Endpoints
	mux.HandleFunc("GET /api/feeds", boards.HandleList)
	mux.HandleFunc("GET /api/feeds/{id}", boards.HandleFeed)
	mux.HandleFunc("GET /api/playback/status", boards.HandlePlayback)

	// 4. Config Endpoint
	mux.HandleFunc("GET /api/config", cfg.HandleConfig)

	// 5. Stats Endpoint
	mux.Handle("GET /api/stats", stats)

	// 6. Logs Endpoint
	mux.HandleFunc("GET /api/log/latest", handleLatestLog)

	// 7. Audio Endpoints
	if audioH != nil {
		mux.HandleFunc("POST /api/audio/volume", audioH.HandleVolume)
		mux.HandleFunc("GET /api/audio/status", audioH.HandleStatus)
	}

	// 8. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
