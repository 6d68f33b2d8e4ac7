package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"dockboard/pkg/config"
)

// ConfigHandler serves the effective static configuration.
type ConfigHandler struct {
	cfg *config.Config
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// ConfigResponse is the subset of the configuration exposed to the monitor.
type ConfigResponse struct {
	Server  config.ServerConfig  `json:"server"`
	Sources config.SourcesConfig `json:"sources"`
	Feeds   []config.FeedConfig  `json:"feeds"`
	TTS     string               `json:"tts_engine"`
	Voice   string               `json:"tts_voice"`
}

// HandleConfig handles GET /api/config
func (h *ConfigHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	resp := ConfigResponse{
		Server:  h.cfg.Server,
		Sources: h.cfg.Sources,
		Feeds:   h.cfg.Feeds,
		TTS:     h.cfg.TTS.Engine,
		Voice:   h.cfg.TTS.EdgeTTS.VoiceID,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode config response", "error", err)
	}
}
