package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"dockboard/pkg/audio"
	"dockboard/pkg/store"
)

// VolumeStateKey is the persisted key for the output volume.
const VolumeStateKey = "volume"

// AudioHandler handles audio control endpoints.
type AudioHandler struct {
	audio audio.Service
	store store.StateStore
}

// NewAudioHandler creates a new AudioHandler.
func NewAudioHandler(audioMgr audio.Service, st store.StateStore) *AudioHandler {
	return &AudioHandler{
		audio: audioMgr,
		store: st,
	}
}

// AudioVolumeRequest represents a volume change request.
type AudioVolumeRequest struct {
	Volume float64 `json:"volume"`
}

// AudioStatusResponse represents the audio status.
type AudioStatusResponse struct {
	IsPlaying bool    `json:"is_playing"`
	Volume    float64 `json:"volume"`
}

// HandleVolume handles POST /api/audio/volume
func (h *AudioHandler) HandleVolume(w http.ResponseWriter, r *http.Request) {
	var req AudioVolumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.audio.SetVolume(req.Volume)

	// Persist volume
	if h.store != nil {
		strVal := fmt.Sprintf("%.2f", req.Volume)
		if err := h.store.SetState(r.Context(), VolumeStateKey, strVal); err != nil {
			slog.Error("Failed to persist volume", "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// HandleStatus handles GET /api/audio/status
func (h *AudioHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	resp := AudioStatusResponse{
		IsPlaying: h.audio.IsPlaying(),
		Volume:    h.audio.Volume(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
