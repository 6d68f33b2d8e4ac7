package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"dockboard/pkg/feed"
	"dockboard/pkg/playback"
)

// BoardHandler serves the per-feed board snapshots and playback state.
type BoardHandler struct {
	boards *feed.Boards
	engine *playback.Engine
	queue  *playback.Queue
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(boards *feed.Boards, engine *playback.Engine, queue *playback.Queue) *BoardHandler {
	return &BoardHandler{boards: boards, engine: engine, queue: queue}
}

// HandleList handles GET /api/feeds
func (h *BoardHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.boards.All()); err != nil {
		slog.Error("Failed to encode feeds response", "error", err)
	}
}

// HandleFeed handles GET /api/feeds/{id}
func (h *BoardHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap, ok := h.boards.Get(id)
	if !ok {
		http.Error(w, "unknown feed", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		slog.Error("Failed to encode feed response", "error", err)
	}
}

// PlaybackStatusResponse reports the engine state for the monitor UI.
type PlaybackStatusResponse struct {
	State   string `json:"state"`
	EntryID string `json:"entryId,omitempty"`
	FeedID  string `json:"feedId,omitempty"`
	Queued  int    `json:"queued"`
}

// HandlePlayback handles GET /api/playback/status
func (h *BoardHandler) HandlePlayback(w http.ResponseWriter, r *http.Request) {
	state, current := h.engine.Status()
	resp := PlaybackStatusResponse{
		State:   state,
		EntryID: current.EntryID,
		FeedID:  current.FeedID,
		Queued:  h.queue.Len(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode playback response", "error", err)
	}
}
