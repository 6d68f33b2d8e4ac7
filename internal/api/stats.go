package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"dockboard/pkg/ledger"
	"dockboard/pkg/tracker"
)

// StatsHandler serves provider and ledger statistics.
type StatsHandler struct {
	tracker *tracker.Tracker
	ledger  *ledger.Ledger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(t *tracker.Tracker, l *ledger.Ledger) *StatsHandler {
	return &StatsHandler{tracker: t, ledger: l}
}

// ProviderStatsDTO is the wire form of one provider's counters.
type ProviderStatsDTO struct {
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Successes   int64 `json:"successes"`
	Failures    int64 `json:"failures"`
	HitRate     int64 `json:"hit_rate"`
}

// StatsResponse is the full stats payload.
type StatsResponse struct {
	LedgerRecords int                         `json:"ledger_records"`
	Providers     map[string]ProviderStatsDTO `json:"providers"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshot := h.tracker.Snapshot()

	resp := StatsResponse{
		LedgerRecords: h.ledger.Len(),
		Providers:     make(map[string]ProviderStatsDTO),
	}

	for provider, stats := range snapshot {
		totalCache := stats.CacheHits + stats.CacheMisses
		hitRate := int64(0)
		if totalCache > 0 {
			hitRate = (stats.CacheHits * 100) / totalCache
		}
		resp.Providers[provider] = ProviderStatsDTO{
			CacheHits:   stats.CacheHits,
			CacheMisses: stats.CacheMisses,
			Successes:   stats.Successes,
			Failures:    stats.Failures,
			HitRate:     hitRate,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode stats response", "error", err)
	}
}
