package api

import (
	"log"
	"net/http"
	"time"

	"github.com/tankscope/telemetry-service/internal/stats"
)

// GetStats handles GET /api/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	days, tankID := parseWindow(r, CurrentUser(r))

	if h.cache != nil {
		if cached, err := h.cache.GetStatsSnapshot(r.Context(), tankID, days); err == nil && cached != nil {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	readings, err := h.readings.ListReadings(tankID, since)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load readings")
		return
	}

	snapshot := stats.Compute(tankID, readings)

	if h.cache != nil {
		if err := h.cache.SetStatsSnapshot(r.Context(), days, snapshot, statsCacheTTL); err != nil {
			log.Printf("Warning: failed to cache stats snapshot for %s: %v", tankID, err)
		}
	}

	respondJSON(w, http.StatusOK, snapshot)
}
