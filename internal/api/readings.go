package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/tankscope/telemetry-service/internal/models"
)

// parseWindow extracts days/tank_id query parameters, clamping the day
// window to what the caller's subscription tier allows.
func parseWindow(r *http.Request, user *models.User) (days int, tankID string) {
	days = 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}
	if max := user.TierLimits().MaxHistoryDays; days > max {
		days = max
	}

	tankID = r.URL.Query().Get("tank_id")
	if tankID == "" {
		tankID = defaultTankID
	}
	return days, tankID
}

// GetTankLevels handles GET /api/tank-levels
func (h *Handler) GetTankLevels(w http.ResponseWriter, r *http.Request) {
	days, tankID := parseWindow(r, CurrentUser(r))
	since := time.Now().UTC().AddDate(0, 0, -days)

	readings, err := h.readings.ListReadings(tankID, since)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load tank levels")
		return
	}

	respondJSON(w, http.StatusOK, readings)
}

// AddTankLevel handles POST /api/tank-levels
func (h *Handler) AddTankLevel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level  json.RawMessage `json:"level"`
		TankID string          `json:"tank_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Level) == 0 {
		respondFieldError(w, "level is required", "level")
		return
	}
	var level float64
	if err := json.Unmarshal(req.Level, &level); err != nil {
		respondFieldError(w, "level must be a finite number", "level")
		return
	}

	tankID := req.TankID
	if tankID == "" {
		tankID = defaultTankID
	}

	reading := &models.Reading{
		TankID:    tankID,
		Timestamp: time.Now().UTC(),
		Level:     level,
	}
	if err := h.readings.InsertReading(reading); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store reading")
		return
	}

	if h.cache != nil {
		if err := h.cache.InvalidateStats(r.Context(), tankID); err != nil {
			log.Printf("Warning: failed to invalidate stats cache for %s: %v", tankID, err)
		}
	}

	if h.producer != nil {
		if err := h.producer.PublishReadingAdded(r.Context(), reading); err != nil {
			log.Printf("Warning: failed to publish reading event: %v", err)
		}
	}

	if h.stream != nil {
		if err := h.stream.PublishReadingUpdate(r.Context(), reading); err != nil {
			log.Printf("Warning: failed to broadcast reading update: %v", err)
		}
	}

	respondJSON(w, http.StatusCreated, reading)
}
