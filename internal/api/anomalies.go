package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tankscope/telemetry-service/internal/models"
)

// GetAnomalies handles GET /api/anomalies
func (h *Handler) GetAnomalies(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	if !user.TierLimits().AnomalyDetection {
		respondJSON(w, http.StatusForbidden, map[string]string{
			"error":         "anomaly detection requires a Basic subscription or higher",
			"required_tier": models.TierBasic,
		})
		return
	}

	days, tankID := parseWindow(r, user)
	since := time.Now().UTC().AddDate(0, 0, -days)

	readings, err := h.readings.ListReadings(tankID, since)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load readings")
		return
	}

	respondJSON(w, http.StatusOK, h.detector.Detect(readings))
}

// MarkNormal handles POST /api/anomalies/mark-normal
func (h *Handler) MarkNormal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TankID    string      `json:"tank_id"`
		Timestamp time.Time   `json:"timestamp"`
		Level     json.Number `json:"level"`
		IsNormal  *bool       `json:"is_normal"`
		Notes     string      `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Timestamp.IsZero() {
		respondFieldError(w, "timestamp is required", "timestamp")
		return
	}
	level, err := req.Level.Float64()
	if err != nil {
		respondFieldError(w, "level must be a finite number", "level")
		return
	}

	tankID := req.TankID
	if tankID == "" {
		tankID = defaultTankID
	}
	isNormal := true
	if req.IsNormal != nil {
		isNormal = *req.IsNormal
	}

	mark := &models.NormalMark{
		TankID:    tankID,
		Timestamp: req.Timestamp.UTC(),
		Level:     level,
		IsNormal:  isNormal,
		Notes:     req.Notes,
	}
	if err := h.reports.CreateNormalMark(mark); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save annotation")
		return
	}

	respondJSON(w, http.StatusCreated, mark)
}
