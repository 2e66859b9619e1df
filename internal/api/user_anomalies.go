package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/tankscope/telemetry-service/internal/database"
	"github.com/tankscope/telemetry-service/internal/models"
)

// CreateUserAnomaly handles POST /api/user-anomalies
func (h *Handler) CreateUserAnomaly(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TankID    string      `json:"tank_id"`
		Timestamp time.Time   `json:"timestamp"`
		Level     json.Number `json:"level"`
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
	if req.Level == "" {
		respondFieldError(w, "level is required", "level")
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

	report := &models.UserAnomalyReport{
		TankID:    tankID,
		Timestamp: req.Timestamp.UTC(),
		Level:     level,
		Notes:     req.Notes,
	}
	if err := h.reports.CreateReport(report); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save report")
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishReportSubmitted(r.Context(), report); err != nil {
			log.Printf("Warning: failed to publish report event: %v", err)
		}
	}

	respondJSON(w, http.StatusCreated, report)
}

// ListUserAnomalies handles GET /api/user-anomalies
func (h *Handler) ListUserAnomalies(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidStatus(status) {
		respondFieldError(w, "status must be one of pending, confirmed, rejected", "status")
		return
	}

	reports, err := h.reports.ListReports(r.URL.Query().Get("tank_id"), status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load reports")
		return
	}

	respondJSON(w, http.StatusOK, reports)
}

// UpdateUserAnomalyStatus handles PUT /api/user-anomalies/{id}
func (h *Handler) UpdateUserAnomalyStatus(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	if !user.IsAdmin {
		respondError(w, http.StatusForbidden, "admin privileges required")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	status := r.URL.Query().Get("status")
	if status != models.StatusConfirmed && status != models.StatusRejected {
		respondFieldError(w, "status must be confirmed or rejected", "status")
		return
	}

	report, err := h.reports.TransitionReport(id, status)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			respondError(w, http.StatusNotFound, "report not found")
		case errors.Is(err, database.ErrInvalidTransition):
			respondError(w, http.StatusConflict, "report has already been reviewed")
		default:
			respondError(w, http.StatusInternalServerError, "failed to update report")
		}
		return
	}

	respondJSON(w, http.StatusOK, report)
}
