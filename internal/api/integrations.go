package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/tankscope/telemetry-service/internal/database"
	"github.com/tankscope/telemetry-service/internal/models"
)

// loadOwnedIntegration fetches an integration and enforces ownership.
// Admins may access any connection.
func (h *Handler) loadOwnedIntegration(w http.ResponseWriter, r *http.Request) *models.IntegrationConnection {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid integration id")
		return nil
	}

	conn, err := h.integrations.GetIntegration(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "integration not found")
		} else {
			respondError(w, http.StatusInternalServerError, "failed to load integration")
		}
		return nil
	}

	user := CurrentUser(r)
	if conn.UserID != user.Username && !user.IsAdmin {
		respondError(w, http.StatusForbidden, "not your integration")
		return nil
	}
	return conn
}

// ListIntegrations handles GET /api/integrations
func (h *Handler) ListIntegrations(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	conns, err := h.integrations.ListIntegrations(user.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load integrations")
		return
	}

	for _, c := range conns {
		c.MaskSecrets()
	}
	respondJSON(w, http.StatusOK, conns)
}

// CreateIntegration handles POST /api/integrations
func (h *Handler) CreateIntegration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind     string          `json:"kind"`
		Name     string          `json:"name"`
		Enabled  *bool           `json:"enabled"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondFieldError(w, "name is required", "name")
		return
	}

	conn := &models.IntegrationConnection{
		UserID:   CurrentUser(r).Username,
		Kind:     req.Kind,
		Name:     req.Name,
		Enabled:  req.Enabled == nil || *req.Enabled,
		Settings: req.Settings,
	}
	if err := conn.ValidateSettings(); err != nil {
		respondFieldError(w, err.Error(), "settings")
		return
	}

	if err := h.integrations.CreateIntegration(conn); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save integration")
		return
	}

	conn.MaskSecrets()
	respondJSON(w, http.StatusCreated, conn)
}

// GetIntegrationByID handles GET /api/integrations/{id}
func (h *Handler) GetIntegrationByID(w http.ResponseWriter, r *http.Request) {
	conn := h.loadOwnedIntegration(w, r)
	if conn == nil {
		return
	}
	conn.MaskSecrets()
	respondJSON(w, http.StatusOK, conn)
}

// UpdateIntegration handles PUT /api/integrations/{id}
func (h *Handler) UpdateIntegration(w http.ResponseWriter, r *http.Request) {
	conn := h.loadOwnedIntegration(w, r)
	if conn == nil {
		return
	}

	var req struct {
		Name     *string         `json:"name"`
		Enabled  *bool           `json:"enabled"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			respondFieldError(w, "name is required", "name")
			return
		}
		conn.Name = *req.Name
	}
	if req.Enabled != nil {
		conn.Enabled = *req.Enabled
	}
	if len(req.Settings) > 0 {
		conn.Settings = req.Settings
		if err := conn.ValidateSettings(); err != nil {
			respondFieldError(w, err.Error(), "settings")
			return
		}
	}

	if err := h.integrations.UpdateIntegration(conn); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update integration")
		return
	}

	conn.MaskSecrets()
	respondJSON(w, http.StatusOK, conn)
}

// DeleteIntegration handles DELETE /api/integrations/{id}
func (h *Handler) DeleteIntegration(w http.ResponseWriter, r *http.Request) {
	conn := h.loadOwnedIntegration(w, r)
	if conn == nil {
		return
	}

	if err := h.integrations.DeleteIntegration(conn.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete integration")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "integration deleted"})
}
