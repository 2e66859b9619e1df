package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tankscope/telemetry-service/internal/auth"
	"github.com/tankscope/telemetry-service/internal/database"
	"github.com/tankscope/telemetry-service/internal/models"
)

type tokenResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	ExpiresAt   time.Time          `json:"expires_at"`
	User        *models.PublicUser `json:"user"`
}

// Register handles POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Company  string `json:"company"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Username) < 3 {
		respondFieldError(w, "username must be at least 3 characters", "username")
		return
	}
	if len(req.Password) < 6 {
		respondFieldError(w, "password must be at least 6 characters", "password")
		return
	}
	if !strings.Contains(req.Email, "@") {
		respondFieldError(w, "email is not valid", "email")
		return
	}

	if _, err := h.users.GetUser(req.Username); err == nil {
		respondFieldError(w, "username is already taken", "username")
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusInternalServerError, "failed to check username")
		return
	}
	if _, err := h.users.GetUserByEmail(req.Email); err == nil {
		respondFieldError(w, "email is already registered", "email")
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusInternalServerError, "failed to check email")
		return
	}

	hash, salt, err := auth.HashPassword(req.Password, "")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	user := &models.User{
		Username:         req.Username,
		Email:            req.Email,
		FullName:         req.FullName,
		Company:          req.Company,
		PasswordHash:     hash,
		Salt:             salt,
		IsActive:         true,
		SubscriptionTier: models.TierFree,
	}
	if err := h.users.CreateUser(user); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	respondJSON(w, http.StatusCreated, user.Public())
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.GetUser(req.Username)
	if err != nil || !auth.VerifyPassword(req.Password, user.PasswordHash, user.Salt) {
		respondError(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	if !user.IsActive {
		respondError(w, http.StatusForbidden, "account is deactivated")
		return
	}

	token, expiresAt, err := h.auth.Issue(r.Context(), user.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        user.Public(),
	})
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		h.auth.Revoke(r.Context(), token)
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CurrentUser(r).Public())
}
