package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/tankscope/telemetry-service/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

// CurrentUser returns the authenticated user attached by WithAuth, or
// nil for unauthenticated requests.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

// WithAuth wraps a handler with bearer token authentication. Missing,
// malformed, unknown or expired tokens get 401; deactivated accounts 403.
func (h *Handler) WithAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		username, err := h.auth.Resolve(r.Context(), token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, err := h.users.GetUser(username)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if !user.IsActive {
			respondError(w, http.StatusForbidden, "account is deactivated")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}
