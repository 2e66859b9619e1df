package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tankscope/telemetry-service/internal/models"
)

// GetSubscriptionTiers handles GET /api/subscription/tiers
func (h *Handler) GetSubscriptionTiers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.SubscriptionTiers)
}

// UpgradeSubscription handles POST /api/subscription/upgrade
func (h *Handler) UpgradeSubscription(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	var req struct {
		Tier   string `json:"tier"`
		Yearly bool   `json:"yearly"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !models.ValidTier(req.Tier) {
		respondFieldError(w, "tier must be one of free, basic, premium", "tier")
		return
	}

	var expires *time.Time
	if req.Tier != models.TierFree {
		period := time.Now().UTC().AddDate(0, 1, 0)
		if req.Yearly {
			period = time.Now().UTC().AddDate(1, 0, 0)
		}
		expires = &period
	}

	if err := h.users.UpdateSubscription(user.Username, req.Tier, expires); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update subscription")
		return
	}

	user.SubscriptionTier = req.Tier
	user.SubscriptionExpires = expires
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":   user.Public(),
		"limits": user.TierLimits(),
	})
}
