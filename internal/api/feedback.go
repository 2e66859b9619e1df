package api

import (
	"net/http"

	"github.com/tankscope/telemetry-service/internal/feedback"
)

// GetModelFeedback handles GET /api/model-feedback
func (h *Handler) GetModelFeedback(w http.ResponseWriter, r *http.Request) {
	confirmed, rejected, pending, err := h.reports.CountReportsByStatus()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load report counts")
		return
	}

	upheld, err := h.reports.CountNormalMarks(false)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load review counts")
		return
	}
	markedNormal, err := h.reports.CountNormalMarks(true)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load review counts")
		return
	}

	respondJSON(w, http.StatusOK, feedback.Aggregate(feedback.Counts{
		Confirmed:             confirmed,
		Rejected:              rejected,
		Pending:               pending,
		ConfirmedDetectorHits: upheld,
		MarkedNormal:          markedNormal,
	}))
}
