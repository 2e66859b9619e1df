package feedback

import "github.com/tankscope/telemetry-service/internal/models"

// Counts are the raw tallies the aggregate is computed from.
type Counts struct {
	// User report counts by status.
	Confirmed int
	Rejected  int
	Pending   int
	// Detector-flagged readings reviewed by users: upheld as anomalous
	// (mark-normal annotations with is_normal=false) and overturned as
	// normal (is_normal=true).
	ConfirmedDetectorHits int
	MarkedNormal          int
}

// Aggregate computes ModelFeedback from report and review tallies.
//
// model_accuracy is the share of reviewed detector flags that users
// upheld as genuinely anomalous. false_negatives_rate relates user
// reports (which the detector by definition missed) to the total
// ground-truth anomaly count. Both are percentages and both are 0,
// never NaN, when their denominator is 0.
func Aggregate(c Counts) *models.ModelFeedback {
	fb := &models.ModelFeedback{
		TotalReportedAnomalies: c.Confirmed + c.Rejected + c.Pending,
		ConfirmedAnomalies:     c.Confirmed,
		RejectedAnomalies:      c.Rejected,
		PendingAnomalies:       c.Pending,
	}

	if reviewed := c.ConfirmedDetectorHits + c.MarkedNormal; reviewed > 0 {
		fb.ModelAccuracy = float64(c.ConfirmedDetectorHits) / float64(reviewed) * 100.0
	}

	if groundTruth := c.ConfirmedDetectorHits + fb.TotalReportedAnomalies; groundTruth > 0 {
		fb.FalseNegativesRate = float64(fb.TotalReportedAnomalies) / float64(groundTruth) * 100.0
	}

	return fb
}
