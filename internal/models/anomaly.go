package models

import "time"

// Report status values. A report starts pending and may move to exactly
// one of confirmed or rejected.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
)

// ValidStatus reports whether s is a known report status.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusRejected
}

// AnomalyRecord is a reading the detector flagged as statistically
// unusual. Its timestamp always matches a stored Reading for the tank.
type AnomalyRecord struct {
	TankID       string    `json:"tank_id"`
	Timestamp    time.Time `json:"timestamp"`
	Level        float64   `json:"level"`
	AnomalyScore float64   `json:"anomaly_score"`
}

// UserAnomalyReport is a user-submitted "the detector missed this" report.
type UserAnomalyReport struct {
	ID        int       `json:"id"`
	TankID    string    `json:"tank_id"`
	Timestamp time.Time `json:"timestamp"`
	Level     float64   `json:"level"`
	Notes     string    `json:"notes,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalMark records that a detector-flagged reading was reviewed by a
// user. IsNormal=true means the reviewer judged it a false positive; the
// underlying AnomalyRecord is never mutated or suppressed.
type NormalMark struct {
	ID        int       `json:"id"`
	TankID    string    `json:"tank_id"`
	Timestamp time.Time `json:"timestamp"`
	Level     float64   `json:"level"`
	IsNormal  bool      `json:"is_normal"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ModelFeedback aggregates user verdicts on detector output.
type ModelFeedback struct {
	TotalReportedAnomalies int     `json:"total_reported_anomalies"`
	ConfirmedAnomalies     int     `json:"confirmed_anomalies"`
	RejectedAnomalies      int     `json:"rejected_anomalies"`
	PendingAnomalies       int     `json:"pending_anomalies"`
	ModelAccuracy          float64 `json:"model_accuracy"`
	FalseNegativesRate     float64 `json:"false_negatives_rate"`
}
