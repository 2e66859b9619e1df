package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_ZeroCounts(t *testing.T) {
	fb := Aggregate(Counts{})

	assert.Equal(t, 0, fb.TotalReportedAnomalies)
	// Zero denominators yield 0, never NaN
	assert.Equal(t, 0.0, fb.ModelAccuracy)
	assert.Equal(t, 0.0, fb.FalseNegativesRate)
}

func TestAggregate_OnlyPendingReports(t *testing.T) {
	fb := Aggregate(Counts{Pending: 3})

	assert.Equal(t, 3, fb.TotalReportedAnomalies)
	assert.Equal(t, 3, fb.PendingAnomalies)
	// No reviewed detector flags yet, so accuracy stays 0
	assert.Equal(t, 0.0, fb.ModelAccuracy)
	assert.Equal(t, 100.0, fb.FalseNegativesRate)
}

func TestAggregate_ReportCountsByStatus(t *testing.T) {
	fb := Aggregate(Counts{Confirmed: 3, Rejected: 1, Pending: 2})

	assert.Equal(t, 6, fb.TotalReportedAnomalies)
	assert.Equal(t, 3, fb.ConfirmedAnomalies)
	assert.Equal(t, 1, fb.RejectedAnomalies)
	assert.Equal(t, 2, fb.PendingAnomalies)
}

func TestAggregate_Accuracy(t *testing.T) {
	// 3 detector flags upheld on review, 1 overturned as normal
	fb := Aggregate(Counts{ConfirmedDetectorHits: 3, MarkedNormal: 1})

	assert.InDelta(t, 75.0, fb.ModelAccuracy, 1e-9)
}

func TestAggregate_AccuracyIgnoresUserReports(t *testing.T) {
	// Accuracy measures user verdicts on detector output. User reports
	// are readings the detector missed, so piling them up must not move
	// the accuracy in either direction.
	reviews := Counts{ConfirmedDetectorHits: 8, MarkedNormal: 2}
	base := Aggregate(reviews)

	withMisses := reviews
	withMisses.Confirmed = 1
	withMisses.Rejected = 9

	assert.Equal(t, base.ModelAccuracy, Aggregate(withMisses).ModelAccuracy)
	assert.InDelta(t, 80.0, base.ModelAccuracy, 1e-9)
}

func TestAggregate_FalseNegativesRate(t *testing.T) {
	// 2 user reports against 6 detector hits upheld on review:
	// the detector missed 2 of 8 known anomalies
	fb := Aggregate(Counts{Confirmed: 1, Pending: 1, ConfirmedDetectorHits: 6})

	assert.Equal(t, 2, fb.TotalReportedAnomalies)
	assert.InDelta(t, 25.0, fb.FalseNegativesRate, 1e-9)
}

func TestAggregate_DetectorHitsOnly(t *testing.T) {
	// Every reviewed flag upheld, no user reports: a clean detector
	fb := Aggregate(Counts{ConfirmedDetectorHits: 5})

	assert.Equal(t, 0, fb.TotalReportedAnomalies)
	assert.Equal(t, 100.0, fb.ModelAccuracy)
	assert.Equal(t, 0.0, fb.FalseNegativesRate)
}

func TestAggregate_AllFlagsOverturned(t *testing.T) {
	fb := Aggregate(Counts{MarkedNormal: 4})

	assert.Equal(t, 0.0, fb.ModelAccuracy)
	assert.Equal(t, 0.0, fb.FalseNegativesRate)
}
