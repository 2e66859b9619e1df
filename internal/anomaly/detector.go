package anomaly

import (
	"math"
	"sort"

	"github.com/tankscope/telemetry-service/internal/models"
)

// saturatedScore is reported when the trailing window has zero variance
// but the reading differs from the window mean. Such a reading is
// infinitely many deviations out, so it gets a fixed high score instead
// of dividing by zero.
const saturatedScore = 100.0

// Detector scores readings against a trailing window of their
// predecessors. Scoring is a pure function of the input readings, so the
// same data always produces the same flags.
type Detector struct {
	window     int
	minSamples int
	threshold  float64
}

// Config holds detector tuning parameters.
type Config struct {
	// Window is the maximum number of preceding readings used as the
	// baseline for each score.
	Window int
	// MinSamples is the minimum number of preceding readings required
	// before a reading can be flagged at all.
	MinSamples int
	// Threshold is the z-score a reading must exceed to be flagged.
	Threshold float64
}

// New creates a Detector. Zero or negative config fields fall back to
// the defaults (window 48, min samples 12, threshold 3.0).
func New(cfg Config) *Detector {
	d := &Detector{
		window:     cfg.Window,
		minSamples: cfg.MinSamples,
		threshold:  cfg.Threshold,
	}
	if d.window <= 0 {
		d.window = 48
	}
	if d.minSamples <= 0 {
		d.minSamples = 12
	}
	if d.minSamples < 2 {
		d.minSamples = 2
	}
	if d.threshold <= 0 {
		d.threshold = 3.0
	}
	return d
}

// Threshold returns the configured flagging threshold.
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// Detect returns the readings whose z-score against their trailing
// window exceeds the threshold, in timestamp order. Readings with fewer
// than MinSamples predecessors are never flagged. A reading equal to the
// trailing mean scores 0 and is never anomalous.
func (d *Detector) Detect(readings []*models.Reading) []*models.AnomalyRecord {
	ordered := make([]*models.Reading, len(readings))
	copy(ordered, readings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	anomalies := []*models.AnomalyRecord{}
	for i, r := range ordered {
		if i < d.minSamples {
			continue
		}
		start := i - d.window
		if start < 0 {
			start = 0
		}
		score := zScore(r.Level, ordered[start:i])
		if score > d.threshold {
			anomalies = append(anomalies, &models.AnomalyRecord{
				TankID:       r.TankID,
				Timestamp:    r.Timestamp,
				Level:        r.Level,
				AnomalyScore: score,
			})
		}
	}
	return anomalies
}

// zScore computes |level - mean| / stddev over the trailing window using
// the population standard deviation.
func zScore(level float64, window []*models.Reading) float64 {
	mean := 0.0
	for _, r := range window {
		mean += r.Level
	}
	mean /= float64(len(window))

	var varianceSum float64
	for _, r := range window {
		diff := r.Level - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(window)))

	if stdDev == 0 {
		if level == mean {
			return 0.0
		}
		return saturatedScore
	}
	return math.Abs(level-mean) / stdDev
}
