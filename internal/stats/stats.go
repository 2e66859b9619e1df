package stats

import (
	"math"

	"github.com/tankscope/telemetry-service/internal/models"
)

// Compute derives a StatsSnapshot from the readings of one tank. The
// readings may arrive in any order; the most recent one supplies
// current_level and last_updated. Standard deviation is population
// (divide by N), matching a dashboard reporting variability of a bounded
// physical quantity rather than estimating from a sample.
//
// An empty input yields a well-formed zero snapshot, not an error.
func Compute(tankID string, readings []*models.Reading) *models.StatsSnapshot {
	snapshot := &models.StatsSnapshot{TankID: tankID}
	if len(readings) == 0 {
		return snapshot
	}

	latest := readings[0]
	min := readings[0].Level
	max := readings[0].Level
	sum := 0.0

	for _, r := range readings {
		if r.Level < min {
			min = r.Level
		}
		if r.Level > max {
			max = r.Level
		}
		sum += r.Level
		if r.Timestamp.After(latest.Timestamp) {
			latest = r
		}
	}

	mean := sum / float64(len(readings))

	var varianceSum float64
	for _, r := range readings {
		diff := r.Level - mean
		varianceSum += diff * diff
	}
	variance := varianceSum / float64(len(readings))

	snapshot.CurrentLevel = latest.Level
	snapshot.LastUpdated = latest.Timestamp
	snapshot.MinLevel = min
	snapshot.MaxLevel = max
	snapshot.AvgLevel = mean
	snapshot.StdDev = math.Sqrt(variance)
	snapshot.Count = len(readings)
	return snapshot
}
