package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tankscope/telemetry-service/internal/models"
)

func readingsAt(levels []float64) []*models.Reading {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	readings := make([]*models.Reading, len(levels))
	for i, l := range levels {
		readings[i] = &models.Reading{
			TankID:    "tank1",
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Level:     l,
		}
	}
	return readings
}

func TestCompute_EmptyInput(t *testing.T) {
	snapshot := Compute("tank1", nil)

	require.NotNil(t, snapshot)
	assert.Equal(t, "tank1", snapshot.TankID)
	assert.Equal(t, 0, snapshot.Count)
	assert.Equal(t, 0.0, snapshot.AvgLevel)
	assert.Equal(t, 0.0, snapshot.StdDev)
	assert.True(t, snapshot.LastUpdated.IsZero())
}

func TestCompute_SingleReading(t *testing.T) {
	readings := readingsAt([]float64{42.5})
	snapshot := Compute("tank1", readings)

	assert.Equal(t, 1, snapshot.Count)
	assert.Equal(t, 42.5, snapshot.CurrentLevel)
	assert.Equal(t, 42.5, snapshot.MinLevel)
	assert.Equal(t, 42.5, snapshot.MaxLevel)
	assert.Equal(t, 42.5, snapshot.AvgLevel)
	assert.Equal(t, 0.0, snapshot.StdDev)
	assert.Equal(t, readings[0].Timestamp, snapshot.LastUpdated)
}

func TestCompute_KnownValues(t *testing.T) {
	snapshot := Compute("tank1", readingsAt([]float64{5.0, 5.1, 9.8, 5.05}))

	assert.Equal(t, 4, snapshot.Count)
	assert.Equal(t, 5.0, snapshot.MinLevel)
	assert.Equal(t, 9.8, snapshot.MaxLevel)
	assert.InDelta(t, 6.2375, snapshot.AvgLevel, 1e-9)
	// Last reading by timestamp supplies current_level
	assert.Equal(t, 5.05, snapshot.CurrentLevel)
	assert.Greater(t, snapshot.StdDev, 0.0)
}

func TestCompute_PopulationStdDev(t *testing.T) {
	// Population std dev of {2, 4, 4, 4, 5, 5, 7, 9} is exactly 2
	snapshot := Compute("tank1", readingsAt([]float64{2, 4, 4, 4, 5, 5, 7, 9}))

	assert.InDelta(t, 2.0, snapshot.StdDev, 1e-9)
	assert.InDelta(t, 5.0, snapshot.AvgLevel, 1e-9)
}

func TestCompute_Invariants(t *testing.T) {
	snapshot := Compute("tank1", readingsAt([]float64{12.2, 3.4, 8.8, 1.1, 19.9, 7.0}))

	assert.LessOrEqual(t, snapshot.MinLevel, snapshot.AvgLevel)
	assert.LessOrEqual(t, snapshot.AvgLevel, snapshot.MaxLevel)
	assert.GreaterOrEqual(t, snapshot.StdDev, 0.0)
	assert.False(t, math.IsNaN(snapshot.StdDev))
}

func TestCompute_UnorderedInput(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	readings := []*models.Reading{
		{TankID: "tank1", Timestamp: base.Add(2 * time.Hour), Level: 7.0},
		{TankID: "tank1", Timestamp: base, Level: 3.0},
		{TankID: "tank1", Timestamp: base.Add(time.Hour), Level: 5.0},
	}

	snapshot := Compute("tank1", readings)

	// current_level follows the newest timestamp, not input position
	assert.Equal(t, 7.0, snapshot.CurrentLevel)
	assert.Equal(t, base.Add(2*time.Hour), snapshot.LastUpdated)
}
