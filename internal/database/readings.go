package database

import (
	"fmt"
	"time"

	"github.com/tankscope/telemetry-service/internal/models"
)

// InsertReading stores a reading. An exact (tank_id, timestamp) collision
// is resolved last-write-wins so pollers can retry idempotently.
func (db *DB) InsertReading(r *models.Reading) error {
	query := `
		INSERT INTO tank_levels (tank_id, timestamp, level)
		VALUES ($1, $2, $3)
		ON CONFLICT (tank_id, timestamp)
		DO UPDATE SET level = EXCLUDED.level
	`
	_, err := db.conn.Exec(query, r.TankID, r.Timestamp, r.Level)
	if err != nil {
		return fmt.Errorf("failed to insert reading for %s: %w", r.TankID, err)
	}
	return nil
}

// ListReadings returns all readings for a tank with timestamp >= since,
// oldest first. An unknown tank yields an empty slice, not an error.
func (db *DB) ListReadings(tankID string, since time.Time) ([]*models.Reading, error) {
	query := `
		SELECT tank_id, timestamp, level
		FROM tank_levels
		WHERE tank_id = $1 AND timestamp >= $2
		ORDER BY timestamp ASC
	`
	rows, err := db.conn.Query(query, tankID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings for %s: %w", tankID, err)
	}
	defer rows.Close()

	readings := []*models.Reading{}
	for rows.Next() {
		var r models.Reading
		if err := rows.Scan(&r.TankID, &r.Timestamp, &r.Level); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, &r)
	}
	return readings, rows.Err()
}
