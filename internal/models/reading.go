package models

import "time"

// Reading is a single timestamped tank level sample.
type Reading struct {
	TankID    string    `json:"tank_id"`
	Timestamp time.Time `json:"timestamp"`
	Level     float64   `json:"level"`
}

// StatsSnapshot is a derived view over the readings of one tank within a
// day window. It is recomputed on demand and never persisted.
type StatsSnapshot struct {
	TankID       string    `json:"tank_id"`
	CurrentLevel float64   `json:"current_level"`
	MinLevel     float64   `json:"min_level"`
	MaxLevel     float64   `json:"max_level"`
	AvgLevel     float64   `json:"avg_level"`
	StdDev       float64   `json:"std_dev"`
	Count        int       `json:"count"`
	LastUpdated  time.Time `json:"last_updated"`
}

// ReadingEvent represents a Kafka message carrying a recorded tank level.
// Numeric fields arrive string-encoded from the telemetry pollers.
type ReadingEvent struct {
	EventType string           `json:"event_type"`
	Source    string           `json:"source"`
	Timestamp string           `json:"timestamp"`
	Data      ReadingEventData `json:"data"`
}

// ReadingEventData holds the payload of a reading event
type ReadingEventData struct {
	TankID     string `json:"tank_id"`
	Level      string `json:"level"`
	RecordedAt string `json:"recorded_at"`
}
