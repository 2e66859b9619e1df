package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/tankscope/telemetry-service/internal/models"
)

// ReadingRepository defines the interface for reading storage operations
type ReadingRepository interface {
	InsertReading(r *models.Reading) error
}

// ReadingsConsumer handles consuming tank level events from Kafka
type ReadingsConsumer struct {
	reader *kafka.Reader
	repo   ReadingRepository
}

// NewReadingsConsumer creates a new Kafka consumer for telemetry readings
func NewReadingsConsumer(brokers []string, topic, groupID string, repo ReadingRepository) *ReadingsConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID + "-readings",
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &ReadingsConsumer{
		reader: reader,
		repo:   repo,
	}
}

// Start begins consuming messages from Kafka
func (c *ReadingsConsumer) Start(ctx context.Context) error {
	log.Printf("Starting readings consumer for topic: %s", c.reader.Config().Topic)

	for {
		select {
		case <-ctx.Done():
			log.Println("Readings consumer shutting down...")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				log.Printf("Error reading telemetry message: %v", err)
				continue
			}

			if err := c.processMessage(msg); err != nil {
				log.Printf("Error processing telemetry message: %v", err)
				// Continue processing other messages
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *ReadingsConsumer) processMessage(msg kafka.Message) error {
	var evt models.ReadingEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return fmt.Errorf("failed to unmarshal reading event: %w", err)
	}

	// Only process TANK_LEVEL_RECORDED events
	if evt.EventType != "TANK_LEVEL_RECORDED" {
		log.Printf("Ignoring event type: %s", evt.EventType)
		return nil
	}

	reading, err := c.convertEventData(evt.Data)
	if err != nil {
		return fmt.Errorf("failed to convert reading event: %w", err)
	}

	if err := c.repo.InsertReading(reading); err != nil {
		return fmt.Errorf("failed to store reading for %s: %w", reading.TankID, err)
	}

	log.Printf("Stored reading from %s: %s = %.3f at %s",
		evt.Source, reading.TankID, reading.Level, reading.Timestamp.Format(time.RFC3339))
	return nil
}

// convertEventData converts Kafka reading data to a Reading model.
// Pollers encode levels as strings to avoid float formatting drift.
func (c *ReadingsConsumer) convertEventData(data models.ReadingEventData) (*models.Reading, error) {
	if data.TankID == "" {
		return nil, fmt.Errorf("missing tank_id")
	}

	level, err := decimal.NewFromString(data.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid level %q: %w", data.Level, err)
	}

	recordedAt := time.Now().UTC()
	if data.RecordedAt != "" {
		parsed, err := time.Parse(time.RFC3339, data.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid recorded_at %q: %w", data.RecordedAt, err)
		}
		recordedAt = parsed.UTC()
	}

	levelFloat, _ := level.Float64()
	return &models.Reading{
		TankID:    data.TankID,
		Timestamp: recordedAt,
		Level:     levelFloat,
	}, nil
}

// Close closes the Kafka consumer
func (c *ReadingsConsumer) Close() error {
	return c.reader.Close()
}
