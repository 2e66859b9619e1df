package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/tankscope/telemetry-service/internal/models"
)

// Producer publishes tank telemetry events
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a Kafka producer for the given topic
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{writer: writer}
}

// event is the envelope shared by all published messages
type event struct {
	EventType string      `json:"event_type"`
	Source    string      `json:"source"`
	Timestamp string      `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// PublishReadingAdded publishes an event after a reading is ingested
func (p *Producer) PublishReadingAdded(ctx context.Context, reading *models.Reading) error {
	return p.publish(ctx, reading.TankID, event{
		EventType: "READING_ADDED",
		Source:    "telemetry-service",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      reading,
	})
}

// PublishReportSubmitted publishes an event when a user reports a missed anomaly
func (p *Producer) PublishReportSubmitted(ctx context.Context, report *models.UserAnomalyReport) error {
	return p.publish(ctx, report.TankID, event{
		EventType: "USER_ANOMALY_REPORTED",
		Source:    "telemetry-service",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      report,
	})
}

func (p *Producer) publish(ctx context.Context, key string, evt event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", evt.EventType, err)
	}
	return nil
}

// Close closes the Kafka writer
func (p *Producer) Close() error {
	return p.writer.Close()
}
