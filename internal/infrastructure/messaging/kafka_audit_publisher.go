// Package messaging publishes committed audit entries to Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
)

// Producer is the part of *kafka.Writer the publisher needs
type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AuditEvent is the JSON payload of one audit message
type AuditEvent struct {
	TenantID   string    `json:"tenant_id"`
	UserID     *string   `json:"user_id,omitempty"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// KafkaAuditPublisher writes audit entries to a topic keyed by tenant,
// so one tenant's entries stay ordered within a partition.
type KafkaAuditPublisher struct {
	producer     Producer
	writeTimeout time.Duration
}

// NewKafkaAuditPublisher creates a publisher backed by a kafka-go writer
func NewKafkaAuditPublisher(cfg config.KafkaConfig) *KafkaAuditPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.AuditTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return NewKafkaAuditPublisherWithProducer(writer, cfg.WriteTimeout)
}

// NewKafkaAuditPublisherWithProducer creates a publisher over any producer
func NewKafkaAuditPublisherWithProducer(producer Producer, writeTimeout time.Duration) *KafkaAuditPublisher {
	return &KafkaAuditPublisher{producer: producer, writeTimeout: writeTimeout}
}

// Write publishes one entry
func (p *KafkaAuditPublisher) Write(ctx context.Context, entry shared.AuditEntry) error {
	payload, err := json.Marshal(NewAuditEvent(entry))
	if err != nil {
		return fmt.Errorf("failed to serialize audit event: %w", err)
	}

	if p.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.writeTimeout)
		defer cancel()
	}

	msg := kafka.Message{
		Key:   []byte(entry.TenantID.String()),
		Value: payload,
		Time:  entry.OccurredAt,
	}
	if err := p.producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish audit event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer
func (p *KafkaAuditPublisher) Close() error {
	return p.producer.Close()
}

// NewAuditEvent converts an entry to its wire form
func NewAuditEvent(entry shared.AuditEntry) AuditEvent {
	ev := AuditEvent{
		TenantID:   entry.TenantID.String(),
		Message:    entry.Message,
		OccurredAt: entry.OccurredAt.UTC(),
	}
	if entry.UserID != nil {
		s := entry.UserID.String()
		ev.UserID = &s
	}
	return ev
}
