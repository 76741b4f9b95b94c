package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	messages []kafka.Message
	err      error
	closed   bool
	deadline bool
}

func (f *fakeProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeProducer) Close() error {
	f.closed = true
	return nil
}

func TestKafkaAuditPublisher_Write(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()
	occurred := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entry := shared.AuditEntry{
		TenantID:   tenantID,
		UserID:     &userID,
		Message:    "Inventory item created: Milk",
		OccurredAt: occurred,
	}

	t.Run("publishes one message keyed by tenant", func(t *testing.T) {
		producer := &fakeProducer{}
		pub := NewKafkaAuditPublisherWithProducer(producer, time.Second)

		require.NoError(t, pub.Write(context.Background(), entry))
		require.Len(t, producer.messages, 1)

		msg := producer.messages[0]
		assert.Equal(t, tenantID.String(), string(msg.Key))
		assert.True(t, producer.deadline)

		var ev AuditEvent
		require.NoError(t, json.Unmarshal(msg.Value, &ev))
		assert.Equal(t, tenantID.String(), ev.TenantID)
		require.NotNil(t, ev.UserID)
		assert.Equal(t, userID.String(), *ev.UserID)
		assert.Equal(t, "Inventory item created: Milk", ev.Message)
		assert.True(t, occurred.Equal(ev.OccurredAt))
	})

	t.Run("omits user for system entries", func(t *testing.T) {
		producer := &fakeProducer{}
		pub := NewKafkaAuditPublisherWithProducer(producer, 0)

		sys := entry
		sys.UserID = nil
		require.NoError(t, pub.Write(context.Background(), sys))
		assert.False(t, producer.deadline)
		assert.NotContains(t, string(producer.messages[0].Value), "user_id")
	})

	t.Run("wraps producer errors", func(t *testing.T) {
		producer := &fakeProducer{err: errors.New("broker down")}
		pub := NewKafkaAuditPublisherWithProducer(producer, time.Second)

		err := pub.Write(context.Background(), entry)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broker down")
	})

	t.Run("close closes the producer", func(t *testing.T) {
		producer := &fakeProducer{}
		pub := NewKafkaAuditPublisherWithProducer(producer, time.Second)

		require.NoError(t, pub.Close())
		assert.True(t, producer.closed)
	})
}
