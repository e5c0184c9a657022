package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &recordingWriter{}
	publisher := &KafkaPublisher{writer: writer}
	event := domain.Event{
		Type:       domain.EventHandedOff,
		HandoffID:  uuid.New(),
		Reference:  "pay-1",
		GrandTotal: "630.00",
		ItemCount:  2,
		OccurredAt: time.Now().UTC(),
	}

	require.NoError(t, publisher.Publish(context.Background(), event))
	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, event.HandoffID.String(), string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "checkout.handed_off", string(msg.Headers[0].Value))

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.HandoffID, decoded.HandoffID)
	assert.Equal(t, "630.00", decoded.GrandTotal)

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	publisher := &KafkaPublisher{writer: &recordingWriter{err: boom}}
	err := publisher.Publish(context.Background(), domain.Event{Type: domain.EventRejected, HandoffID: uuid.New()})
	assert.ErrorIs(t, err, boom)
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher("")
	assert.Error(t, err)
}

func TestMemoryPublisher(t *testing.T) {
	publisher := NewMemoryPublisher()
	require.NoError(t, publisher.Publish(context.Background(), domain.Event{Type: domain.EventRejected}))
	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventRejected, events[0].Type)
}
