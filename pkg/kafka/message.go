package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is a Kafka message with the metadata headers every tutorly
// service stamps on its events.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
}

// Header keys shared across services.
const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderCorrelationID = "correlation-id"
	HeaderSource        = "source"
	HeaderTimestamp     = "timestamp"
	HeaderRetryCount    = "retry-count"
	HeaderOriginalTopic = "original-topic"
)

// Event types published by the bookings service.
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// Topics.
const (
	TopicBookingEvents    = "tutorly.booking-events"
	TopicBookingEventsDLQ = "tutorly.booking-events.dlq"
)

// NewEventMessage builds a message for a domain event, JSON-encoding the
// payload and stamping standard headers. Key selects the partition; use
// the teacher id so one teacher's events stay ordered.
func NewEventMessage(eventType, source, key string, payload any) (Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}

	return Message{
		Key:   key,
		Value: value,
		Headers: map[string]string{
			HeaderEventID:   uuid.NewString(),
			HeaderEventType: eventType,
			HeaderSource:    source,
			HeaderTimestamp: time.Now().UTC().Format(time.RFC3339),
		},
		Timestamp: time.Now(),
	}, nil
}
