package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"tutorly/pkg/config"
	"tutorly/pkg/kafka"
	kafka_config "tutorly/pkg/kafka/config"
	"tutorly/pkg/logger"
)

const (
	ServiceName   = "notifier"
	consumerGroup = "tutorly-notifier"
)

type bookingEvent struct {
	BookingID   string  `json:"booking_id"`
	StudentID   string  `json:"student_id"`
	TeacherID   string  `json:"teacher_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	TotalAmount float64 `json:"total_amount"`
	Lessons     int     `json:"lessons"`
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Notifier worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kafkaCfg := kafka_config.Load()
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		kafka.TopicBookingEvents,
		consumerGroup,
		kafka.TopicBookingEventsDLQ,
		handleBookingEvent(cfg.Log),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka consumer", "error", err)
		}
	}()

	cfg.Log.Info("Consuming booking events",
		"brokers", kafkaCfg.Brokers,
		"topic", kafka.TopicBookingEvents,
		"group", consumerGroup,
	)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Fatal("Consumer stopped unexpectedly", "error", err)
	}

	cfg.Log.Info("Notifier worker stopped")
}

// handleBookingEvent turns a booking event into user-facing notifications.
// Delivery here is the log sink; swapping in a push or email sender only
// changes this function.
func handleBookingEvent(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event bookingEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("malformed booking event: %w", err)
		}

		eventType := msg.Headers[kafka.HeaderEventType]
		switch eventType {
		case kafka.EventBookingConfirmed:
			log.Info("Notification: booking confirmed",
				"recipient", event.TeacherID,
				"booking_id", event.BookingID,
				"student_id", event.StudentID,
				"lessons", event.Lessons,
				"start_date", event.StartDate,
			)
		case kafka.EventBookingCancelled:
			log.Info("Notification: booking cancelled",
				"recipient", event.TeacherID,
				"booking_id", event.BookingID,
				"student_id", event.StudentID,
			)
		default:
			log.Warn("Skipping unknown booking event type", "event_type", eventType)
		}
		return nil
	}
}
