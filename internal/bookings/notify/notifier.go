// Package notify dispatches booking lifecycle events to teachers and
// students. Dispatch is fire-and-forget from the orchestrator's point of
// view: a failed publish is logged and dropped, never bubbled back into
// the booking flow.
package notify

import (
	"context"

	"tutorly/pkg/kafka"
	"tutorly/pkg/logger"
	"tutorly/pkg/model"
)

// Notifier is the outbound notification contract the orchestrator calls.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *model.Booking)
	BookingCancelled(ctx context.Context, booking *model.Booking)
}

type bookingEvent struct {
	BookingID   string  `json:"booking_id"`
	StudentID   string  `json:"student_id"`
	TeacherID   string  `json:"teacher_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	TotalAmount float64 `json:"total_amount"`
	Lessons     int     `json:"lessons"`
}

type kafkaNotifier struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

// NewKafkaNotifier publishes booking events to the booking-events topic.
// Events for the same teacher share a partition key so consumers see them
// in order.
func NewKafkaNotifier(producer *kafka.Producer, source string, log *logger.Logger) Notifier {
	return &kafkaNotifier{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (n *kafkaNotifier) BookingConfirmed(ctx context.Context, booking *model.Booking) {
	n.publish(ctx, kafka.EventBookingConfirmed, booking)
}

func (n *kafkaNotifier) BookingCancelled(ctx context.Context, booking *model.Booking) {
	n.publish(ctx, kafka.EventBookingCancelled, booking)
}

func (n *kafkaNotifier) publish(ctx context.Context, eventType string, booking *model.Booking) {
	msg, err := kafka.NewEventMessage(eventType, n.source, booking.TeacherID, bookingEvent{
		BookingID:   booking.ID,
		StudentID:   booking.StudentID,
		TeacherID:   booking.TeacherID,
		StartDate:   booking.StartDate,
		EndDate:     booking.EndDate,
		TotalAmount: booking.TotalAmount,
		Lessons:     len(booking.Occurrences),
	})
	if err != nil {
		n.log.Error("Failed to build booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
		return
	}

	if err := n.producer.Publish(ctx, msg); err != nil {
		n.log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
		return
	}

	n.log.Debug("Booking event published",
		"event_type", eventType,
		"booking_id", booking.ID,
	)
}

type logNotifier struct {
	log *logger.Logger
}

// NewLogNotifier is the fallback when no broker is configured: events are
// logged and dropped.
func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) BookingConfirmed(_ context.Context, booking *model.Booking) {
	n.log.Info("Booking confirmed (notification broker disabled)",
		"booking_id", booking.ID,
		"teacher_id", booking.TeacherID,
	)
}

func (n *logNotifier) BookingCancelled(_ context.Context, booking *model.Booking) {
	n.log.Info("Booking cancelled (notification broker disabled)",
		"booking_id", booking.ID,
		"teacher_id", booking.TeacherID,
	)
}
