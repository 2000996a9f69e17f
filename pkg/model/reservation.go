package model

import (
	"fmt"
	"time"
)

// SlotReservation is a short-lived hold on one (teacher, date, start, end)
// tuple, closing the race window between "client sees a slot as free" and
// "client's booking is persisted". The document _id is the deterministic
// ReservationKey for the tuple, so the store's _id uniqueness is the
// constraint that makes concurrent reservation attempts safe.
type SlotReservation struct {
	Key           string    `json:"-" bson:"_id"`
	Token         string    `json:"token" bson:"token"`
	TeacherID     string    `json:"teacher_id" bson:"teacher_id"`
	Date          string    `json:"date" bson:"date"`
	StartTime     string    `json:"start_time" bson:"start_time"`
	EndTime       string    `json:"end_time" bson:"end_time"`
	BookingID     string    `json:"booking_id,omitempty" bson:"booking_id"`
	ReservedUntil time.Time `json:"reserved_until" bson:"reserved_until"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// ReservationKey builds the composite document id for a slot tuple.
func ReservationKey(teacherID, date, startTime, endTime string) string {
	return fmt.Sprintf("res_%s_%s_%s_%s", teacherID, date, startTime, endTime)
}

// Live reports whether the reservation still blocks the slot at the given
// instant: not yet expired, or already consumed by a booking.
func (r *SlotReservation) Live(now time.Time) bool {
	return r.BookingID != "" || now.Before(r.ReservedUntil)
}
