package model

import "time"

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"

	OccurrenceScheduled = "scheduled"
	OccurrenceCompleted = "completed"
	OccurrenceCancelled = "cancelled"
	OccurrenceMissed    = "missed"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// BookedOccurrence is one concrete calendar-dated lesson derived from the
// recurring weekly pattern. Occurrences live inside their parent Booking
// and are never independently deleted; cancellation flips the status in
// place so the audit trail survives.
type BookedOccurrence struct {
	DayOfWeek   int    `json:"day_of_week" bson:"day_of_week" validate:"min=0,max=6"`
	Date        string `json:"date" bson:"date" validate:"required,lesson_date"`
	StartTime   string `json:"start_time" bson:"start_time" validate:"required,hhmm"`
	EndTime     string `json:"end_time" bson:"end_time" validate:"required,hhmm"`
	MeetingLink string `json:"meeting_link,omitempty" bson:"meeting_link"`
	Status      string `json:"status" bson:"status" validate:"required,oneof=scheduled completed cancelled missed"`
}

// Booking is a student's confirmed recurring lesson series with a teacher.
type Booking struct {
	ID            string             `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StudentID     string             `json:"student_id" bson:"student_id" validate:"required"`
	TeacherID     string             `json:"teacher_id" bson:"teacher_id" validate:"required"`
	HoursPerDay   int                `json:"hours_per_day" bson:"hours_per_day" validate:"required,min=1,max=12"`
	DaysPerWeek   int                `json:"days_per_week" bson:"days_per_week" validate:"required,min=1,max=7"`
	Months        int                `json:"months" bson:"months" validate:"required,min=1,max=24"`
	TotalAmount   float64            `json:"total_amount" bson:"total_amount" validate:"required,gt=0"`
	Status        string             `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	PaymentStatus string             `json:"payment_status" bson:"payment_status" validate:"required,oneof=pending paid refunded"`
	StartDate     string             `json:"start_date" bson:"start_date" validate:"required,lesson_date"`
	EndDate       string             `json:"end_date" bson:"end_date" validate:"required,lesson_date"`
	Occurrences   []BookedOccurrence `json:"occurrences" bson:"occurrences" validate:"required,min=1,dive"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// RequestedSlot is one desired weekly slot in a booking request.
type RequestedSlot struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
}

// BookingRequest is the raw client input to the booking flow: recurrence
// parameters plus the desired weekly slots over a concrete date range.
// Slot order is meaningful: occurrences are validated and reserved in the
// order the client supplied.
type BookingRequest struct {
	StudentID   string          `json:"student_id" validate:"required"`
	TeacherID   string          `json:"teacher_id" validate:"required"`
	HoursPerDay int             `json:"hours_per_day" validate:"required,min=1,max=12"`
	DaysPerWeek int             `json:"days_per_week" validate:"required,min=1,max=7"`
	Months      int             `json:"months" validate:"required,min=1,max=24"`
	TotalAmount float64         `json:"total_amount" validate:"required,gt=0"`
	StartDate   string          `json:"start_date" validate:"required,lesson_date"`
	EndDate     string          `json:"end_date" validate:"required,lesson_date"`
	Slots       []RequestedSlot `json:"slots" validate:"required,min=1,max=7,dive"`
}
