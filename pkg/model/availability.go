package model

import "time"

// WeeklyAvailabilitySlot is one recurring opening in a teacher's week.
// The full set for a teacher is replaced wholesale when the teacher
// resubmits availability; there is no partial patch of the set, only
// full replacement or single-slot edit/delete by id.
type WeeklyAvailabilitySlot struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TeacherID   string    `json:"teacher_id" bson:"teacher_id" validate:"required"`
	DayOfWeek   int       `json:"day_of_week" bson:"day_of_week" validate:"min=0,max=6"`
	StartTime   string    `json:"start_time" bson:"start_time" validate:"required,hhmm"`
	EndTime     string    `json:"end_time" bson:"end_time" validate:"required,hhmm"`
	IsAvailable bool      `json:"is_available" bson:"is_available"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// WeeklyAvailabilitySlotUpdate is a partial edit of a single slot.
type WeeklyAvailabilitySlotUpdate struct {
	DayOfWeek   *int    `json:"day_of_week,omitempty" validate:"omitempty,min=0,max=6"`
	StartTime   string  `json:"start_time,omitempty" validate:"omitempty,hhmm"`
	EndTime     string  `json:"end_time,omitempty" validate:"omitempty,hhmm"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

// FreeSlot is one still-bookable window on a concrete date, returned by
// the slot query endpoint.
type FreeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
