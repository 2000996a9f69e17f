package validator

import (
	"io"
	"strings"
	"testing"

	"tutorly/pkg/logger"
	"tutorly/pkg/model"
)

func newTestValidator() *BookingValidator {
	log := logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Output:  io.Discard,
		Service: "test",
	})
	return NewBookingValidator(log)
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		StudentID:   "student-1",
		TeacherID:   "teacher-1",
		HoursPerDay: 1,
		DaysPerWeek: 2,
		Months:      3,
		TotalAmount: 720,
		StartDate:   "2026-09-01",
		EndDate:     "2026-11-30",
		Slots: []model.RequestedSlot{
			{DayOfWeek: 1, StartTime: "14:00", EndTime: "15:00"},
			{DayOfWeek: 3, StartTime: "10:00", EndTime: "11:00"},
		},
	}
}

func TestValidateRequest(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name      string
		mutate    func(req *model.BookingRequest)
		wantErr   bool
		errSubstr string
	}{
		{
			name:    "valid request",
			mutate:  func(req *model.BookingRequest) {},
			wantErr: false,
		},
		{
			name:    "missing student",
			mutate:  func(req *model.BookingRequest) { req.StudentID = "" },
			wantErr: true,
		},
		{
			name:    "no slots",
			mutate:  func(req *model.BookingRequest) { req.Slots = nil },
			wantErr: true,
		},
		{
			name:      "time without leading zero",
			mutate:    func(req *model.BookingRequest) { req.Slots[0].StartTime = "9:00" },
			wantErr:   true,
			errSubstr: "HH:MM",
		},
		{
			name: "end before start",
			mutate: func(req *model.BookingRequest) {
				req.Slots[0].StartTime = "15:00"
				req.Slots[0].EndTime = "14:00"
			},
			wantErr:   true,
			errSubstr: "after start_time",
		},
		{
			name: "end date before start date",
			mutate: func(req *model.BookingRequest) {
				req.StartDate = "2026-11-30"
				req.EndDate = "2026-09-01"
			},
			wantErr:   true,
			errSubstr: "end_date",
		},
		{
			name:      "slot count mismatch",
			mutate:    func(req *model.BookingRequest) { req.DaysPerWeek = 3 },
			wantErr:   true,
			errSubstr: "days_per_week",
		},
		{
			name: "duplicate weekday",
			mutate: func(req *model.BookingRequest) {
				req.Slots[1].DayOfWeek = 1
			},
			wantErr:   true,
			errSubstr: "duplicate",
		},
		{
			name: "slot shorter than billed hours",
			mutate: func(req *model.BookingRequest) {
				req.HoursPerDay = 2
			},
			wantErr:   true,
			errSubstr: "hours_per_day",
		},
		{
			name:    "months over cap",
			mutate:  func(req *model.BookingRequest) { req.Months = 25 },
			wantErr: true,
		},
		{
			name:    "zero amount",
			mutate:  func(req *model.BookingRequest) { req.TotalAmount = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.ValidateRequest(req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.errSubstr != "" && !strings.Contains(err.Error(), tt.errSubstr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.errSubstr)
			}
		})
	}
}

func TestValidateRequest_ReportsAllViolations(t *testing.T) {
	v := newTestValidator()

	req := validRequest()
	req.Slots[0].StartTime = "15:00"
	req.Slots[0].EndTime = "14:00"
	req.Slots[1].DayOfWeek = req.Slots[0].DayOfWeek

	err := v.ValidateRequest(req)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "after start_time") || !strings.Contains(msg, "duplicate") {
		t.Errorf("expected both violations listed, got %q", msg)
	}
}

func TestValidateBooking(t *testing.T) {
	v := newTestValidator()

	booking := &model.Booking{
		StudentID:     "student-1",
		TeacherID:     "teacher-1",
		HoursPerDay:   1,
		DaysPerWeek:   1,
		Months:        1,
		TotalAmount:   120,
		Status:        model.BookingConfirmed,
		PaymentStatus: model.PaymentPending,
		StartDate:     "2026-09-01",
		EndDate:       "2026-09-30",
		Occurrences: []model.BookedOccurrence{
			{DayOfWeek: 2, Date: "2026-09-01", StartTime: "14:00", EndTime: "15:00", Status: model.OccurrenceScheduled},
		},
	}

	if err := v.ValidateBooking(booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	booking.Status = "limbo"
	if err := v.ValidateBooking(booking); err == nil {
		t.Fatal("expected error for unknown status")
	}

	booking.Status = model.BookingConfirmed
	booking.Occurrences[0].Status = "rescheduled"
	if err := v.ValidateBooking(booking); err == nil {
		t.Fatal("expected error for unknown occurrence status")
	}
}
