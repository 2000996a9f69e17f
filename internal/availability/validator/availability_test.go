package validator

import (
	"io"
	"testing"

	"tutorly/pkg/logger"
	"tutorly/pkg/model"
)

func newTestValidator() *AvailabilityValidator {
	log := logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Output:  io.Discard,
		Service: "test",
	})
	return NewAvailabilityValidator(log)
}

func validSlot() *model.WeeklyAvailabilitySlot {
	return &model.WeeklyAvailabilitySlot{
		TeacherID:   "teacher-1",
		DayOfWeek:   1,
		StartTime:   "09:00",
		EndTime:     "12:00",
		IsAvailable: true,
	}
}

func TestValidate(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		mutate  func(s *model.WeeklyAvailabilitySlot)
		wantErr bool
	}{
		{
			name:    "valid slot",
			mutate:  func(s *model.WeeklyAvailabilitySlot) {},
			wantErr: false,
		},
		{
			name:    "missing teacher id",
			mutate:  func(s *model.WeeklyAvailabilitySlot) { s.TeacherID = "" },
			wantErr: true,
		},
		{
			name:    "day of week too large",
			mutate:  func(s *model.WeeklyAvailabilitySlot) { s.DayOfWeek = 7 },
			wantErr: true,
		},
		{
			name:    "start time without leading zero",
			mutate:  func(s *model.WeeklyAvailabilitySlot) { s.StartTime = "9:00" },
			wantErr: true,
		},
		{
			name:    "end time out of range",
			mutate:  func(s *model.WeeklyAvailabilitySlot) { s.EndTime = "24:00" },
			wantErr: true,
		},
		{
			name: "end before start",
			mutate: func(s *model.WeeklyAvailabilitySlot) {
				s.StartTime = "12:00"
				s.EndTime = "09:00"
			},
			wantErr: true,
		},
		{
			name: "zero length slot",
			mutate: func(s *model.WeeklyAvailabilitySlot) {
				s.StartTime = "09:00"
				s.EndTime = "09:00"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := validSlot()
			tt.mutate(slot)

			err := v.Validate(slot)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSet_RejectsWholeSetOnOneBadSlot(t *testing.T) {
	v := newTestValidator()

	bad := validSlot()
	bad.StartTime = "9:00"

	err := v.ValidateSet([]*model.WeeklyAvailabilitySlot{validSlot(), bad, validSlot()})
	if err == nil {
		t.Fatal("expected validation error for set containing a bad slot")
	}
}

func TestValidateSet_EmptySetIsValid(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateSet(nil); err != nil {
		t.Fatalf("empty set should be valid, got %v", err)
	}
}

func TestValidateUpdate(t *testing.T) {
	v := newTestValidator()

	day := 3
	tests := []struct {
		name    string
		update  *model.WeeklyAvailabilitySlotUpdate
		wantErr bool
	}{
		{
			name:    "empty update is valid",
			update:  &model.WeeklyAvailabilitySlotUpdate{},
			wantErr: false,
		},
		{
			name:    "day only",
			update:  &model.WeeklyAvailabilitySlotUpdate{DayOfWeek: &day},
			wantErr: false,
		},
		{
			name:    "bad time format",
			update:  &model.WeeklyAvailabilitySlotUpdate{StartTime: "25:00"},
			wantErr: true,
		},
		{
			name: "inverted range",
			update: &model.WeeklyAvailabilitySlotUpdate{
				StartTime: "14:00",
				EndTime:   "13:00",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpdate(tt.update)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUpdate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
