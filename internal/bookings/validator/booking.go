package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"tutorly/pkg/logger"
	"tutorly/pkg/model"
	"tutorly/pkg/timeslot"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
		log.Fatal("Failed to register 'hhmm' validator",
			"error", err,
		)
	}
	if err := v.RegisterValidation("lesson_date", validateLessonDate); err != nil {
		log.Fatal("Failed to register 'lesson_date' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateHHMM(fl validator.FieldLevel) bool {
	_, err := timeslot.Parse(fl.Field().String())
	return err == nil
}

func validateLessonDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(timeslot.DateLayout, fl.Field().String())
	return err == nil
}

// ValidateRequest checks the raw booking request: struct tags first, then
// the cross-field rules the tags cannot express. Slot errors carry the
// client's slot index so the caller can point at the offending entry.
func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	var errs ValidationErrors

	for i, slot := range req.Slots {
		if !timeslot.ValidRange(slot.StartTime, slot.EndTime) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("slots[%d].end_time", i),
				Message: "end_time must be after start_time",
			})
		}
	}

	start, startErr := time.Parse(timeslot.DateLayout, req.StartDate)
	end, endErr := time.Parse(timeslot.DateLayout, req.EndDate)
	if startErr == nil && endErr == nil && end.Before(start) {
		errs = append(errs, ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(req.Slots) != req.DaysPerWeek {
		errs = append(errs, ValidationError{
			Field:   "slots",
			Message: fmt.Sprintf("slot count (%d) must match days_per_week (%d)", len(req.Slots), req.DaysPerWeek),
		})
	}

	seen := map[int]bool{}
	for i, slot := range req.Slots {
		if seen[slot.DayOfWeek] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("slots[%d].day_of_week", i),
				Message: fmt.Sprintf("duplicate day_of_week %d in requested slots", slot.DayOfWeek),
			})
		}
		seen[slot.DayOfWeek] = true
	}

	// Each slot's length must match the billed hours per day, otherwise
	// the amount check downstream compares against the wrong total.
	for i, slot := range req.Slots {
		start, sErr := timeslot.Parse(slot.StartTime)
		end, eErr := timeslot.Parse(slot.EndTime)
		if sErr != nil || eErr != nil {
			continue
		}
		if int(end-start) != req.HoursPerDay*60 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("slots[%d]", i),
				Message: fmt.Sprintf("slot length must be %d hour(s) to match hours_per_day", req.HoursPerDay),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateBooking checks an assembled booking document before persistence.
func (v *BookingValidator) ValidateBooking(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	for i, occ := range booking.Occurrences {
		if !timeslot.ValidRange(occ.StartTime, occ.EndTime) {
			return ValidationErrors{
				ValidationError{
					Field:   fmt.Sprintf("occurrences[%d].end_time", i),
					Message: "end_time must be after start_time",
				},
			}
		}
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "hhmm":
			message = fmt.Sprintf("%s must be HH:MM in 24-hour format (e.g., 09:00)", err.Field())
		case "lesson_date":
			message = fmt.Sprintf("%s must be YYYY-MM-DD (e.g., 2026-01-15)", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
