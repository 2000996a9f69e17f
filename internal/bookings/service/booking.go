package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	availabilityrepo "tutorly/internal/availability/repository"
	bookingserrors "tutorly/internal/bookings/errors"
	"tutorly/internal/bookings/notify"
	"tutorly/internal/bookings/repository"
	"tutorly/internal/bookings/validator"
	"tutorly/pkg/config"
	apperrors "tutorly/pkg/errors"
	"tutorly/pkg/model"
	"tutorly/pkg/timeslot"
)

// BookingService is the booking orchestrator: it is the only writer of
// Booking documents and the only consumer of ledger reservations.
type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListForTeacher(ctx context.Context, teacherID string, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, id string) error
	CancelOccurrence(ctx context.Context, id, date, startTime string) error
	FreeSlotsOn(ctx context.Context, teacherID, date string) ([]model.FreeSlot, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	resRepo   repository.ReservationRepository
	availRepo availabilityrepo.AvailabilityRepository
	validator *validator.BookingValidator
	notifier  notify.Notifier
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	resRepo repository.ReservationRepository,
	availRepo availabilityrepo.AvailabilityRepository,
	validator *validator.BookingValidator,
	notifier notify.Notifier,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		resRepo:   resRepo,
		availRepo: availRepo,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// Create runs the whole request through validation, availability coverage,
// amount verification, occurrence projection, sequential reservation and
// final persistence. The first failing occurrence aborts the request and
// every reservation acquired so far is released before the error returns;
// a multi-slot request is never partially accepted.
func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "teacher_id", req.TeacherID, "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.verifyAmount(req); err != nil {
		return nil, err
	}

	if err := s.verifyAvailabilityCoverage(ctx, req); err != nil {
		return nil, err
	}

	occurrences, err := s.projectOccurrences(req)
	if err != nil {
		return nil, err
	}

	if err := s.verifyLessonCount(req, occurrences); err != nil {
		return nil, err
	}

	acquired, err := s.reserveOccurrences(ctx, req, occurrences)
	if err != nil {
		return nil, err
	}

	confirmed := false
	defer func() {
		if confirmed {
			return
		}
		for _, res := range acquired {
			if releaseErr := s.resRepo.Release(ctx, res.Token); releaseErr != nil {
				s.cfg.Log.Warn("Failed to release reservation during rollback",
					"token", res.Token,
					"error", releaseErr,
				)
			}
		}
	}()

	booking := s.assembleBooking(req, occurrences)
	if err := s.validator.ValidateBooking(booking); err != nil {
		s.cfg.Log.Error("Assembled booking failed validation", "error", err)
		return nil, apperrors.Internal("Failed to assemble booking", err)
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to persist booking", "teacher_id", req.TeacherID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	for _, res := range acquired {
		if err := s.resRepo.Consume(ctx, res.Token, booking.ID); err != nil {
			// The booking is already persisted; a consume failure only
			// means the hold will age out of the ledger on its own.
			s.cfg.Log.Warn("Failed to consume reservation",
				"token", res.Token,
				"booking_id", booking.ID,
				"error", err,
			)
		}
	}
	confirmed = true

	s.notifier.BookingConfirmed(ctx, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"student_id", booking.StudentID,
		"teacher_id", booking.TeacherID,
		"occurrences", len(booking.Occurrences),
	)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) ListForTeacher(ctx context.Context, teacherID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if teacherID == "" {
		return nil, 0, apperrors.InvalidInput("Teacher ID cannot be empty")
	}

	count, err := s.repo.CountByTeacher(ctx, teacherID)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings", "teacher_id", teacherID, "error", err)
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	bookings, err := s.repo.FindByTeacher(ctx, teacherID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "teacher_id", teacherID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, count, nil
}

// Cancel cancels the whole series. Cancelling an already cancelled booking
// is a no-op; the ledger holds for the booking are released so the slots
// become bookable again.
func (s *bookingService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to retrieve booking", err)
	}
	if booking.Status == model.BookingCancelled {
		return nil
	}

	if err := s.repo.Cancel(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return apperrors.Internal("Failed to cancel booking", err)
	}

	if err := s.resRepo.ReleaseByBooking(ctx, id); err != nil {
		s.cfg.Log.Warn("Failed to release reservations for cancelled booking", "id", id, "error", err)
	}

	booking.Status = model.BookingCancelled
	s.notifier.BookingCancelled(ctx, booking)

	s.cfg.Log.Info("Booking cancelled successfully", "id", id)
	return nil
}

// CancelOccurrence cancels a single lesson of the series in place. The
// occurrence stays in the booking with status cancelled and its ledger
// hold is released.
func (s *bookingService) CancelOccurrence(ctx context.Context, id, date, startTime string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if _, err := timeslot.Weekday(date); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	if _, err := timeslot.Parse(startTime); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	if err := s.repo.UpdateOccurrenceStatus(ctx, id, date, startTime, model.OccurrenceCancelled); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFound("Booking occurrence")
		}
		s.cfg.Log.Error("Failed to cancel occurrence", "id", id, "date", date, "error", err)
		return apperrors.Internal("Failed to cancel occurrence", err)
	}

	if err := s.resRepo.ReleaseOccurrence(ctx, id, date, startTime); err != nil {
		s.cfg.Log.Warn("Failed to release reservation for cancelled occurrence",
			"id", id,
			"date", date,
			"error", err,
		)
	}

	s.cfg.Log.Info("Occurrence cancelled successfully", "id", id, "date", date, "start_time", startTime)
	return nil
}

// --- Create pipeline helpers ---

func (s *bookingService) verifyAmount(req *model.BookingRequest) error {
	expected := s.cfg.Pricing.ExpectedTotal(req.HoursPerDay, req.DaysPerWeek, req.Months)
	if !s.cfg.Pricing.Matches(req.TotalAmount, expected) {
		s.cfg.Log.Warn("Booking amount mismatch",
			"teacher_id", req.TeacherID,
			"submitted", req.TotalAmount,
			"expected", expected,
		)
		return apperrors.Validation("Total amount does not match the expected price", map[string]any{
			"submitted": req.TotalAmount,
			"expected":  expected,
		})
	}
	return nil
}

// verifyLessonCount ties the billed package to the concrete date range.
// The amount covers months x 4 lessons per weekly slot, so the projected
// occurrences must add up to exactly that many. Without this a range
// stretching past the package would hand out lessons nobody paid for.
func (s *bookingService) verifyLessonCount(req *model.BookingRequest, occurrences []timeslot.Occurrence) error {
	billed := s.cfg.Pricing.BilledLessons(req.DaysPerWeek, req.Months)
	if len(occurrences) != billed {
		s.cfg.Log.Warn("Booking date range does not match billed package",
			"teacher_id", req.TeacherID,
			"projected_lessons", len(occurrences),
			"billed_lessons", billed,
		)
		return apperrors.Validation("Date range does not match the billed package length", map[string]any{
			"projected_lessons": len(occurrences),
			"billed_lessons":    billed,
		})
	}
	return nil
}

// verifyAvailabilityCoverage requires every requested slot to sit inside
// an is_available weekly slot on the same weekday. Uncovered slots are all
// reported, not just the first.
func (s *bookingService) verifyAvailabilityCoverage(ctx context.Context, req *model.BookingRequest) error {
	available, err := s.availRepo.ListFor(ctx, req.TeacherID)
	if err != nil {
		s.cfg.Log.Error("Failed to load availability", "teacher_id", req.TeacherID, "error", err)
		return apperrors.Internal("Failed to load teacher availability", err)
	}

	var uncovered []map[string]any
	for _, slot := range req.Slots {
		if !covered(slot, available) {
			uncovered = append(uncovered, map[string]any{
				"day_of_week": slot.DayOfWeek,
				"start_time":  slot.StartTime,
				"end_time":    slot.EndTime,
			})
		}
	}

	if len(uncovered) > 0 {
		return apperrors.AvailabilityMismatch(
			"Requested slots fall outside the teacher's declared availability",
			uncovered,
		)
	}
	return nil
}

func covered(slot model.RequestedSlot, available []*model.WeeklyAvailabilitySlot) bool {
	reqStart, err := timeslot.Parse(slot.StartTime)
	if err != nil {
		return false
	}
	reqEnd, err := timeslot.Parse(slot.EndTime)
	if err != nil {
		return false
	}

	for _, avail := range available {
		if !avail.IsAvailable || avail.DayOfWeek != slot.DayOfWeek {
			continue
		}
		availStart, err := timeslot.Parse(avail.StartTime)
		if err != nil {
			continue
		}
		availEnd, err := timeslot.Parse(avail.EndTime)
		if err != nil {
			continue
		}
		if availStart <= reqStart && availEnd >= reqEnd {
			return true
		}
	}
	return false
}

func (s *bookingService) projectOccurrences(req *model.BookingRequest) ([]timeslot.Occurrence, error) {
	weekly := make([]timeslot.WeeklySlot, 0, len(req.Slots))
	for _, slot := range req.Slots {
		weekly = append(weekly, timeslot.WeeklySlot{
			DayOfWeek: slot.DayOfWeek,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}

	occurrences, err := timeslot.ProjectOccurrences(weekly, req.StartDate, req.EndDate)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if len(occurrences) == 0 {
		return nil, apperrors.Validation("Requested date range contains no occurrences of the requested slots", nil)
	}
	return occurrences, nil
}

// reserveOccurrences walks the projected occurrences strictly in order,
// checking each against the teacher's existing booked occurrences before
// taking a ledger hold. On the first conflict it releases everything it
// acquired and returns a conflict naming the offending slot.
func (s *bookingService) reserveOccurrences(ctx context.Context, req *model.BookingRequest, occurrences []timeslot.Occurrence) ([]*model.SlotReservation, error) {
	var acquired []*model.SlotReservation

	rollback := func() {
		for _, res := range acquired {
			if err := s.resRepo.Release(ctx, res.Token); err != nil {
				s.cfg.Log.Warn("Failed to release reservation during rollback",
					"token", res.Token,
					"error", err,
				)
			}
		}
	}

	for _, occ := range occurrences {
		if err := s.checkExistingBookings(ctx, req.TeacherID, occ); err != nil {
			rollback()
			return nil, err
		}

		res, err := s.resRepo.TryReserve(ctx, req.TeacherID, occ.Date, occ.StartTime, occ.EndTime, s.cfg.ReservationTTL)
		if err != nil {
			rollback()
			if errors.Is(err, bookingserrors.ErrReservationHeld) {
				return nil, apperrors.ConflictWithSlot(
					"Slot is already reserved by another request",
					occ.Date, occ.StartTime, occ.EndTime,
				)
			}
			s.cfg.Log.Error("Failed to reserve slot",
				"teacher_id", req.TeacherID,
				"date", occ.Date,
				"error", err,
			)
			return nil, apperrors.Internal("Failed to reserve slot", err)
		}
		acquired = append(acquired, res)
	}

	return acquired, nil
}

func (s *bookingService) checkExistingBookings(ctx context.Context, teacherID string, occ timeslot.Occurrence) error {
	existing, err := s.repo.FindActiveByTeacherAndDate(ctx, teacherID, occ.Date)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, booking := range existing {
		for _, booked := range booking.Occurrences {
			if booked.Date != occ.Date || booked.Status == model.OccurrenceCancelled {
				continue
			}
			if timeslot.OverlapsHHMM(booked.StartTime, booked.EndTime, occ.StartTime, occ.EndTime) {
				return apperrors.ConflictWithSlot(
					fmt.Sprintf("Slot overlaps an existing booking (%s %s-%s)",
						booked.Date, booked.StartTime, booked.EndTime),
					occ.Date, occ.StartTime, occ.EndTime,
				)
			}
		}
	}
	return nil
}

func (s *bookingService) assembleBooking(req *model.BookingRequest, occurrences []timeslot.Occurrence) *model.Booking {
	booked := make([]model.BookedOccurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		booked = append(booked, model.BookedOccurrence{
			DayOfWeek:   occ.DayOfWeek,
			Date:        occ.Date,
			StartTime:   occ.StartTime,
			EndTime:     occ.EndTime,
			MeetingLink: fmt.Sprintf("https://meet.tutorly.app/%s", uuid.NewString()),
			Status:      model.OccurrenceScheduled,
		})
	}

	return &model.Booking{
		ID:            primitive.NewObjectID().Hex(),
		StudentID:     req.StudentID,
		TeacherID:     req.TeacherID,
		HoursPerDay:   req.HoursPerDay,
		DaysPerWeek:   req.DaysPerWeek,
		Months:        req.Months,
		TotalAmount:   req.TotalAmount,
		Status:        model.BookingConfirmed,
		PaymentStatus: model.PaymentPending,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Occurrences:   booked,
	}
}
