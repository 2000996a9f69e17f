package service

import (
	"context"

	apperrors "tutorly/pkg/errors"
	"tutorly/pkg/model"
	"tutorly/pkg/timeslot"
)

// FreeSlotsOn answers "which of this teacher's recurring slots are still
// bookable on this date". A weekly slot is dropped from the free list when
// any non-cancelled occurrence of a pending or confirmed booking overlaps
// it on that date; in strict mode a live ledger hold drops it too, so a
// slot mid-checkout by another student already reads as taken.
func (s *bookingService) FreeSlotsOn(ctx context.Context, teacherID, date string) ([]model.FreeSlot, error) {
	if teacherID == "" {
		return nil, apperrors.InvalidInput("Teacher ID cannot be empty")
	}

	dayOfWeek, err := timeslot.Weekday(date)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	available, err := s.availRepo.ListForDay(ctx, teacherID, dayOfWeek)
	if err != nil {
		s.cfg.Log.Error("Failed to load availability for free slots", "teacher_id", teacherID, "error", err)
		return nil, apperrors.Internal("Failed to load teacher availability", err)
	}

	busy, err := s.collectBusyRanges(ctx, teacherID, date)
	if err != nil {
		return nil, err
	}

	free := []model.FreeSlot{}
	for _, slot := range available {
		if !slot.IsAvailable {
			continue
		}
		if overlapsAny(slot.StartTime, slot.EndTime, busy) {
			continue
		}
		free = append(free, model.FreeSlot{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}

	s.cfg.Log.Debug("Free slots computed",
		"teacher_id", teacherID,
		"date", date,
		"available", len(available),
		"busy", len(busy),
		"free", len(free),
	)
	return free, nil
}

type busyRange struct {
	startTime string
	endTime   string
}

func (s *bookingService) collectBusyRanges(ctx context.Context, teacherID, date string) ([]busyRange, error) {
	bookings, err := s.repo.FindActiveByTeacherAndDate(ctx, teacherID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for free slots", "teacher_id", teacherID, "error", err)
		return nil, apperrors.Internal("Failed to load existing bookings", err)
	}

	var busy []busyRange
	for _, booking := range bookings {
		for _, occ := range booking.Occurrences {
			if occ.Date != date || occ.Status == model.OccurrenceCancelled {
				continue
			}
			busy = append(busy, busyRange{startTime: occ.StartTime, endTime: occ.EndTime})
		}
	}

	if s.cfg.StrictFreeSlots {
		reservations, err := s.resRepo.FindLiveByTeacherAndDate(ctx, teacherID, date)
		if err != nil {
			s.cfg.Log.Error("Failed to load reservations for free slots", "teacher_id", teacherID, "error", err)
			return nil, apperrors.Internal("Failed to load slot reservations", err)
		}
		for _, res := range reservations {
			busy = append(busy, busyRange{startTime: res.StartTime, endTime: res.EndTime})
		}
	}

	return busy, nil
}

func overlapsAny(startTime, endTime string, busy []busyRange) bool {
	for _, b := range busy {
		if timeslot.OverlapsHHMM(startTime, endTime, b.startTime, b.endTime) {
			return true
		}
	}
	return false
}
