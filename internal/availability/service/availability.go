package service

import (
	"context"
	"errors"

	availabilityerrors "tutorly/internal/availability/errors"
	"tutorly/internal/availability/repository"
	"tutorly/internal/availability/validator"
	"tutorly/pkg/config"
	apperrors "tutorly/pkg/errors"
	"tutorly/pkg/model"
)

type AvailabilityService interface {
	ReplaceAll(ctx context.Context, teacherID string, slots []*model.WeeklyAvailabilitySlot) error
	ListFor(ctx context.Context, teacherID string) ([]*model.WeeklyAvailabilitySlot, error)
	UpdateSlot(ctx context.Context, teacherID, slotID string, updates *model.WeeklyAvailabilitySlotUpdate) error
	DeleteSlot(ctx context.Context, teacherID, slotID string) error
}

type availabilityService struct {
	repo      repository.AvailabilityRepository
	validator *validator.AvailabilityValidator
	cfg       *config.Config
}

func NewAvailabilityService(
	repo repository.AvailabilityRepository,
	validator *validator.AvailabilityValidator,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// ReplaceAll swaps a teacher's whole weekly pattern. Validation runs over
// the full set up front; any failing slot rejects the call with the stored
// pattern untouched.
func (s *availabilityService) ReplaceAll(ctx context.Context, teacherID string, slots []*model.WeeklyAvailabilitySlot) error {
	if teacherID == "" {
		return apperrors.InvalidInput("Teacher ID cannot be empty")
	}

	for _, slot := range slots {
		slot.TeacherID = teacherID
	}

	if err := s.validator.ValidateSet(slots); err != nil {
		s.cfg.Log.Warn("Availability validation failed", "teacher_id", teacherID, "error", err)
		return apperrors.Validation("Availability validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.ReplaceAll(ctx, teacherID, slots); err != nil {
		s.cfg.Log.Error("Failed to replace availability", "teacher_id", teacherID, "error", err)
		return apperrors.Internal("Failed to replace availability", err)
	}

	s.cfg.Log.Info("Availability replaced successfully",
		"teacher_id", teacherID,
		"slot_count", len(slots),
	)
	return nil
}

func (s *availabilityService) ListFor(ctx context.Context, teacherID string) ([]*model.WeeklyAvailabilitySlot, error) {
	if teacherID == "" {
		return nil, apperrors.InvalidInput("Teacher ID cannot be empty")
	}

	slots, err := s.repo.ListFor(ctx, teacherID)
	if err != nil {
		s.cfg.Log.Error("Failed to list availability", "teacher_id", teacherID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve availability", err)
	}

	if slots == nil {
		slots = []*model.WeeklyAvailabilitySlot{}
	}
	return slots, nil
}

func (s *availabilityService) UpdateSlot(ctx context.Context, teacherID, slotID string, updates *model.WeeklyAvailabilitySlotUpdate) error {
	if teacherID == "" || slotID == "" {
		return apperrors.InvalidInput("Teacher ID and slot ID cannot be empty")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Availability update validation failed", "slot_id", slotID, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindOne(ctx, teacherID, slotID)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Availability slot", slotID)
		}
		s.cfg.Log.Error("Failed to load availability slot for update", "slot_id", slotID, "error", err)
		return apperrors.Internal("Failed to retrieve availability slot", err)
	}

	merged := s.mergeSlotUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Merged availability slot validation failed", "slot_id", slotID, "error", err)
		return apperrors.Validation("Availability validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.UpdateOne(ctx, teacherID, slotID, merged); err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Availability slot", slotID)
		}
		s.cfg.Log.Error("Failed to update availability slot", "slot_id", slotID, "error", err)
		return apperrors.Internal("Failed to update availability slot", err)
	}

	s.cfg.Log.Info("Availability slot updated successfully", "teacher_id", teacherID, "slot_id", slotID)
	return nil
}

func (s *availabilityService) DeleteSlot(ctx context.Context, teacherID, slotID string) error {
	if teacherID == "" || slotID == "" {
		return apperrors.InvalidInput("Teacher ID and slot ID cannot be empty")
	}

	if err := s.repo.DeleteOne(ctx, teacherID, slotID); err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Availability slot", slotID)
		}
		s.cfg.Log.Error("Failed to delete availability slot", "slot_id", slotID, "error", err)
		return apperrors.Internal("Failed to delete availability slot", err)
	}

	s.cfg.Log.Info("Availability slot deleted successfully", "teacher_id", teacherID, "slot_id", slotID)
	return nil
}

// --- Helpers ---

func (s *availabilityService) mergeSlotUpdates(existing *model.WeeklyAvailabilitySlot, updates *model.WeeklyAvailabilitySlotUpdate) *model.WeeklyAvailabilitySlot {
	merged := *existing

	if updates.DayOfWeek != nil {
		merged.DayOfWeek = *updates.DayOfWeek
	}
	if updates.StartTime != "" {
		merged.StartTime = updates.StartTime
	}
	if updates.EndTime != "" {
		merged.EndTime = updates.EndTime
	}
	if updates.IsAvailable != nil {
		merged.IsAvailable = *updates.IsAvailable
	}

	return &merged
}
