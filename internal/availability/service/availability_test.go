package service

import (
	"context"
	"io"
	"net/http"
	"testing"

	availabilityerrors "tutorly/internal/availability/errors"
	"tutorly/internal/availability/validator"
	"tutorly/pkg/config"
	mongotx "tutorly/pkg/db/mongo"
	apperrors "tutorly/pkg/errors"
	"tutorly/pkg/logger"
	"tutorly/pkg/model"
)

// Mock repository for testing
type mockAvailabilityRepository struct {
	replaceAllFunc func(ctx context.Context, teacherID string, slots []*model.WeeklyAvailabilitySlot) error
	listForFunc    func(ctx context.Context, teacherID string) ([]*model.WeeklyAvailabilitySlot, error)
	listForDayFunc func(ctx context.Context, teacherID string, dayOfWeek int) ([]*model.WeeklyAvailabilitySlot, error)
	findOneFunc    func(ctx context.Context, teacherID, slotID string) (*model.WeeklyAvailabilitySlot, error)
	updateOneFunc  func(ctx context.Context, teacherID, slotID string, slot *model.WeeklyAvailabilitySlot) error
	deleteOneFunc  func(ctx context.Context, teacherID, slotID string) error
}

func (m *mockAvailabilityRepository) ReplaceAll(ctx context.Context, teacherID string, slots []*model.WeeklyAvailabilitySlot) error {
	if m.replaceAllFunc != nil {
		return m.replaceAllFunc(ctx, teacherID, slots)
	}
	return nil
}

func (m *mockAvailabilityRepository) ListFor(ctx context.Context, teacherID string) ([]*model.WeeklyAvailabilitySlot, error) {
	if m.listForFunc != nil {
		return m.listForFunc(ctx, teacherID)
	}
	return []*model.WeeklyAvailabilitySlot{}, nil
}

func (m *mockAvailabilityRepository) ListForDay(ctx context.Context, teacherID string, dayOfWeek int) ([]*model.WeeklyAvailabilitySlot, error) {
	if m.listForDayFunc != nil {
		return m.listForDayFunc(ctx, teacherID, dayOfWeek)
	}
	return []*model.WeeklyAvailabilitySlot{}, nil
}

func (m *mockAvailabilityRepository) FindOne(ctx context.Context, teacherID, slotID string) (*model.WeeklyAvailabilitySlot, error) {
	if m.findOneFunc != nil {
		return m.findOneFunc(ctx, teacherID, slotID)
	}
	return nil, availabilityerrors.ErrNotFound
}

func (m *mockAvailabilityRepository) UpdateOne(ctx context.Context, teacherID, slotID string, slot *model.WeeklyAvailabilitySlot) error {
	if m.updateOneFunc != nil {
		return m.updateOneFunc(ctx, teacherID, slotID, slot)
	}
	return nil
}

func (m *mockAvailabilityRepository) DeleteOne(ctx context.Context, teacherID, slotID string) error {
	if m.deleteOneFunc != nil {
		return m.deleteOneFunc(ctx, teacherID, slotID)
	}
	return nil
}

func (m *mockAvailabilityRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return nil
}

func newTestConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Output:  io.Discard,
		Service: "test",
	})
	return &config.Config{Log: log}
}

func newTestService(repo *mockAvailabilityRepository) AvailabilityService {
	cfg := newTestConfig()
	return NewAvailabilityService(repo, validator.NewAvailabilityValidator(cfg.Log), cfg)
}

func slot(day int, start, end string) *model.WeeklyAvailabilitySlot {
	return &model.WeeklyAvailabilitySlot{
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: true,
	}
}

func TestReplaceAll_ValidationRejectsWholeSet(t *testing.T) {
	var stored []*model.WeeklyAvailabilitySlot
	repo := &mockAvailabilityRepository{
		replaceAllFunc: func(ctx context.Context, teacherID string, slots []*model.WeeklyAvailabilitySlot) error {
			stored = slots
			return nil
		},
	}
	svc := newTestService(repo)

	err := svc.ReplaceAll(context.Background(), "teacher-1", []*model.WeeklyAvailabilitySlot{
		slot(1, "09:00", "12:00"),
		slot(2, "9:00", "12:00"),
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if stored != nil {
		t.Fatal("repository must not be touched when validation fails")
	}
}

func TestReplaceAll_StampsTeacherID(t *testing.T) {
	var stored []*model.WeeklyAvailabilitySlot
	repo := &mockAvailabilityRepository{
		replaceAllFunc: func(ctx context.Context, teacherID string, slots []*model.WeeklyAvailabilitySlot) error {
			stored = slots
			return nil
		},
	}
	svc := newTestService(repo)

	in := []*model.WeeklyAvailabilitySlot{slot(1, "09:00", "12:00")}
	in[0].TeacherID = "someone-else"

	if err := svc.ReplaceAll(context.Background(), "teacher-1", in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored) != 1 || stored[0].TeacherID != "teacher-1" {
		t.Fatalf("expected teacher id stamped from path, got %+v", stored)
	}
}

func TestReplaceAll_Idempotent(t *testing.T) {
	calls := 0
	var last []*model.WeeklyAvailabilitySlot
	repo := &mockAvailabilityRepository{
		replaceAllFunc: func(ctx context.Context, teacherID string, slots []*model.WeeklyAvailabilitySlot) error {
			calls++
			last = slots
			return nil
		},
	}
	svc := newTestService(repo)

	set := func() []*model.WeeklyAvailabilitySlot {
		return []*model.WeeklyAvailabilitySlot{
			slot(1, "09:00", "12:00"),
			slot(3, "14:00", "16:00"),
		}
	}

	if err := svc.ReplaceAll(context.Background(), "teacher-1", set()); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := svc.ReplaceAll(context.Background(), "teacher-1", set()); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	if calls != 2 {
		t.Fatalf("expected 2 repository calls, got %d", calls)
	}
	if len(last) != 2 {
		t.Fatalf("expected final set of 2 slots, got %d", len(last))
	}
	for i, s := range last {
		want := set()[i]
		if s.DayOfWeek != want.DayOfWeek || s.StartTime != want.StartTime || s.EndTime != want.EndTime {
			t.Errorf("slot %d changed across identical replaces: got %+v", i, s)
		}
	}
}

func TestReplaceAll_EmptySetClearsAvailability(t *testing.T) {
	var stored []*model.WeeklyAvailabilitySlot
	called := false
	repo := &mockAvailabilityRepository{
		replaceAllFunc: func(ctx context.Context, teacherID string, slots []*model.WeeklyAvailabilitySlot) error {
			called = true
			stored = slots
			return nil
		},
	}
	svc := newTestService(repo)

	if err := svc.ReplaceAll(context.Background(), "teacher-1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected repository call for empty replacement")
	}
	if len(stored) != 0 {
		t.Fatalf("expected empty stored set, got %d slots", len(stored))
	}
}

func TestListFor_EmptyTeacherID(t *testing.T) {
	svc := newTestService(&mockAvailabilityRepository{})

	_, err := svc.ListFor(context.Background(), "")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty teacher id, got %v", err)
	}
}

func TestUpdateSlot_NotFound(t *testing.T) {
	repo := &mockAvailabilityRepository{
		findOneFunc: func(ctx context.Context, teacherID, slotID string) (*model.WeeklyAvailabilitySlot, error) {
			return nil, availabilityerrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	newStart := "10:00"
	err := svc.UpdateSlot(context.Background(), "teacher-1", "missing-slot", &model.WeeklyAvailabilitySlotUpdate{
		StartTime: newStart,
	})

	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404 for missing slot, got %v", err)
	}
}

func TestUpdateSlot_ForeignSlotReadsAsNotFound(t *testing.T) {
	foreign := slot(1, "09:00", "10:00")
	foreign.ID = "slot-1"
	foreign.TeacherID = "teacher-2"

	repo := &mockAvailabilityRepository{
		findOneFunc: func(ctx context.Context, teacherID, slotID string) (*model.WeeklyAvailabilitySlot, error) {
			if teacherID == foreign.TeacherID && slotID == foreign.ID {
				return foreign, nil
			}
			return nil, availabilityerrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	err := svc.UpdateSlot(context.Background(), "teacher-1", "slot-1", &model.WeeklyAvailabilitySlotUpdate{
		StartTime: "10:00",
	})

	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404 for another teacher's slot, got %v", err)
	}
}

func TestUpdateSlot_MergedResultValidated(t *testing.T) {
	existing := slot(1, "09:00", "10:00")
	existing.ID = "slot-1"
	existing.TeacherID = "teacher-1"

	repo := &mockAvailabilityRepository{
		findOneFunc: func(ctx context.Context, teacherID, slotID string) (*model.WeeklyAvailabilitySlot, error) {
			if teacherID == existing.TeacherID && slotID == existing.ID {
				return existing, nil
			}
			return nil, availabilityerrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	// Moving start past the existing end must fail even though the patch
	// alone looks fine.
	err := svc.UpdateSlot(context.Background(), "teacher-1", "slot-1", &model.WeeklyAvailabilitySlotUpdate{
		StartTime: "11:00",
	})

	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for inverted merged range, got %v", err)
	}
}

func TestDeleteSlot_MapsRepoNotFound(t *testing.T) {
	repo := &mockAvailabilityRepository{
		deleteOneFunc: func(ctx context.Context, teacherID, slotID string) error {
			return availabilityerrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	err := svc.DeleteSlot(context.Background(), "teacher-1", "slot-1")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}
