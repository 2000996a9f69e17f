package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "tutorly/pkg/errors"
	"tutorly/pkg/logger"
	"tutorly/pkg/model"
)

// Mock service for testing
type mockBookingService struct {
	createFunc      func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	freeSlotsOnFunc func(ctx context.Context, teacherID, date string) ([]model.FreeSlot, error)
	cancelFunc      func(ctx context.Context, id string) error
}

func (m *mockBookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &model.Booking{}, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, apperrors.NotFoundWithID("booking", id)
}

func (m *mockBookingService) ListForTeacher(ctx context.Context, teacherID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Cancel(ctx context.Context, id string) error {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingService) CancelOccurrence(ctx context.Context, id, date, startTime string) error {
	return nil
}

func (m *mockBookingService) FreeSlotsOn(ctx context.Context, teacherID, date string) ([]model.FreeSlot, error) {
	if m.freeSlotsOnFunc != nil {
		return m.freeSlotsOnFunc(ctx, teacherID, date)
	}
	return []model.FreeSlot{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Output:  io.Discard,
		Service: "test",
	})
}

func TestFreeSlots_RequiresDateParameter(t *testing.T) {
	handler := NewBookingHandler(&mockBookingService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teachers/t1/free-slots", nil)
	w := httptest.NewRecorder()

	handler.FreeSlots(w, req, httprouter.Params{{Key: "id", Value: "t1"}})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var response struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, response.Code)
	}
}

func TestFreeSlots_ReturnsSlots(t *testing.T) {
	var receivedTeacher, receivedDate string
	mockService := &mockBookingService{
		freeSlotsOnFunc: func(ctx context.Context, teacherID, date string) ([]model.FreeSlot, error) {
			receivedTeacher = teacherID
			receivedDate = date
			return []model.FreeSlot{
				{StartTime: "09:00", EndTime: "10:00"},
				{StartTime: "14:00", EndTime: "15:00"},
			}, nil
		},
	}
	handler := NewBookingHandler(mockService, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teachers/t1/free-slots?date=2026-08-31", nil)
	w := httptest.NewRecorder()

	handler.FreeSlots(w, req, httprouter.Params{{Key: "id", Value: "t1"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if receivedTeacher != "t1" || receivedDate != "2026-08-31" {
		t.Errorf("service received teacher=%q date=%q", receivedTeacher, receivedDate)
	}

	var response struct {
		Data []model.FreeSlot `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Data) != 2 {
		t.Errorf("expected 2 slots, got %d", len(response.Data))
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	handler := NewBookingHandler(&mockBookingService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestCreate_ConflictMapsTo409(t *testing.T) {
	mockService := &mockBookingService{
		createFunc: func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
			return nil, apperrors.ConflictWithSlot("The requested slot is already booked", "2026-08-31", "14:00", "15:00")
		},
	}
	handler := NewBookingHandler(mockService, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{}"))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}

	var response struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, response.Code)
	}
	if response.Details["date"] != "2026-08-31" {
		t.Errorf("expected conflicting date in details, got %v", response.Details)
	}
}

func TestCancelOccurrence_RequiresQueryParameters(t *testing.T) {
	handler := NewBookingHandler(&mockBookingService{}, testLogger())

	tests := []struct {
		name  string
		query string
	}{
		{"missing both", ""},
		{"missing start_time", "?date=2026-08-31"},
		{"missing date", "?start_time=14:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/id/b1/occurrences"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.CancelOccurrence(w, req, httprouter.Params{{Key: "id", Value: "b1"}})

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestCancel_NoContent(t *testing.T) {
	handler := NewBookingHandler(&mockBookingService{}, testLogger())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/id/b1", nil)
	w := httptest.NewRecorder()

	handler.Cancel(w, req, httprouter.Params{{Key: "id", Value: "b1"}})

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
}
