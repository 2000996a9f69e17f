package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tutorly/internal/availability/service"
	httputil "tutorly/pkg/http"
	"tutorly/pkg/logger"
	"tutorly/pkg/model"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

type replaceAvailabilityRequest struct {
	Slots []*model.WeeklyAvailabilitySlot `json:"slots"`
}

func (h *AvailabilityHandler) Replace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	teacherID := ps.ByName("id")

	var req replaceAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Replace", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.ReplaceAll(r.Context(), teacherID, req.Slots); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Replace", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, req.Slots); err != nil {
		h.log.Error("failed to write success response", "handler", "Replace", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	teacherID := ps.ByName("id")

	slots, err := h.service.ListFor(r.Context(), teacherID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	teacherID := ps.ByName("id")
	slotID := ps.ByName("slotId")

	var updates model.WeeklyAvailabilitySlotUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.UpdateSlot(r.Context(), teacherID, slotID, &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	teacherID := ps.ByName("id")
	slotID := ps.ByName("slotId")

	if err := h.service.DeleteSlot(r.Context(), teacherID, slotID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.PUT("/api/v1/teachers/:id/availability", h.Replace)
	router.GET("/api/v1/teachers/:id/availability", h.List)
	router.PATCH("/api/v1/teachers/:id/availability/:slotId", h.Update)
	router.DELETE("/api/v1/teachers/:id/availability/:slotId", h.Delete)
}
