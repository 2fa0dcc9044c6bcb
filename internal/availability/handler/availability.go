package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tutormatch/internal/availability/service"
	httputil "tutormatch/pkg/http"
	"tutormatch/pkg/logger"
	"tutormatch/pkg/model"
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

func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var a model.Availability
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &a); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, a); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *AvailabilityHandler) GetByTutorID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tutorID := ps.ByName("tutor_id")

	a, err := h.service.GetByTutorID(r.Context(), tutorID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByTutorID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, a); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByTutorID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.AvailabilityUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), id, &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

// CheckOpen answers whether a window is inside the tutor's declared calendar.
// The bookings service calls this during conflict checking.
func (h *AvailabilityHandler) CheckOpen(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tutorID := ps.ByName("tutor_id")
	query := r.URL.Query()
	date := query.Get("date")
	startTime := query.Get("start_time")
	endTime := query.Get("end_time")

	if !model.ValidCalendarDate(date) || !model.ValidHHMM(startTime) || !model.ValidHHMM(endTime) {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "date (YYYY-MM-DD), start_time and end_time (HH:MM) query parameters are required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CheckOpen", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	open, err := h.service.IsOpen(r.Context(), tutorID, date, startTime, endTime)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckOpen", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]bool{"open": open}); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckOpen", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/availabilities", h.Create)
	router.GET("/api/v1/availabilities/tutor/:tutor_id", h.GetByTutorID)
	router.GET("/api/v1/availabilities/tutor/:tutor_id/open", h.CheckOpen)
	router.PATCH("/api/v1/availabilities/id/:id", h.Update)
	router.DELETE("/api/v1/availabilities/id/:id", h.Delete)
}
