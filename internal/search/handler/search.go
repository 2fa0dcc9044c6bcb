package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tutormatch/internal/search/service"
	"tutormatch/internal/search/validator"
	apperrors "tutormatch/pkg/errors"
	httputil "tutormatch/pkg/http"
	"tutormatch/pkg/logger"
)

type SearchHandler struct {
	service         service.SearchService
	defaultRadiusKm float64
	log             *logger.Logger
}

func NewSearchHandler(service service.SearchService, defaultRadiusKm float64, log *logger.Logger) *SearchHandler {
	return &SearchHandler{
		service:         service,
		defaultRadiusKm: defaultRadiusKm,
		log:             log,
	}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	if query.Get("lat") == "" || query.Get("lng") == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Both 'lat' and 'lng' query parameters are required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	q := &validator.Query{
		Subject:  query.Get("subject"),
		Class:    query.Get("class"),
		Board:    query.Get("board"),
		Mode:     query.Get("mode"),
		FreeText: query.Get("q"),
		Sort:     query.Get("sort"),
	}

	floats := []struct {
		dst      *float64
		key      string
		fallback float64
	}{
		{&q.Lat, "lat", 0},
		{&q.Lng, "lng", 0},
		{&q.RadiusKm, "radius_km", h.defaultRadiusKm},
		{&q.MaxPrice, "max_price", 0},
		{&q.MinRating, "min_rating", 0},
	}
	for _, f := range floats {
		v, err := httputil.ExtractFloat(r, f.key, f.fallback)
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		*f.dst = v
	}

	var err error

	if q.Page, q.Limit, err = httputil.ExtractPageLimit(r); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	results, total, err := h.service.Search(r.Context(), q)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, results, total, q.Page, q.Limit); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "operation", "WritePaginated", "error", err)
	}
}

func (h *SearchHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	tutor, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, tutor); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SearchHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/tutors/search", h.Search)
	router.GET("/api/v1/tutors/id/:id", h.GetByID)
}
