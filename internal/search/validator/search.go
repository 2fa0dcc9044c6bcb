package validator

import (
	"fmt"
	"strings"

	"tutormatch/pkg/geo"
	"tutormatch/pkg/logger"
	"tutormatch/pkg/model"
)

var sortKeys = map[string]bool{
	"rating":     true,
	"price_asc":  true,
	"price_desc": true,
	"distance":   true,
	"experience": true,
}

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

// Query is a normalized tutor search request.
type Query struct {
	Lat      float64
	Lng      float64
	RadiusKm float64

	Subject  string
	Class    string
	Board    string
	Mode     string
	FreeText string

	MaxPrice  float64
	MinRating float64

	Sort  string
	Page  int
	Limit int
}

// SearchValidator checks query bounds. Query parameters do not flow through
// struct tags, so the checks are explicit.
type SearchValidator struct {
	maxRadiusKm float64
	logger      *logger.Logger
}

func NewSearchValidator(maxRadiusKm float64, log *logger.Logger) *SearchValidator {
	log.Info("Search validator initialized successfully", "max_radius_km", maxRadiusKm)
	return &SearchValidator{
		maxRadiusKm: maxRadiusKm,
		logger:      log,
	}
}

func (v *SearchValidator) Validate(q *Query) error {
	var errs ValidationErrors

	if !geo.ValidCoordinate(q.Lat, q.Lng) {
		errs = append(errs, ValidationError{
			Field:   "lat/lng",
			Message: "latitude must be in [-90, 90] and longitude in [-180, 180]",
		})
	}
	if q.RadiusKm <= 0 {
		errs = append(errs, ValidationError{
			Field:   "radius_km",
			Message: "radius_km must be positive",
		})
	} else if q.RadiusKm > v.maxRadiusKm {
		errs = append(errs, ValidationError{
			Field:   "radius_km",
			Message: fmt.Sprintf("radius_km must not exceed %.0f", v.maxRadiusKm),
		})
	}
	if q.Mode != "" && q.Mode != model.ModeOnline && q.Mode != model.ModeOffline {
		errs = append(errs, ValidationError{
			Field:   "mode",
			Message: "mode must be online or offline",
		})
	}
	if q.MaxPrice < 0 {
		errs = append(errs, ValidationError{
			Field:   "max_price",
			Message: "max_price cannot be negative",
		})
	}
	if q.MinRating < 0 || q.MinRating > 5 {
		errs = append(errs, ValidationError{
			Field:   "min_rating",
			Message: "min_rating must be in [0, 5]",
		})
	}
	if q.Sort != "" && !sortKeys[q.Sort] {
		errs = append(errs, ValidationError{
			Field:   "sort",
			Message: "sort must be one of: rating, price_asc, price_desc, distance, experience",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
