package validator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"tutormatch/pkg/logger"
	"tutormatch/pkg/model"
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

type AvailabilityValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAvailabilityValidator(log *logger.Logger) *AvailabilityValidator {
	v := validator.New()

	if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
		log.Fatal("Failed to register 'hhmm' validator", "error", err)
	}
	if err := v.RegisterValidation("weekly_windows", validateWeeklyWindows); err != nil {
		log.Fatal("Failed to register 'weekly_windows' validator", "error", err)
	}
	if err := v.RegisterValidation("override_windows", validateOverrideWindows); err != nil {
		log.Fatal("Failed to register 'override_windows' validator", "error", err)
	}

	log.Info("Availability validator initialized successfully")

	return &AvailabilityValidator{
		validate: v,
		logger:   log,
	}
}

func validateHHMM(fl validator.FieldLevel) bool {
	return model.ValidHHMM(fl.Field().String())
}

// validateWeeklyWindows checks the weekly template: full weekday names as
// keys, well-formed non-overlapping windows as values.
func validateWeeklyWindows(fl validator.FieldLevel) bool {
	windows, ok := fl.Field().Interface().(map[string][]model.TimeWindow)
	if !ok {
		return false
	}

	for day, list := range windows {
		if !model.ValidWeekday(day) {
			return false
		}
		if !validWindowList(list) {
			return false
		}
	}
	return true
}

// validateOverrideWindows checks ad-hoc date overrides. An empty window list
// is legal and marks the whole day closed.
func validateOverrideWindows(fl validator.FieldLevel) bool {
	windows, ok := fl.Field().Interface().(map[string][]model.TimeWindow)
	if !ok {
		return false
	}

	for date, list := range windows {
		if !model.ValidCalendarDate(date) {
			return false
		}
		if !validWindowList(list) {
			return false
		}
	}
	return true
}

func validWindowList(list []model.TimeWindow) bool {
	for _, w := range list {
		if !model.ValidHHMM(w.Start) || !model.ValidHHMM(w.End) {
			return false
		}
		if w.End <= w.Start {
			return false
		}
	}

	sorted := make([]model.TimeWindow, len(list))
	copy(sorted, list)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < sorted[i-1].End {
			return false
		}
	}
	return true
}

func (v *AvailabilityValidator) Validate(a *model.Availability) error {
	if err := v.validate.Struct(a); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if len(a.Weekly) == 0 {
		return ValidationErrors{
			ValidationError{
				Field:   "Weekly",
				Message: "weekly template must declare at least one weekday",
			},
		}
	}

	return nil
}

func (v *AvailabilityValidator) ValidateUpdate(update *model.AvailabilityUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.Weekly == nil && update.DateOverrides == nil && update.TimeZone == "" {
		return ValidationErrors{
			ValidationError{
				Field:   "Update",
				Message: "at least one field must be provided",
			},
		}
	}

	if update.Weekly != nil {
		for day, list := range *update.Weekly {
			if !model.ValidWeekday(day) || !validWindowList(list) {
				return ValidationErrors{
					ValidationError{
						Field:   "Weekly",
						Message: fmt.Sprintf("invalid weekly windows for %q", day),
					},
				}
			}
		}
	}
	if update.DateOverrides != nil {
		for date, list := range *update.DateOverrides {
			if !model.ValidCalendarDate(date) || !validWindowList(list) {
				return ValidationErrors{
					ValidationError{
						Field:   "DateOverrides",
						Message: fmt.Sprintf("invalid override windows for %q", date),
					},
				}
			}
		}
	}

	return nil
}

func (v *AvailabilityValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "hhmm":
			message = fmt.Sprintf("%s must be a 24h HH:MM value", err.Field())
		case "weekly_windows":
			message = fmt.Sprintf("%s must map weekday names to non-overlapping HH:MM windows", err.Field())
		case "override_windows":
			message = fmt.Sprintf("%s must map YYYY-MM-DD dates to non-overlapping HH:MM windows", err.Field())
		case "timezone":
			message = fmt.Sprintf("%s must be a valid IANA time zone", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
