package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

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

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
	now      func() time.Time
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
		log.Fatal("Failed to register 'hhmm' validator", "error", err)
	}
	if err := v.RegisterValidation("calendar_date", validateCalendarDate); err != nil {
		log.Fatal("Failed to register 'calendar_date' validator", "error", err)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
		now:      time.Now,
	}
}

func validateHHMM(fl validator.FieldLevel) bool {
	return model.ValidHHMM(fl.Field().String())
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	return model.ValidCalendarDate(fl.Field().String())
}

// Validate checks the structural fields, the slot shape, and that the
// session start, interpreted in loc, is not already in the past.
func (v *BookingValidator) Validate(booking *model.Booking, loc *time.Location) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if errs := v.validateSlot(booking.StartTime, booking.EndTime, booking.DurationMin); errs != nil {
		return errs
	}

	if loc == nil {
		loc = time.Local
	}
	startsAt, err := booking.StartsAt(loc)
	if err != nil {
		return ValidationErrors{
			ValidationError{
				Field:   "StartTime",
				Message: "date and start_time do not form a valid timestamp",
			},
		}
	}
	if startsAt.Before(v.now()) {
		return ValidationErrors{
			ValidationError{
				Field:   "StartTime",
				Message: "session start cannot be in the past",
			},
		}
	}

	return nil
}

// ValidateSlot checks a (date, start, end, duration) tuple on its own, used
// for reschedule targets where only the slot changes.
func (v *BookingValidator) ValidateSlot(date, startTime, endTime string) error {
	if !model.ValidCalendarDate(date) {
		return ValidationErrors{
			ValidationError{Field: "Date", Message: "date must be a valid YYYY-MM-DD value"},
		}
	}
	if !model.ValidHHMM(startTime) || !model.ValidHHMM(endTime) {
		return ValidationErrors{
			ValidationError{Field: "StartTime", Message: "start_time and end_time must be 24h HH:MM values"},
		}
	}
	if errs := v.validateSlot(startTime, endTime, model.MinutesBetween(startTime, endTime)); errs != nil {
		return errs
	}
	return nil
}

func (v *BookingValidator) validateSlot(startTime, endTime string, durationMin int) ValidationErrors {
	if endTime <= startTime {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time; sessions cannot cross midnight",
			},
		}
	}

	minutes := model.MinutesBetween(startTime, endTime)
	if minutes != durationMin {
		return ValidationErrors{
			ValidationError{
				Field:   "DurationMin",
				Message: fmt.Sprintf("duration_min (%d) does not match the %d minute window", durationMin, minutes),
			},
		}
	}
	if minutes < model.MinSessionMinutes || minutes > model.MaxSessionMinutes {
		return ValidationErrors{
			ValidationError{
				Field:   "DurationMin",
				Message: fmt.Sprintf("session must last between %d and %d minutes", model.MinSessionMinutes, model.MaxSessionMinutes),
			},
		}
	}

	return nil
}

func (v *BookingValidator) ValidateStatusUpdate(update *model.StatusUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.Status == model.StatusRescheduled {
		if update.Date == "" || update.StartTime == "" || update.EndTime == "" {
			return ValidationErrors{
				ValidationError{
					Field:   "Status",
					Message: "rescheduling requires date, start_time and end_time",
				},
			}
		}
		if err := v.ValidateSlot(update.Date, update.StartTime, update.EndTime); err != nil {
			return err
		}
	}

	return nil
}

func (v *BookingValidator) ValidateCancellation(req *model.CancellationRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "hhmm":
			message = fmt.Sprintf("%s must be a 24h HH:MM value", err.Field())
		case "calendar_date":
			message = fmt.Sprintf("%s must be a valid YYYY-MM-DD value", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
