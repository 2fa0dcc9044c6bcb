package validator

import (
	"testing"

	"tutormatch/pkg/logger"
	"tutormatch/pkg/model"
)

func newTestValidator() *AvailabilityValidator {
	return NewAvailabilityValidator(logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Service: "test",
	}))
}

func validCalendar() *model.Availability {
	return &model.Availability{
		TutorID: "66f000000000000000000001",
		Weekly: map[string][]model.TimeWindow{
			"Monday":    {{Start: "09:00", End: "12:00"}, {Start: "14:00", End: "18:00"}},
			"Wednesday": {{Start: "10:00", End: "13:00"}},
		},
		DateOverrides: map[string][]model.TimeWindow{
			"2026-10-02": {{Start: "11:00", End: "12:00"}},
			"2026-10-05": {},
		},
		TimeZone: "Asia/Kolkata",
	}
}

func TestValidate_AcceptsWellFormedCalendar(t *testing.T) {
	v := newTestValidator()
	if err := v.Validate(validCalendar()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RejectsBadCalendars(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *model.Availability)
	}{
		{"missing tutor id", func(a *model.Availability) { a.TutorID = "" }},
		{"empty weekly template", func(a *model.Availability) { a.Weekly = map[string][]model.TimeWindow{} }},
		{"abbreviated weekday", func(a *model.Availability) {
			a.Weekly["Mon"] = []model.TimeWindow{{Start: "09:00", End: "10:00"}}
		}},
		{"lowercase weekday", func(a *model.Availability) {
			a.Weekly["monday"] = []model.TimeWindow{{Start: "09:00", End: "10:00"}}
		}},
		{"overlapping windows", func(a *model.Availability) {
			a.Weekly["Monday"] = []model.TimeWindow{
				{Start: "09:00", End: "12:00"},
				{Start: "11:00", End: "14:00"},
			}
		}},
		{"inverted window", func(a *model.Availability) {
			a.Weekly["Monday"] = []model.TimeWindow{{Start: "12:00", End: "09:00"}}
		}},
		{"zero-length window", func(a *model.Availability) {
			a.Weekly["Monday"] = []model.TimeWindow{{Start: "09:00", End: "09:00"}}
		}},
		{"malformed time", func(a *model.Availability) {
			a.Weekly["Monday"] = []model.TimeWindow{{Start: "9:00", End: "10:00"}}
		}},
		{"bad override date", func(a *model.Availability) {
			a.DateOverrides["02-10-2026"] = []model.TimeWindow{{Start: "11:00", End: "12:00"}}
		}},
		{"overlapping override windows", func(a *model.Availability) {
			a.DateOverrides["2026-10-02"] = []model.TimeWindow{
				{Start: "10:00", End: "12:00"},
				{Start: "11:30", End: "13:00"},
			}
		}},
		{"bad time zone", func(a *model.Availability) { a.TimeZone = "Mars/Olympus" }},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validCalendar()
			tt.mutate(a)
			if err := v.Validate(a); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_TouchingWindowsAllowed(t *testing.T) {
	v := newTestValidator()
	a := validCalendar()
	a.Weekly["Monday"] = []model.TimeWindow{
		{Start: "09:00", End: "12:00"},
		{Start: "12:00", End: "15:00"},
	}
	if err := v.Validate(a); err != nil {
		t.Fatalf("back-to-back windows should be legal: %v", err)
	}
}

func TestValidateUpdate(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateUpdate(&model.AvailabilityUpdate{}); err == nil {
		t.Error("expected error for empty update")
	}

	badWeekly := map[string][]model.TimeWindow{
		"Funday": {{Start: "09:00", End: "10:00"}},
	}
	if err := v.ValidateUpdate(&model.AvailabilityUpdate{Weekly: &badWeekly}); err == nil {
		t.Error("expected error for unknown weekday")
	}

	overlapping := map[string][]model.TimeWindow{
		"2026-10-02": {
			{Start: "09:00", End: "11:00"},
			{Start: "10:00", End: "12:00"},
		},
	}
	if err := v.ValidateUpdate(&model.AvailabilityUpdate{DateOverrides: &overlapping}); err == nil {
		t.Error("expected error for overlapping override windows")
	}

	goodWeekly := map[string][]model.TimeWindow{
		"Tuesday": {{Start: "09:00", End: "11:00"}},
	}
	if err := v.ValidateUpdate(&model.AvailabilityUpdate{Weekly: &goodWeekly}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := v.ValidateUpdate(&model.AvailabilityUpdate{TimeZone: "Europe/Berlin"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
