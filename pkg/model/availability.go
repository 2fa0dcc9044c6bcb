package model

import "time"

// TimeWindow is an open window on a tutor's calendar, wall-clock HH:MM,
// half-open [Start, End).
type TimeWindow struct {
	Start string `json:"start" bson:"start" validate:"required,hhmm"`
	End   string `json:"end" bson:"end" validate:"required,hhmm"`
}

// Availability is a tutor's declared calendar: a weekly template keyed by
// weekday name plus ad-hoc per-date overrides. An override with an empty
// window list marks the whole day closed.
type Availability struct {
	ID            string                  `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TutorID       string                  `json:"tutor_id" bson:"tutor_id" validate:"required,mongodb"`
	Weekly        map[string][]TimeWindow `json:"weekly" bson:"weekly" validate:"required,weekly_windows"`
	DateOverrides map[string][]TimeWindow `json:"date_overrides,omitempty" bson:"date_overrides,omitempty" validate:"omitempty,override_windows"`
	TimeZone      string                  `json:"time_zone,omitempty" bson:"time_zone,omitempty" validate:"omitempty,timezone"`
	CreatedAt     time.Time               `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt     time.Time               `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// AvailabilityUpdate carries partial calendar changes.
type AvailabilityUpdate struct {
	Weekly        *map[string][]TimeWindow `json:"weekly,omitempty" validate:"omitempty"`
	DateOverrides *map[string][]TimeWindow `json:"date_overrides,omitempty" validate:"omitempty"`
	TimeZone      string                   `json:"time_zone,omitempty" validate:"omitempty,timezone"`
}

// WindowsFor resolves the open windows for a calendar date. A date override
// wins over the weekly template.
func (a *Availability) WindowsFor(date string, weekday time.Weekday) []TimeWindow {
	if a.DateOverrides != nil {
		if windows, ok := a.DateOverrides[date]; ok {
			return windows
		}
	}
	return a.Weekly[weekday.String()]
}
