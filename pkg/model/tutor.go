package model

import (
	"strings"
	"time"
)

const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeBoth    = "both"
)

const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// GeoPoint is a GeoJSON Point as stored in the 2dsphere-indexed
// location field. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) != 2 {
		return 0
	}
	return p.Coordinates[1]
}

func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) != 2 {
		return 0
	}
	return p.Coordinates[0]
}

// SubjectOffering is one (subject, classes, boards, price) tuple a tutor
// teaches. A tutor with no offering matching the search filters is excluded
// from results even if it falls inside the geo window.
type SubjectOffering struct {
	Subject      string   `json:"subject" bson:"subject" validate:"required,min=2,max=100"`
	Classes      []string `json:"classes" bson:"classes" validate:"required,min=1,dive,min=1,max=20"`
	Boards       []string `json:"boards" bson:"boards" validate:"required,min=1,dive,min=2,max=50"`
	PricePerHour float64  `json:"price_per_hour" bson:"price_per_hour" validate:"required,gt=0"`
}

// TutorCandidate is the read-only search projection of a tutor profile.
// It is owned by the profile directory; the core never writes it.
type TutorCandidate struct {
	ID                 string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name               string            `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Location           GeoPoint          `json:"location" bson:"location" validate:"required"`
	Subjects           []SubjectOffering `json:"subjects" bson:"subjects" validate:"required,min=1,dive"`
	TeachingModes      []string          `json:"teaching_modes" bson:"teaching_modes" validate:"required,min=1,dive,oneof=online offline both"`
	RatingAvg          float64           `json:"rating_avg" bson:"rating_avg" validate:"gte=0,lte=5"`
	ExperienceYears    int               `json:"experience_years" bson:"experience_years" validate:"gte=0,lte=60"`
	VerificationStatus string            `json:"verification_status" bson:"verification_status" validate:"required,oneof=pending verified rejected"`
	IsBookingEnabled   bool              `json:"is_booking_enabled" bson:"is_booking_enabled"`
	CreatedAt          time.Time         `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// Eligible reports whether the tutor may appear in search results at all.
func (t *TutorCandidate) Eligible() bool {
	return t.VerificationStatus == VerificationVerified && t.IsBookingEnabled
}

// TeachesMode reports whether the tutor supports the requested teaching mode.
// A tutor declaring "both" matches online and offline requests.
func (t *TutorCandidate) TeachesMode(mode string) bool {
	for _, m := range t.TeachingModes {
		if m == ModeBoth || m == mode {
			return true
		}
	}
	return false
}

// MatchingOfferings returns the offerings that satisfy the subject, class and
// board filters. Subject matching is exact, case-insensitive; empty filter
// values match everything.
func (t *TutorCandidate) MatchingOfferings(subject, class, board string) []SubjectOffering {
	var matched []SubjectOffering
	for _, o := range t.Subjects {
		if subject != "" && !strings.EqualFold(o.Subject, subject) {
			continue
		}
		if class != "" && !containsFold(o.Classes, class) {
			continue
		}
		if board != "" && !containsFold(o.Boards, board) {
			continue
		}
		matched = append(matched, o)
	}
	return matched
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
