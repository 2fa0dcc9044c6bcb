package model

import (
	"time"
)

const (
	StatusScheduled   = "scheduled"
	StatusConfirmed   = "confirmed"
	StatusInProgress  = "in_progress"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusNoShow      = "no_show"
	StatusRescheduled = "rescheduled"
)

const (
	RoleStudent  = "student"
	RoleTutor    = "tutor"
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

const (
	PaymentPending  = "pending"
	PaymentCaptured = "captured"
	PaymentRefunded = "refunded"
	PaymentFailed   = "failed"
)

const (
	MinSessionMinutes = 30
	MaxSessionMinutes = 180
)

// PricingSnapshot is stamped once at booking creation and never recalculated,
// even if the tutor's hourly rate changes later.
type PricingSnapshot struct {
	BaseAmount  float64 `json:"base_amount" bson:"base_amount"`
	TaxAmount   float64 `json:"tax_amount" bson:"tax_amount"`
	TotalAmount float64 `json:"total_amount" bson:"total_amount"`
}

type PaymentRecord struct {
	Status        string     `json:"status" bson:"status"`
	Method        string     `json:"method,omitempty" bson:"method,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty" bson:"transaction_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
}

// CancellationRecord exists only on cancelled bookings. RefundAmount is
// computed at the moment of cancellation, not at booking time.
type CancellationRecord struct {
	Reason         string    `json:"reason" bson:"reason"`
	CancelledBy    string    `json:"cancelled_by" bson:"cancelled_by"`
	CancelledAt    time.Time `json:"cancelled_at" bson:"cancelled_at"`
	RefundEligible bool      `json:"refund_eligible" bson:"refund_eligible"`
	RefundAmount   float64   `json:"refund_amount" bson:"refund_amount"`
}

// Booking is a committed or requested occupation of a tutor's calendar.
// Date is a calendar day (YYYY-MM-DD); StartTime and EndTime are same-day
// wall-clock HH:MM values. Cross-midnight sessions are rejected upstream.
type Booking struct {
	ID           string              `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TutorID      string              `json:"tutor_id" bson:"tutor_id" validate:"required,mongodb"`
	StudentID    string              `json:"student_id" bson:"student_id" validate:"required,mongodb"`
	Subject      string              `json:"subject" bson:"subject" validate:"required,min=2,max=100"`
	Class        string              `json:"class" bson:"class" validate:"required,min=1,max=20"`
	Board        string              `json:"board" bson:"board" validate:"required,min=2,max=50"`
	Date         string              `json:"date" bson:"date" validate:"required,calendar_date"`
	StartTime    string              `json:"start_time" bson:"start_time" validate:"required,hhmm"`
	EndTime      string              `json:"end_time" bson:"end_time" validate:"required,hhmm"`
	DurationMin  int                 `json:"duration_min" bson:"duration_min" validate:"required,min=30,max=180"`
	Mode         string              `json:"mode" bson:"mode" validate:"required,oneof=online offline"`
	Location     string              `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	Topics       []string            `json:"topics,omitempty" bson:"topics,omitempty" validate:"omitempty,max=20,dive,min=1,max=100"`
	Pricing      PricingSnapshot     `json:"pricing" bson:"pricing"`
	Payment      PaymentRecord       `json:"payment" bson:"payment"`
	Cancellation *CancellationRecord `json:"cancellation,omitempty" bson:"cancellation,omitempty"`
	Status       string              `json:"status" bson:"status" validate:"omitempty,oneof=scheduled confirmed in_progress completed cancelled no_show rescheduled"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time           `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Active reports whether the booking occupies its slot for conflict purposes.
func (b *Booking) Active() bool {
	switch b.Status {
	case StatusScheduled, StatusConfirmed, StatusInProgress:
		return true
	}
	return false
}

// Terminal reports whether the booking can no longer change state except for
// payment/refund bookkeeping.
func (b *Booking) Terminal() bool {
	switch b.Status {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// StartsAt resolves the scheduled start as a point in time in loc.
func (b *Booking) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", b.Date+" "+b.StartTime, loc)
}

// StatusUpdate is the payload for a lifecycle transition request.
type StatusUpdate struct {
	ActorRole string `json:"actor_role" validate:"required,oneof=student tutor admin employee"`
	Status    string `json:"status" validate:"required,oneof=scheduled confirmed in_progress completed cancelled no_show rescheduled"`
	Reason    string `json:"reason,omitempty" validate:"omitempty,max=500"`

	// Gateway transaction backing a confirmation. Confirming requires the
	// gateway to report the payment captured.
	TransactionID string `json:"transaction_id,omitempty" validate:"omitempty,max=100"`

	// Reschedule target. Required when Status is "rescheduled".
	Date      string `json:"date,omitempty" validate:"omitempty,calendar_date"`
	StartTime string `json:"start_time,omitempty" validate:"omitempty,hhmm"`
	EndTime   string `json:"end_time,omitempty" validate:"omitempty,hhmm"`
}

// CancellationRequest is the payload for cancelling a booking.
type CancellationRequest struct {
	ActorRole string `json:"actor_role" validate:"required,oneof=student tutor admin employee"`
	Reason    string `json:"reason" validate:"required,min=2,max=500"`
}
