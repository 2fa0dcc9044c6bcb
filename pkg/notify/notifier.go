// Package notify is the hook between booking state transitions and the
// email/SMS templating collaborator. Delivery is fire-and-forget: publish
// failures are logged and swallowed, a completed state transition always
// stands.
package notify

import (
	"context"
	"time"

	"tutormatch/pkg/kafka"
	"tutormatch/pkg/logger"
	"tutormatch/pkg/model"
)

// TopicBookingEvents is the bus topic carrying booking lifecycle events.
const TopicBookingEvents = "booking-events"

const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingCancelled     = "booking.cancelled"
)

const (
	TemplateBookingCreated   = "booking_created"
	TemplateBookingConfirmed = "booking_confirmed"
	TemplateBookingCancelled = "booking_cancelled"
	TemplateStatusChanged    = "booking_status_changed"
)

// Event is the payload the downstream notification sender renders into
// email and SMS per recipient.
type Event struct {
	Type       string         `json:"type"`
	BookingID  string         `json:"booking_id"`
	TutorID    string         `json:"tutor_id"`
	StudentID  string         `json:"student_id"`
	Template   string         `json:"template"`
	Data       map[string]any `json:"data"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type Notifier interface {
	BookingCreated(ctx context.Context, b *model.Booking)
	BookingStatusChanged(ctx context.Context, b *model.Booking, previousStatus string)
	BookingCancelled(ctx context.Context, b *model.Booking)
}

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaNotifier publishes booking events to the notification topic.
type KafkaNotifier struct {
	producer publisher
	source   string
	log      *logger.Logger
}

func NewKafkaNotifier(producer publisher, source string, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (n *KafkaNotifier) BookingCreated(ctx context.Context, b *model.Booking) {
	n.publish(ctx, Event{
		Type:      EventBookingCreated,
		BookingID: b.ID,
		TutorID:   b.TutorID,
		StudentID: b.StudentID,
		Template:  TemplateBookingCreated,
		Data: map[string]any{
			"subject":    b.Subject,
			"date":       b.Date,
			"start_time": b.StartTime,
			"end_time":   b.EndTime,
			"mode":       b.Mode,
			"total":      b.Pricing.TotalAmount,
		},
		OccurredAt: time.Now().UTC(),
	})
}

func (n *KafkaNotifier) BookingStatusChanged(ctx context.Context, b *model.Booking, previousStatus string) {
	template := TemplateStatusChanged
	if b.Status == model.StatusConfirmed {
		template = TemplateBookingConfirmed
	}
	n.publish(ctx, Event{
		Type:      EventBookingStatusChanged,
		BookingID: b.ID,
		TutorID:   b.TutorID,
		StudentID: b.StudentID,
		Template:  template,
		Data: map[string]any{
			"previous_status": previousStatus,
			"status":          b.Status,
			"date":            b.Date,
			"start_time":      b.StartTime,
		},
		OccurredAt: time.Now().UTC(),
	})
}

func (n *KafkaNotifier) BookingCancelled(ctx context.Context, b *model.Booking) {
	data := map[string]any{
		"date":       b.Date,
		"start_time": b.StartTime,
	}
	if b.Cancellation != nil {
		data["cancelled_by"] = b.Cancellation.CancelledBy
		data["reason"] = b.Cancellation.Reason
		data["refund_amount"] = b.Cancellation.RefundAmount
	}
	n.publish(ctx, Event{
		Type:       EventBookingCancelled,
		BookingID:  b.ID,
		TutorID:    b.TutorID,
		StudentID:  b.StudentID,
		Template:   TemplateBookingCancelled,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	})
}

func (n *KafkaNotifier) publish(ctx context.Context, event Event) {
	msg := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(event.Type).
		WithSource(n.source).
		Build()

	if err := n.producer.Publish(ctx, msg); err != nil {
		n.log.Error("Failed to publish notification event",
			"event_type", event.Type,
			"booking_id", event.BookingID,
			"error", err,
		)
	}
}

// NopNotifier discards all events. Used in tests and when the bus is not
// configured.
type NopNotifier struct{}

func (NopNotifier) BookingCreated(context.Context, *model.Booking)               {}
func (NopNotifier) BookingStatusChanged(context.Context, *model.Booking, string) {}
func (NopNotifier) BookingCancelled(context.Context, *model.Booking)             {}
