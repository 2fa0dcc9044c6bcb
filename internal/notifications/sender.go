// Package notifications consumes booking events and dispatches the rendered
// email/SMS messages. Delivery transport guarantees are out of scope here;
// the sender renders the template and hands off to the provider client.
package notifications

import (
	"context"
	"fmt"

	"tutormatch/pkg/kafka"
	"tutormatch/pkg/logger"
	"tutormatch/pkg/notify"
)

// Dispatcher delivers one rendered message per recipient. The log dispatcher
// stands in until a provider integration is configured.
type Dispatcher interface {
	Send(ctx context.Context, recipientID, subject, body string) error
}

type LogDispatcher struct {
	log *logger.Logger
}

func NewLogDispatcher(log *logger.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Send(ctx context.Context, recipientID, subject, body string) error {
	d.log.Info("Notification dispatched",
		"recipient_id", recipientID,
		"subject", subject,
		"body", body,
	)
	return nil
}

// Sender turns booking events into per-recipient messages. Both sides of a
// booking are notified on every lifecycle event.
type Sender struct {
	dispatcher Dispatcher
	log        *logger.Logger
}

func NewSender(dispatcher Dispatcher, log *logger.Logger) *Sender {
	return &Sender{
		dispatcher: dispatcher,
		log:        log,
	}
}

// Handle is the kafka consumer entry point.
func (s *Sender) Handle(ctx context.Context, msg kafka.Message) error {
	var event notify.Event
	if err := msg.DecodeValue(&event); err != nil {
		s.log.Error("Failed to decode notification event",
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"error", err,
		)
		// Malformed payloads never become deliverable by retrying.
		return nil
	}

	subject, body := s.render(&event)

	for _, recipient := range []string{event.StudentID, event.TutorID} {
		if recipient == "" {
			continue
		}
		if err := s.dispatcher.Send(ctx, recipient, subject, body); err != nil {
			s.log.Error("Failed to dispatch notification",
				"event_id", msg.GetEventID(),
				"recipient_id", recipient,
				"error", err,
			)
			return err
		}
	}

	return nil
}

func (s *Sender) render(event *notify.Event) (string, string) {
	switch event.Template {
	case notify.TemplateBookingCreated:
		return "Session booked",
			fmt.Sprintf("Your session on %v at %v is booked. Total: %v.",
				event.Data["date"], event.Data["start_time"], event.Data["total"])
	case notify.TemplateBookingConfirmed:
		return "Session confirmed",
			fmt.Sprintf("Your session on %v at %v is confirmed.",
				event.Data["date"], event.Data["start_time"])
	case notify.TemplateBookingCancelled:
		return "Session cancelled",
			fmt.Sprintf("Your session on %v at %v was cancelled. Refund: %v.",
				event.Data["date"], event.Data["start_time"], event.Data["refund_amount"])
	default:
		return "Booking update",
			fmt.Sprintf("Your booking %s changed status to %v.",
				event.BookingID, event.Data["status"])
	}
}
