package validator

import (
	"testing"
	"time"

	"tutormatch/pkg/logger"
	"tutormatch/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Service: "test",
	})
}

func validBooking() *model.Booking {
	return &model.Booking{
		TutorID:     "66f000000000000000000001",
		StudentID:   "66f000000000000000000002",
		Subject:     "Math",
		Class:       "10",
		Board:       "cbse",
		Date:        "2026-09-10",
		StartTime:   "10:00",
		EndTime:     "11:00",
		DurationMin: 60,
		Mode:        model.ModeOnline,
	}
}

func fixedNowValidator(t *testing.T, now time.Time) *BookingValidator {
	t.Helper()
	v := NewBookingValidator(testLogger())
	v.now = func() time.Time { return now }
	return v
}

func TestValidate_AcceptsWellFormedBooking(t *testing.T) {
	v := fixedNowValidator(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local))
	if err := v.Validate(validBooking(), time.Local); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *model.Booking)
	}{
		{"missing tutor id", func(b *model.Booking) { b.TutorID = "" }},
		{"malformed tutor id", func(b *model.Booking) { b.TutorID = "not-an-object-id" }},
		{"bad date format", func(b *model.Booking) { b.Date = "10-09-2026" }},
		{"impossible date", func(b *model.Booking) { b.Date = "2026-02-30" }},
		{"bad start time", func(b *model.Booking) { b.StartTime = "25:00" }},
		{"seconds not allowed", func(b *model.Booking) { b.EndTime = "11:00:00" }},
		{"unknown mode", func(b *model.Booking) { b.Mode = "hybrid" }},
		{"end before start", func(b *model.Booking) { b.StartTime = "11:00"; b.EndTime = "10:00"; b.DurationMin = 60 }},
		{"end equals start", func(b *model.Booking) { b.EndTime = "10:00" }},
		{"cross midnight", func(b *model.Booking) { b.StartTime = "23:30"; b.EndTime = "00:30" }},
		{"duration mismatch", func(b *model.Booking) { b.DurationMin = 90 }},
		{"too short", func(b *model.Booking) { b.EndTime = "10:15"; b.DurationMin = 15 }},
		{"too long", func(b *model.Booking) { b.StartTime = "08:00"; b.EndTime = "12:00"; b.DurationMin = 240 }},
	}

	v := fixedNowValidator(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking()
			tt.mutate(booking)
			if err := v.Validate(booking, time.Local); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_RejectsPastStart(t *testing.T) {
	v := fixedNowValidator(t, time.Date(2026, 9, 10, 10, 30, 0, 0, time.Local))
	booking := validBooking()
	if err := v.Validate(booking, time.Local); err == nil {
		t.Error("expected error for session starting in the past")
	}
}

func TestValidate_PastStartUsesGivenZone(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("failed to load zone: %v", err)
	}

	// 10:00 IST on 2026-09-10 is 04:30 UTC. At 05:00 UTC the session has
	// already started in the tutor's zone.
	v := fixedNowValidator(t, time.Date(2026, 9, 10, 5, 0, 0, 0, time.UTC))
	if err := v.Validate(validBooking(), kolkata); err == nil {
		t.Error("expected error for session already started in the given zone")
	}
	if err := v.Validate(validBooking(), time.UTC); err != nil {
		t.Errorf("unexpected error for session still ahead in UTC: %v", err)
	}
}

func TestValidateStatusUpdate_RescheduleNeedsTargetSlot(t *testing.T) {
	v := NewBookingValidator(testLogger())

	update := &model.StatusUpdate{
		ActorRole: model.RoleStudent,
		Status:    model.StatusRescheduled,
	}
	if err := v.ValidateStatusUpdate(update); err == nil {
		t.Error("expected error when the target slot is missing")
	}

	update.Date = "2026-09-12"
	update.StartTime = "14:00"
	update.EndTime = "15:00"
	if err := v.ValidateStatusUpdate(update); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateStatusUpdate_RejectsUnknownRoleAndStatus(t *testing.T) {
	v := NewBookingValidator(testLogger())

	if err := v.ValidateStatusUpdate(&model.StatusUpdate{ActorRole: "superuser", Status: model.StatusConfirmed}); err == nil {
		t.Error("expected error for unknown role")
	}
	if err := v.ValidateStatusUpdate(&model.StatusUpdate{ActorRole: model.RoleTutor, Status: "archived"}); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestValidateSlot_RejectsBadTargets(t *testing.T) {
	v := NewBookingValidator(testLogger())

	tests := []struct {
		name  string
		date  string
		start string
		end   string
	}{
		{"bad date", "next tuesday", "10:00", "11:00"},
		{"bad times", "2026-09-12", "10am", "11am"},
		{"inverted window", "2026-09-12", "11:00", "10:00"},
		{"too short", "2026-09-12", "10:00", "10:20"},
		{"too long", "2026-09-12", "08:00", "12:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.ValidateSlot(tt.date, tt.start, tt.end); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := v.ValidateSlot("2026-09-12", "10:00", "11:30"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateCancellation(t *testing.T) {
	v := NewBookingValidator(testLogger())

	if err := v.ValidateCancellation(&model.CancellationRequest{ActorRole: model.RoleStudent, Reason: "schedule clash"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.ValidateCancellation(&model.CancellationRequest{ActorRole: model.RoleStudent}); err == nil {
		t.Error("expected error for missing reason")
	}
	if err := v.ValidateCancellation(&model.CancellationRequest{ActorRole: "guest", Reason: "whatever"}); err == nil {
		t.Error("expected error for unknown role")
	}
}
