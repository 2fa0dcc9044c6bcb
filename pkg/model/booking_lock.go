package model

import (
	"fmt"
	"time"
)

// BookingLock is an advisory lock document guarding concurrent booking
// creation for the same tutor slot. The unique _id turns the classic
// check-then-act race into a storage-level rejection; the lock expires via
// a TTL index so a crashed creator never wedges the slot.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// BookingLockID derives the lock identity from the slot coordinates.
func BookingLockID(tutorID, date, startTime string) string {
	return fmt.Sprintf("booking_lock_%s_%s_%s", tutorID, date, startTime)
}

// slotBucketMinutes is the lock granularity. Any two overlapping windows
// share at least one bucket, so concurrent creates for intersecting slots
// always contend on a common lock document.
const slotBucketMinutes = 30

// SlotLockIDs returns the lock ids for every bucket the half-open window
// [startTime, endTime) touches. Both values must be valid HH:MM.
func SlotLockIDs(tutorID, date, startTime, endTime string) []string {
	start := minuteOfDay(startTime)
	end := minuteOfDay(endTime)

	var ids []string
	for b := start - start%slotBucketMinutes; b < end; b += slotBucketMinutes {
		ids = append(ids, BookingLockID(tutorID, date, formatMinuteOfDay(b)))
	}
	return ids
}

func formatMinuteOfDay(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
