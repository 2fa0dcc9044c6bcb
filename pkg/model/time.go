package model

import (
	"regexp"
	"time"
)

var hhmmRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidHHMM reports whether s is a zero-padded 24h wall-clock value.
func ValidHHMM(s string) bool {
	return hhmmRegex.MatchString(s)
}

// ValidCalendarDate reports whether s is a real YYYY-MM-DD date.
func ValidCalendarDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// MinutesBetween returns end minus start in minutes. Both values must be
// valid HH:MM; callers validate first.
func MinutesBetween(start, end string) int {
	return minuteOfDay(end) - minuteOfDay(start)
}

func minuteOfDay(hhmm string) int {
	h := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	m := int(hhmm[3]-'0')*10 + int(hhmm[4]-'0')
	return h*60 + m
}

// WindowsOverlap applies the half-open overlap rule to two same-day windows.
// Zero-padded HH:MM strings compare correctly with plain string ordering, so
// no parsing is needed here.
func WindowsOverlap(start1, end1, start2, end2 string) bool {
	return start1 < end2 && start2 < end1
}

// Contains reports whether the half-open window [start, end) falls entirely
// inside w.
func (w TimeWindow) Contains(start, end string) bool {
	return w.Start <= start && end <= w.End
}

// ValidWeekday reports whether name is a full English weekday name, the key
// format of the weekly availability template.
func ValidWeekday(name string) bool {
	switch name {
	case "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday":
		return true
	}
	return false
}
