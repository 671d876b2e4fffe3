package dateutil

import (
	"fmt"
	"time"
)

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// DateIn returns the calendar date of t as seen in loc, at midnight
func DateIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return StartOfDay(t.In(loc))
}

// StartOfWeek returns the Sunday of the week for the given date
func StartOfWeek(date time.Time) time.Time {
	return StartOfDay(date.AddDate(0, 0, -int(date.Weekday())))
}

// Weekday returns the weekday index of the date (0=Sunday..6=Saturday)
func Weekday(date time.Time) int {
	return int(date.Weekday())
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// CompareDates compares the calendar dates of a and b, ignoring the clock.
// Both values are read in their own location.
func CompareDates(a, b time.Time) int {
	da, db := civil(a), civil(b)
	switch {
	case da.Before(db):
		return -1
	case da.After(db):
		return 1
	default:
		return 0
	}
}

// DaysBetween returns the signed number of calendar days from -> to.
// DST transitions do not affect the result.
func DaysBetween(from, to time.Time) int {
	return int(civil(to).Sub(civil(from)).Hours() / 24)
}

// civil maps the date part of t onto UTC midnight so day arithmetic is exact
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses date string in various formats in the given location
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	formats := []string{
		"2006-01-02",
		"02.01.2006",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04",
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, loc); err == nil {
			return t, nil
		}
	}

	if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return t.In(loc), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", dateStr)
}

// ParseClock parses an HH:MM string
func ParseClock(s string) (hour, minute int, err error) {
	if _, err = fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return hour, minute, nil
}

// Today returns today's date (start of day) in loc
func Today(loc *time.Location) time.Time {
	return DateIn(time.Now(), loc)
}
