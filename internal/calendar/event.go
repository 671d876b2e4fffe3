package calendar

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrInvalidEvent is returned when an event record violates the model invariants
var ErrInvalidEvent = errors.New("invalid event")

// Category is a display/grouping tag of an event
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryMeeting  Category = "meeting"
)

// ParseCategory parses a category name
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryWork, CategoryPersonal, CategoryMeeting:
		return c, nil
	default:
		return "", fmt.Errorf("unknown category %q (want work, personal or meeting)", s)
	}
}

// RecurrencePattern selects the expansion rule of an event
type RecurrencePattern string

const (
	RecurrenceNone   RecurrencePattern = "none"
	RecurrenceDaily  RecurrencePattern = "daily"
	RecurrenceWeekly RecurrencePattern = "weekly"
)

// ParseRecurrencePattern parses a recurrence pattern name
func ParseRecurrencePattern(s string) (RecurrencePattern, error) {
	switch p := RecurrencePattern(strings.ToLower(strings.TrimSpace(s))); p {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly:
		return p, nil
	case "":
		return RecurrenceNone, nil
	default:
		return "", fmt.Errorf("unknown recurrence %q (want none, daily or weekly)", s)
	}
}

// WeeklyRecurrence holds the weekdays (0=Sunday..6=Saturday) a weekly event occurs on
type WeeklyRecurrence struct {
	DaysOfWeek []int `json:"days_of_week" yaml:"days_of_week"`
}

// Event is a stored calendar event. StartTime anchors the recurrence: it is the
// first possible occurrence and carries the time-of-day and duration of every instance.
type Event struct {
	ID                string            `json:"id" yaml:"id"`
	Title             string            `json:"title" yaml:"title"`
	StartTime         time.Time         `json:"start_time" yaml:"start_time"`
	EndTime           time.Time         `json:"end_time" yaml:"end_time"`
	Category          Category          `json:"category" yaml:"category"`
	RecurrencePattern RecurrencePattern `json:"recurrence_pattern" yaml:"recurrence_pattern"`
	WeeklyRecurrence  *WeeklyRecurrence `json:"weekly_recurrence,omitempty" yaml:"weekly_recurrence,omitempty"`
}

// EventDraft is an event that has not been assigned an id yet
type EventDraft struct {
	Title             string
	StartTime         time.Time
	EndTime           time.Time
	Category          Category
	RecurrencePattern RecurrencePattern
	WeeklyRecurrence  *WeeklyRecurrence
}

// WithID turns the draft into an event record
func (d EventDraft) WithID(id string) Event {
	return Event{
		ID:                id,
		Title:             d.Title,
		StartTime:         d.StartTime,
		EndTime:           d.EndTime,
		Category:          d.Category,
		RecurrencePattern: d.RecurrencePattern,
		WeeklyRecurrence:  d.WeeklyRecurrence,
	}
}

// Duration returns the length of every instance of the event
func (e Event) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// IsRecurring reports whether the event expands into more than one instance
func (e Event) IsRecurring() bool {
	return e.RecurrencePattern == RecurrenceDaily || e.RecurrencePattern == RecurrenceWeekly
}

// DaysOfWeek returns the weekly day set, or nil when the event has none
func (e Event) DaysOfWeek() []int {
	if e.WeeklyRecurrence == nil {
		return nil
	}
	return e.WeeklyRecurrence.DaysOfWeek
}

// Clone returns a deep copy so that callers never share the day set slice
func (e Event) Clone() Event {
	if e.WeeklyRecurrence != nil {
		days := append([]int(nil), e.WeeklyRecurrence.DaysOfWeek...)
		e.WeeklyRecurrence = &WeeklyRecurrence{DaysOfWeek: days}
	}
	return e
}

// Normalize trims the title, defaults the pattern and category, sorts and
// de-duplicates the weekly day set and drops it for non-weekly events.
func (e Event) Normalize() Event {
	e = e.Clone()
	e.Title = strings.TrimSpace(e.Title)
	if e.RecurrencePattern == "" {
		e.RecurrencePattern = RecurrenceNone
	}
	if e.Category == "" {
		e.Category = CategoryWork
	}

	if e.RecurrencePattern != RecurrenceWeekly {
		e.WeeklyRecurrence = nil
		return e
	}
	if e.WeeklyRecurrence != nil {
		e.WeeklyRecurrence.DaysOfWeek = uniqueDays(e.WeeklyRecurrence.DaysOfWeek)
	}
	return e
}

// Validate checks the model invariants
func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if e.StartTime.IsZero() || e.EndTime.IsZero() {
		return fmt.Errorf("%w: start and end time are required", ErrInvalidEvent)
	}
	if !e.EndTime.After(e.StartTime) {
		return fmt.Errorf("%w: end time %s is not after start time %s", ErrInvalidEvent,
			e.EndTime.Format(time.RFC3339), e.StartTime.Format(time.RFC3339))
	}
	if _, err := ParseCategory(string(e.Category)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	switch e.RecurrencePattern {
	case RecurrenceNone, RecurrenceDaily:
		if e.WeeklyRecurrence != nil {
			return fmt.Errorf("%w: %s event must not carry a weekly day set", ErrInvalidEvent, e.RecurrencePattern)
		}
	case RecurrenceWeekly:
		days := e.DaysOfWeek()
		if len(days) == 0 {
			return fmt.Errorf("%w: weekly event needs at least one day of week", ErrInvalidEvent)
		}
		for _, d := range days {
			if d < 0 || d > 6 {
				return fmt.Errorf("%w: day of week %d out of range 0-6", ErrInvalidEvent, d)
			}
		}
	default:
		return fmt.Errorf("%w: unknown recurrence %q", ErrInvalidEvent, e.RecurrencePattern)
	}

	return nil
}

func uniqueDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
