package calendar

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// eventsFile is the on-disk layout of the events snapshot
type eventsFile struct {
	SavedAt string  `yaml:"saved_at"`
	Events  []Event `yaml:"events"`
}

// LoadFile reads an events snapshot. A missing file is an empty collection.
func LoadFile(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}

	var f eventsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse events file: %w", err)
	}

	for i, ev := range f.Events {
		if ev.ID == "" {
			return nil, fmt.Errorf("event %d (%q) in %s has no id", i, ev.Title, path)
		}
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("event %s in %s: %w", ev.ID, path, err)
		}
	}

	return f.Events, nil
}

// SaveFile writes an events snapshot, replacing the file atomically
func SaveFile(path string, events []Event) error {
	data, err := yaml.Marshal(eventsFile{
		SavedAt: time.Now().Format(time.RFC3339),
		Events:  events,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create events dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write events file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace events file: %w", err)
	}

	return nil
}

// SampleDrafts returns the demo events anchored to the given week
func SampleDrafts(week Week, loc *time.Location) []EventDraft {
	at := func(weekday, hour, minute int) time.Time {
		d := week.Start.AddDate(0, 0, weekday)
		return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
	}

	return []EventDraft{
		{
			Title:             "Weekly Team Meeting",
			StartTime:         at(1, 9, 30),
			EndTime:           at(1, 10, 45),
			Category:          CategoryMeeting,
			RecurrencePattern: RecurrenceWeekly,
			WeeklyRecurrence:  &WeeklyRecurrence{DaysOfWeek: []int{1}},
		},
		{
			Title:             "Project Review",
			StartTime:         at(2, 13, 15),
			EndTime:           at(2, 15, 0),
			Category:          CategoryWork,
			RecurrencePattern: RecurrenceNone,
		},
		{
			Title:             "Gym Session",
			StartTime:         at(4, 18, 0),
			EndTime:           at(4, 19, 30),
			Category:          CategoryPersonal,
			RecurrencePattern: RecurrenceWeekly,
			WeeklyRecurrence:  &WeeklyRecurrence{DaysOfWeek: []int{2, 4}},
		},
		{
			Title:             "Quick Standup",
			StartTime:         at(3, 10, 0),
			EndTime:           at(3, 10, 15),
			Category:          CategoryWork,
			RecurrencePattern: RecurrenceNone,
		},
		{
			Title:             "Design Sprint",
			StartTime:         at(5, 11, 30),
			EndTime:           at(5, 14, 15),
			Category:          CategoryWork,
			RecurrencePattern: RecurrenceNone,
		},
		{
			Title:             "Doctor Appointment",
			StartTime:         at(6, 16, 45),
			EndTime:           at(6, 17, 30),
			Category:          CategoryPersonal,
			RecurrencePattern: RecurrenceNone,
		},
	}
}
