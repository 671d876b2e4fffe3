package calendar

import (
	"sort"
	"time"

	"github.com/username/weekcal/pkg/dateutil"
)

// Week is the displayed 7-day window. End is always Start + 6 days.
type Week struct {
	Start time.Time
	End   time.Time
}

// WeekStarting returns the week whose first day (Sunday) is start
func WeekStarting(start time.Time) Week {
	start = dateutil.StartOfDay(start)
	return Week{Start: start, End: start.AddDate(0, 0, 6)}
}

// WeekOf returns the Sunday-based week containing date in loc
func WeekOf(date time.Time, loc *time.Location) Week {
	return WeekStarting(dateutil.StartOfWeek(dateutil.DateIn(date, loc)))
}

// Days returns the seven dates of the week
func (w Week) Days() [7]time.Time {
	var days [7]time.Time
	for i := range days {
		days[i] = w.Start.AddDate(0, 0, i)
	}
	return days
}

// Contains reports whether the calendar date of t lies in the week
func (w Week) Contains(t time.Time) bool {
	return dateutil.CompareDates(t, w.Start) >= 0 && dateutil.CompareDates(t, w.End) <= 0
}

// Instance is a single occurrence of an event on a specific day
type Instance struct {
	Event Event
	Date  time.Time
	Start time.Time
	End   time.Time
}

// Hour returns the grid row the instance is placed in
func (i Instance) Hour() int {
	return i.Start.Hour()
}

// Slot returns the grid cell the instance starts in
func (i Instance) Slot() Slot {
	return Slot{Date: i.Date, Hour: i.Hour()}
}

// ResolveDay returns the instances visible on day, in collection order.
// Dates are compared as calendar dates in loc.
func ResolveDay(events []Event, day time.Time, week Week, loc *time.Location) []Instance {
	date := dateutil.DateIn(day, loc)
	weekEnd := dateutil.DateIn(week.End, loc)

	var out []Instance
	for _, ev := range events {
		if occursOn(ev, date, weekEnd, loc) {
			out = append(out, project(ev, date, loc))
		}
	}
	return out
}

// ResolveWeek resolves every day of the week
func ResolveWeek(events []Event, week Week, loc *time.Location) [7][]Instance {
	var out [7][]Instance
	for i, day := range week.Days() {
		out[i] = ResolveDay(events, day, week, loc)
	}
	return out
}

func occursOn(ev Event, date, weekEnd time.Time, loc *time.Location) bool {
	start := dateutil.DateIn(ev.StartTime, loc)

	switch ev.RecurrencePattern {
	case RecurrenceNone:
		return dateutil.CompareDates(start, date) == 0
	case RecurrenceDaily:
		// daily is only expanded up to the end of the displayed week
		return dateutil.CompareDates(start, date) <= 0 && dateutil.CompareDates(date, weekEnd) <= 0
	case RecurrenceWeekly:
		if ev.WeeklyRecurrence == nil {
			return false
		}
		return containsDay(ev.WeeklyRecurrence.DaysOfWeek, dateutil.Weekday(date)) &&
			dateutil.CompareDates(start, date) <= 0
	default:
		return false
	}
}

// project places the event's clock times onto date, keeping the duration
func project(ev Event, date time.Time, loc *time.Location) Instance {
	local := ev.StartTime.In(loc)
	start := time.Date(date.Year(), date.Month(), date.Day(),
		local.Hour(), local.Minute(), local.Second(), 0, loc)

	return Instance{
		Event: ev,
		Date:  date,
		Start: start,
		End:   start.Add(ev.Duration()),
	}
}

// SortByStart orders instances of a day chronologically, keeping collection
// order for equal start times.
func SortByStart(instances []Instance) {
	sort.SliceStable(instances, func(i, j int) bool {
		return instances[i].Start.Before(instances[j].Start)
	})
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
