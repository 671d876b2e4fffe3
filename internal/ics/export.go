package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/username/weekcal/internal/calendar"
)

const (
	productID     = "-//weekcal//weekcal export//EN"
	localDTLayout = "20060102T150405"
)

// weekdays maps weekday indices (0=Sunday) to RRULE BYDAY values
var weekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// Export writes the events as an iCalendar (METHOD:PUBLISH) document.
//
// Times are written with a TZID of loc when loc is a named IANA zone and as
// UTC otherwise. Recurring events get an open-ended RRULE; the displayed-week
// bound on daily events is a view concern and is not exported.
func Export(events []calendar.Event, loc *time.Location, w io.Writer) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	stamp := time.Now().UTC()
	for _, ev := range events {
		if err := addEvent(cal, ev, loc, stamp); err != nil {
			return fmt.Errorf("event %s: %w", ev.ID, err)
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

func addEvent(cal *ical.Calendar, ev calendar.Event, loc *time.Location, stamp time.Time) error {
	rule, err := RRule(ev)
	if err != nil {
		return err
	}

	ve := cal.AddEvent(ev.ID)
	ve.SetDtStampTime(stamp)
	ve.SetSummary(ev.Title)
	ve.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(ev.Category)))

	if tzid := zoneID(loc); tzid != "" {
		ve.SetProperty(ical.ComponentPropertyDtStart, ev.StartTime.In(loc).Format(localDTLayout), ical.WithTZID(tzid))
		ve.SetProperty(ical.ComponentPropertyDtEnd, ev.EndTime.In(loc).Format(localDTLayout), ical.WithTZID(tzid))
	} else {
		ve.SetStartAt(ev.StartTime)
		ve.SetEndAt(ev.EndTime)
	}

	if rule != "" {
		ve.SetProperty(ical.ComponentPropertyRrule, rule)
	}
	return nil
}

// RRule returns the RRULE value of a recurring event, or "" for one-time events
func RRule(ev calendar.Event) (string, error) {
	switch ev.RecurrencePattern {
	case calendar.RecurrenceNone, "":
		return "", nil
	case calendar.RecurrenceDaily:
		opt := rrule.ROption{Freq: rrule.DAILY}
		return opt.RRuleString(), nil
	case calendar.RecurrenceWeekly:
		days := ev.DaysOfWeek()
		if len(days) == 0 {
			return "", fmt.Errorf("weekly event has no days of week")
		}
		byDay := make([]rrule.Weekday, 0, len(days))
		for _, d := range days {
			if d < 0 || d > 6 {
				return "", fmt.Errorf("day of week %d out of range 0-6", d)
			}
			byDay = append(byDay, weekdays[d])
		}
		opt := rrule.ROption{Freq: rrule.WEEKLY, Byweekday: byDay}
		return opt.RRuleString(), nil
	default:
		return "", fmt.Errorf("unknown recurrence %q", ev.RecurrencePattern)
	}
}

func zoneID(loc *time.Location) string {
	if loc == nil {
		return ""
	}
	switch name := loc.String(); name {
	case "", "UTC", "Local":
		return ""
	default:
		return name
	}
}
