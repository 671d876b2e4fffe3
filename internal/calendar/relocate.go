package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/username/weekcal/pkg/dateutil"
)

const slotDateLayout = "2006-01-02"

// Slot is a (date, hour) cell of the weekly grid
type Slot struct {
	Date time.Time
	Hour int
}

// Key encodes the slot as YYYY-MM-DD_H
func (s Slot) Key() string {
	return s.Date.Format(slotDateLayout) + "_" + strconv.Itoa(s.Hour)
}

func (s Slot) String() string {
	return s.Key()
}

// Equal reports whether both slots address the same cell
func (s Slot) Equal(o Slot) bool {
	return s.Hour == o.Hour && dateutil.IsSameDay(s.Date, o.Date)
}

// ParseSlot decodes a YYYY-MM-DD_H key into a slot in loc
func ParseSlot(key string, loc *time.Location) (Slot, error) {
	if loc == nil {
		loc = time.Local
	}

	datePart, hourPart, ok := strings.Cut(key, "_")
	if !ok {
		return Slot{}, fmt.Errorf("invalid slot %q, expected YYYY-MM-DD_H", key)
	}

	date, err := time.ParseInLocation(slotDateLayout, datePart, loc)
	if err != nil {
		return Slot{}, fmt.Errorf("invalid slot date %q: %w", datePart, err)
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return Slot{}, fmt.Errorf("invalid slot hour %q (want 0-23)", hourPart)
	}

	return Slot{Date: date, Hour: hour}, nil
}

// Relocate moves ev from the src cell to the dst cell. Both times are shifted by
// the same day and hour delta, so the duration never changes. A weekly day set is
// rotated by the weekday delta of the new start so the weekly shape is kept.
// It returns false, and ev untouched, when src and dst are the same cell.
func Relocate(ev Event, src, dst Slot, loc *time.Location) (Event, bool) {
	if src.Equal(dst) {
		return ev, false
	}
	if loc == nil {
		loc = time.Local
	}

	daysDiff := dateutil.DaysBetween(src.Date, dst.Date)
	hoursDiff := time.Duration(dst.Hour-src.Hour) * time.Hour

	moved := ev.Clone()
	moved.StartTime = ev.StartTime.In(loc).AddDate(0, 0, daysDiff).Add(hoursDiff)
	moved.EndTime = moved.StartTime.Add(ev.Duration())

	if ev.RecurrencePattern == RecurrenceWeekly && ev.WeeklyRecurrence != nil {
		dayShift := dateutil.Weekday(moved.StartTime.In(loc)) - dateutil.Weekday(ev.StartTime.In(loc))
		moved.WeeklyRecurrence = &WeeklyRecurrence{
			DaysOfWeek: ShiftWeekdays(ev.WeeklyRecurrence.DaysOfWeek, dayShift),
		}
	}

	return moved, true
}

// ShiftWeekdays rotates every weekday index by shift, wrapping into 0-6
func ShiftWeekdays(days []int, shift int) []int {
	out := make([]int, len(days))
	for i, d := range days {
		shifted := (d + shift) % 7
		if shifted < 0 {
			shifted += 7
		}
		out[i] = shifted
	}
	return out
}
