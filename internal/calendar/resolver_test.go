package calendar

import (
	"testing"
	"time"
)

// Week of Sunday 2025-01-12 .. Saturday 2025-01-18
var testWeek = WeekStarting(time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC))

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func at(d, hour, minute int) time.Time {
	return time.Date(2025, 1, d, hour, minute, 0, 0, time.UTC)
}

func titles(instances []Instance) []string {
	out := make([]string, len(instances))
	for i, inst := range instances {
		out[i] = inst.Event.Title
	}
	return out
}

func TestResolveDay_OneTime(t *testing.T) {
	ev := Event{
		ID:                "one",
		Title:             "Project Review",
		StartTime:         at(14, 9, 0), // Tuesday
		EndTime:           at(14, 10, 0),
		Category:          CategoryWork,
		RecurrencePattern: RecurrenceNone,
	}

	for d := 5; d <= 25; d++ {
		got := ResolveDay([]Event{ev}, day(d), WeekOf(day(d), time.UTC), time.UTC)
		want := d == 14
		if (len(got) == 1) != want {
			t.Errorf("2025-01-%02d: got %d instances, want present=%v", d, len(got), want)
		}
	}
}

func TestResolveDay_DailyBoundedByWeekEnd(t *testing.T) {
	ev := Event{
		ID:                "daily",
		Title:             "Standup",
		StartTime:         at(13, 8, 0), // Monday
		EndTime:           at(13, 8, 15),
		Category:          CategoryWork,
		RecurrencePattern: RecurrenceDaily,
	}

	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"Sunday before start", day(12), false},
		{"Start day", day(13), true},
		{"Tuesday", day(14), true},
		{"Saturday week end", day(18), true},
		{"Day after week end", day(19), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDay([]Event{ev}, tt.day, testWeek, time.UTC)
			if (len(got) == 1) != tt.want {
				t.Errorf("ResolveDay(%s) = %v, want present=%v",
					tt.day.Format("2006-01-02 Mon"), titles(got), tt.want)
			}
		})
	}
}

func TestResolveDay_WeeklyMembership(t *testing.T) {
	ev := Event{
		ID:                "weekly",
		Title:             "Gym Session",
		StartTime:         at(13, 18, 0), // Monday, not itself a member of the day set
		EndTime:           at(13, 19, 30),
		Category:          CategoryPersonal,
		RecurrencePattern: RecurrenceWeekly,
		WeeklyRecurrence:  &WeeklyRecurrence{DaysOfWeek: []int{2, 4}},
	}

	for d := 1; d <= 31; d++ {
		date := day(d)
		weekday := int(date.Weekday())
		want := d >= 13 && (weekday == 2 || weekday == 4)

		// the week window passed in does not bound weekly events
		got := ResolveDay([]Event{ev}, date, testWeek, time.UTC)
		if (len(got) == 1) != want {
			t.Errorf("%s: got present=%v, want %v", date.Format("2006-01-02 Mon"), len(got) == 1, want)
		}
	}
}

func TestResolveDay_WeeklyWithoutDaySet(t *testing.T) {
	ev := Event{
		ID:                "broken",
		Title:             "Broken",
		StartTime:         at(13, 9, 0),
		EndTime:           at(13, 10, 0),
		Category:          CategoryWork,
		RecurrencePattern: RecurrenceWeekly,
	}

	for _, d := range testWeek.Days() {
		if got := ResolveDay([]Event{ev}, d, testWeek, time.UTC); len(got) != 0 {
			t.Errorf("%s: weekly event without day set resolved to %v", d.Format("Mon"), titles(got))
		}
	}
}

func TestResolveDay_CollectionOrderAndProjection(t *testing.T) {
	events := []Event{
		{
			ID: "late", Title: "Late", Category: CategoryWork,
			StartTime: at(13, 18, 0), EndTime: at(13, 19, 0),
			RecurrencePattern: RecurrenceDaily,
		},
		{
			ID: "early", Title: "Early", Category: CategoryWork,
			StartTime: at(15, 7, 30), EndTime: at(15, 8, 45),
			RecurrencePattern: RecurrenceNone,
		},
	}

	got := ResolveDay(events, day(15), testWeek, time.UTC)
	if len(got) != 2 || got[0].Event.ID != "late" || got[1].Event.ID != "early" {
		t.Fatalf("ResolveDay order = %v, want [Late Early]", titles(got))
	}

	late := got[0]
	if !late.Start.Equal(at(15, 18, 0)) || !late.End.Equal(at(15, 19, 0)) {
		t.Errorf("projected instance = %v..%v, want 18:00..19:00 on the 15th", late.Start, late.End)
	}
	if late.Hour() != 18 {
		t.Errorf("Hour() = %d, want 18", late.Hour())
	}
	if late.Slot().Key() != "2025-01-15_18" {
		t.Errorf("Slot().Key() = %q, want 2025-01-15_18", late.Slot().Key())
	}

	SortByStart(got)
	if got[0].Event.ID != "early" {
		t.Errorf("SortByStart order = %v, want [Early Late]", titles(got))
	}
}

func TestResolveDay_UsesConfiguredLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}

	// 2025-01-14 20:00 UTC is Wednesday 05:00 in Tokyo
	ev := Event{
		ID: "tz", Title: "Call", Category: CategoryMeeting,
		StartTime: at(14, 20, 0), EndTime: at(14, 21, 0),
		RecurrencePattern: RecurrenceNone,
	}
	week := WeekOf(day(15), tokyo)
	wed := time.Date(2025, 1, 15, 0, 0, 0, 0, tokyo)
	tue := time.Date(2025, 1, 14, 0, 0, 0, 0, tokyo)

	if got := ResolveDay([]Event{ev}, wed, week, tokyo); len(got) != 1 {
		t.Fatalf("expected event on Wednesday in Tokyo, got %v", titles(got))
	} else if got[0].Hour() != 5 {
		t.Errorf("Hour() = %d, want 5", got[0].Hour())
	}
	if got := ResolveDay([]Event{ev}, tue, week, tokyo); len(got) != 0 {
		t.Errorf("expected nothing on Tuesday in Tokyo, got %v", titles(got))
	}
}

func TestResolveWeek(t *testing.T) {
	events := []Event{
		{
			ID: "meeting", Title: "Weekly Team Meeting", Category: CategoryMeeting,
			StartTime: at(13, 9, 30), EndTime: at(13, 10, 45),
			RecurrencePattern: RecurrenceWeekly,
			WeeklyRecurrence:  &WeeklyRecurrence{DaysOfWeek: []int{1}},
		},
		{
			ID: "review", Title: "Project Review", Category: CategoryWork,
			StartTime: at(14, 13, 15), EndTime: at(14, 15, 0),
			RecurrencePattern: RecurrenceNone,
		},
	}

	got := ResolveWeek(events, testWeek, time.UTC)
	counts := [7]int{}
	for i := range got {
		counts[i] = len(got[i])
	}

	want := [7]int{0, 1, 1, 0, 0, 0, 0}
	if counts != want {
		t.Errorf("ResolveWeek counts = %v, want %v", counts, want)
	}
}

func TestResolveWeek_CrossingMidnightStaysOnStartDay(t *testing.T) {
	ev := Event{
		ID:                "late",
		Title:             "Release Window",
		StartTime:         at(14, 23, 0), // Tuesday
		EndTime:           at(15, 1, 0),
		Category:          CategoryWork,
		RecurrencePattern: RecurrenceNone,
	}

	got := ResolveWeek([]Event{ev}, testWeek, time.UTC)
	for i, instances := range got {
		want := 0
		if i == 2 {
			want = 1
		}
		if len(instances) != want {
			t.Errorf("day %d: got %d instances, want %d", i, len(instances), want)
		}
	}

	if len(got[2]) != 1 {
		t.FailNow()
	}
	inst := got[2][0]
	if inst.Hour() != 23 {
		t.Errorf("Hour() = %d, want 23", inst.Hour())
	}
	if inst.Slot().Key() != "2025-01-14_23" {
		t.Errorf("Slot() = %s, want 2025-01-14_23", inst.Slot().Key())
	}
	if !inst.End.Equal(at(15, 1, 0)) {
		t.Errorf("End = %v, want 2025-01-15 01:00", inst.End)
	}
}

func TestWeek(t *testing.T) {
	w := WeekOf(at(16, 15, 0), time.UTC)

	if !w.Start.Equal(day(12)) || !w.End.Equal(day(18)) {
		t.Fatalf("WeekOf = %v..%v, want 2025-01-12..2025-01-18", w.Start, w.End)
	}
	if !w.Contains(at(18, 23, 59)) || w.Contains(day(19)) || w.Contains(at(11, 23, 0)) {
		t.Errorf("Contains boundaries wrong for %v..%v", w.Start, w.End)
	}
	if days := w.Days(); !days[6].Equal(w.End) {
		t.Errorf("Days()[6] = %v, want %v", days[6], w.End)
	}
}
