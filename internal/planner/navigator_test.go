package planner

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNavigator_StartsOnCurrentWeek(t *testing.T) {
	now := time.Date(2025, 1, 16, 15, 0, 0, 0, time.UTC) // Thursday
	nav := NewNavigatorWithClock(time.UTC, func() time.Time { return now })

	w := nav.Week()
	if !w.Start.Equal(time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Week().Start = %v, want Sunday 2025-01-12", w.Start)
	}
	if !w.End.Equal(w.Start.AddDate(0, 0, 6)) {
		t.Errorf("Week().End = %v, want Start + 6 days", w.End)
	}
}

func TestNavigator_NextPrevToday(t *testing.T) {
	now := time.Date(2025, 1, 16, 15, 0, 0, 0, time.UTC)
	nav := NewNavigatorWithClock(time.UTC, func() time.Time { return now })
	start := nav.Week().Start

	if got := nav.Next().Start; !got.Equal(start.AddDate(0, 0, 7)) {
		t.Errorf("Next() = %v", got)
	}
	nav.Prev()
	if got := nav.Prev().Start; !got.Equal(start.AddDate(0, 0, -7)) {
		t.Errorf("Prev() = %v", got)
	}

	// today is recomputed at call time, not cached
	now = time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC) // Wednesday
	if got := nav.Today().Start; !got.Equal(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Today() = %v, want 2025-03-02", got)
	}
}

func TestNavigator_UsesLocation(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}

	// Sunday 03:00 UTC is still Saturday evening in Los Angeles
	now := time.Date(2025, 1, 19, 3, 0, 0, 0, time.UTC)
	nav := NewNavigatorWithClock(la, func() time.Time { return now })

	if got := nav.Week().Start; got.Day() != 12 {
		t.Errorf("Week().Start = %v, want 2025-01-12 in Los Angeles", got)
	}
}

func TestCursorStateManager_SaveRestore(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	path := filepath.Join(t.TempDir(), "week.json")
	now := time.Date(2025, 1, 16, 15, 0, 0, 0, time.UTC)

	nav := NewNavigatorWithClock(time.UTC, func() time.Time { return now })
	next := nav.Next()

	csm := NewCursorStateManager(path, logger)
	if err := csm.Save(next); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	state := csm.GetCurrentState()
	if state.StartDate != "2025-01-19" || state.EndDate != "2025-01-25" || state.Week != 4 {
		t.Errorf("state = %+v", state)
	}

	restored := NewCursorStateManager(path, logger)
	if err := restored.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	fresh := NewNavigatorWithClock(time.UTC, func() time.Time { return now })
	w, err := restored.Restore(fresh)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if !w.Start.Equal(next.Start) || !fresh.Week().Start.Equal(next.Start) {
		t.Errorf("Restore() = %v, want %v", w.Start, next.Start)
	}
}

func TestCursorStateManager_MissingFileKeepsToday(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	csm := NewCursorStateManager(filepath.Join(t.TempDir(), "missing.json"), logger)
	if err := csm.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	now := time.Date(2025, 1, 16, 15, 0, 0, 0, time.UTC)
	nav := NewNavigatorWithClock(time.UTC, func() time.Time { return now })

	w, err := csm.Restore(nav)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if w.Start.Day() != 12 {
		t.Errorf("Restore() without state = %v, want current week", w.Start)
	}
}
