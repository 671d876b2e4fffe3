package planner

import (
	"sync"
	"time"

	"github.com/username/weekcal/internal/calendar"
	"github.com/username/weekcal/pkg/dateutil"
)

// Navigator holds the first day (Sunday) of the displayed week
type Navigator struct {
	mu     sync.Mutex
	cursor time.Time
	loc    *time.Location
	now    func() time.Time
}

// NewNavigator creates a navigator positioned on the week containing today
func NewNavigator(loc *time.Location) *Navigator {
	return NewNavigatorWithClock(loc, time.Now)
}

// NewNavigatorWithClock is NewNavigator with an injectable clock
func NewNavigatorWithClock(loc *time.Location, now func() time.Time) *Navigator {
	if loc == nil {
		loc = time.Local
	}
	n := &Navigator{loc: loc, now: now}
	n.Today()
	return n
}

// Week returns the displayed week; End is derived from the cursor
func (n *Navigator) Week() calendar.Week {
	n.mu.Lock()
	defer n.mu.Unlock()
	return calendar.WeekStarting(n.cursor)
}

// Next advances one week
func (n *Navigator) Next() calendar.Week {
	return n.shift(7)
}

// Prev goes back one week
func (n *Navigator) Prev() calendar.Week {
	return n.shift(-7)
}

// Today jumps to the week containing the current date, read at call time
func (n *Navigator) Today() calendar.Week {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cursor = dateutil.StartOfWeek(dateutil.DateIn(n.now(), n.loc))
	return calendar.WeekStarting(n.cursor)
}

// JumpTo moves the cursor to the week containing date
func (n *Navigator) JumpTo(date time.Time) calendar.Week {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cursor = dateutil.StartOfWeek(dateutil.DateIn(date, n.loc))
	return calendar.WeekStarting(n.cursor)
}

func (n *Navigator) shift(days int) calendar.Week {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cursor = n.cursor.AddDate(0, 0, days)
	return calendar.WeekStarting(n.cursor)
}
