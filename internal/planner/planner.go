package planner

import (
	"fmt"
	"sync"
	"time"

	"github.com/username/weekcal/internal/calendar"
	"github.com/username/weekcal/internal/notify"
	"go.uber.org/zap"
)

// Intent is a requested change to the event collection
type Intent interface {
	intent()
}

// CreateIntent adds a new event
type CreateIntent struct {
	Draft calendar.EventDraft
}

// UpdateIntent fully replaces the event with the same id
type UpdateIntent struct {
	Event calendar.Event
}

// DeleteIntent removes an event (the whole series for recurring events)
type DeleteIntent struct {
	ID string
}

// MoveIntent relocates an event dragged from one grid slot to another
type MoveIntent struct {
	ID   string
	From calendar.Slot
	To   calendar.Slot
}

func (CreateIntent) intent() {}
func (UpdateIntent) intent() {}
func (DeleteIntent) intent() {}
func (MoveIntent) intent()   {}

// Result is the outcome of applying an intent. Snapshot is a copy of the
// collection after the intent was applied; callers may keep it.
type Result struct {
	Event    calendar.Event
	Changed  bool
	Snapshot []calendar.Event
}

// Planner applies intents to the event store one at a time and reports
// completed changes through the notifier.
type Planner struct {
	mu       sync.Mutex
	store    *calendar.Store
	notifier notify.Notifier
	loc      *time.Location
	logger   *zap.Logger
}

// NewPlanner creates a new planner
func NewPlanner(store *calendar.Store, notifier notify.Notifier, loc *time.Location, logger *zap.Logger) *Planner {
	if notifier == nil {
		notifier = notify.Discard
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		store:    store,
		notifier: notifier,
		loc:      loc,
		logger:   logger,
	}
}

// Location returns the timezone all date math is done in
func (p *Planner) Location() *time.Location {
	return p.loc
}

// Apply processes a single intent. Unknown ids and no-op moves return a
// result with Changed=false and no error.
func (p *Planner) Apply(in Intent) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var (
		res Result
		err error
	)

	switch in := in.(type) {
	case CreateIntent:
		res, err = p.create(in)
	case UpdateIntent:
		res, err = p.update(in)
	case DeleteIntent:
		res = p.delete(in)
	case MoveIntent:
		res, err = p.move(in)
	default:
		return Result{}, fmt.Errorf("unsupported intent %T", in)
	}
	if err != nil {
		return Result{}, err
	}

	res.Snapshot = p.store.List()
	return res, nil
}

func (p *Planner) create(in CreateIntent) (Result, error) {
	ev, err := p.store.Create(in.Draft)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create event: %w", err)
	}

	p.logger.Info("Event created",
		zap.String("id", ev.ID),
		zap.String("title", ev.Title),
		zap.Time("start", ev.StartTime),
		zap.String("recurrence", string(ev.RecurrencePattern)))
	p.notifier.Notify(notify.Notification{Kind: notify.KindSuccess, Title: "Event created!", Description: ev.Title})

	return Result{Event: ev, Changed: true}, nil
}

func (p *Planner) update(in UpdateIntent) (Result, error) {
	ok, err := p.store.Update(in.Event)
	if err != nil {
		return Result{}, fmt.Errorf("failed to update event: %w", err)
	}
	if !ok {
		p.logger.Debug("Update skipped, event not found", zap.String("id", in.Event.ID))
		return Result{}, nil
	}

	ev, _ := p.store.Get(in.Event.ID)
	p.logger.Info("Event updated", zap.String("id", ev.ID), zap.String("title", ev.Title))
	p.notifier.Notify(notify.Notification{Kind: notify.KindInfo, Title: "Event updated!", Description: ev.Title})

	return Result{Event: ev, Changed: true}, nil
}

func (p *Planner) delete(in DeleteIntent) Result {
	ev, ok := p.store.Get(in.ID)
	if !ok || !p.store.Delete(in.ID) {
		p.logger.Debug("Delete skipped, event not found", zap.String("id", in.ID))
		return Result{}
	}

	p.logger.Info("Event deleted",
		zap.String("id", ev.ID),
		zap.String("title", ev.Title),
		zap.Bool("series", ev.IsRecurring()))
	p.notifier.Notify(notify.Notification{Kind: notify.KindError, Title: "Event deleted!", Description: ev.Title})

	return Result{Event: ev, Changed: true}
}

func (p *Planner) move(in MoveIntent) (Result, error) {
	if in.From.Equal(in.To) {
		return Result{}, nil
	}

	ev, ok := p.store.Get(in.ID)
	if !ok {
		p.logger.Debug("Move skipped, event not found", zap.String("id", in.ID))
		return Result{}, nil
	}

	moved, changed := calendar.Relocate(ev, in.From, in.To, p.loc)
	if !changed {
		return Result{}, nil
	}

	if _, err := p.store.Update(moved); err != nil {
		return Result{}, fmt.Errorf("failed to move event: %w", err)
	}
	moved, _ = p.store.Get(moved.ID)

	p.logger.Info("Event moved",
		zap.String("id", moved.ID),
		zap.String("from", in.From.Key()),
		zap.String("to", in.To.Key()),
		zap.Time("new_start", moved.StartTime),
		zap.Ints("days_of_week", moved.DaysOfWeek()))
	p.notifier.Notify(notify.Notification{Kind: notify.KindInfo, Title: moveTitle(moved), Description: moved.Title})

	return Result{Event: moved, Changed: true}, nil
}

func moveTitle(ev calendar.Event) string {
	switch ev.RecurrencePattern {
	case calendar.RecurrenceDaily:
		return "Daily recurring event updated!"
	case calendar.RecurrenceWeekly:
		return "Weekly recurring event updated!"
	default:
		return "Event updated!"
	}
}

// Create adds a new event
func (p *Planner) Create(draft calendar.EventDraft) (calendar.Event, error) {
	res, err := p.Apply(CreateIntent{Draft: draft})
	return res.Event, err
}

// Update replaces an event; false means the id is unknown
func (p *Planner) Update(ev calendar.Event) (bool, error) {
	res, err := p.Apply(UpdateIntent{Event: ev})
	return res.Changed, err
}

// Delete removes an event; false means the id is unknown
func (p *Planner) Delete(id string) bool {
	res, _ := p.Apply(DeleteIntent{ID: id})
	return res.Changed
}

// Move relocates an event; false means nothing changed
func (p *Planner) Move(id string, from, to calendar.Slot) (calendar.Event, bool, error) {
	res, err := p.Apply(MoveIntent{ID: id, From: from, To: to})
	return res.Event, res.Changed, err
}

// Reload replaces the collection, e.g. with a fresh copy of the events file.
// It emits no notifications.
func (p *Planner) Reload(events []calendar.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.store.Replace(events)
	p.logger.Debug("Events reloaded", zap.Int("count", len(events)))
}

// Find resolves a full or shortened event id
func (p *Planner) Find(idPrefix string) (calendar.Event, bool, error) {
	return p.store.FindByPrefix(idPrefix)
}

// Snapshot returns a copy of the current collection
func (p *Planner) Snapshot() []calendar.Event {
	return p.store.List()
}

// Day returns the instances of day in chronological order
func (p *Planner) Day(day time.Time, week calendar.Week) []calendar.Instance {
	instances := calendar.ResolveDay(p.store.List(), day, week, p.loc)
	calendar.SortByStart(instances)
	return instances
}

// Week returns the instances of every day of week in chronological order
func (p *Planner) Week(week calendar.Week) [7][]calendar.Instance {
	days := calendar.ResolveWeek(p.store.List(), week, p.loc)
	for i := range days {
		calendar.SortByStart(days[i])
	}
	return days
}
