package calendar

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the in-memory event collection keyed by id.
// Events keep their insertion order; all mutations take the write lock.
type Store struct {
	mu     sync.RWMutex
	events []Event
	index  map[string]int
	logger *zap.Logger
}

// NewStore creates a store holding a copy of events
func NewStore(events []Event, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{logger: logger}
	s.Replace(events)
	return s
}

// Replace swaps the whole collection, e.g. after loading a snapshot file
func (s *Store) Replace(events []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = make([]Event, 0, len(events))
	s.index = make(map[string]int, len(events))
	for _, ev := range events {
		if _, dup := s.index[ev.ID]; dup {
			s.logger.Warn("Duplicate event id in collection, keeping first",
				zap.String("id", ev.ID))
			continue
		}
		s.index[ev.ID] = len(s.events)
		s.events = append(s.events, ev.Clone())
	}
}

// Create assigns a fresh id to the draft and appends it
func (s *Store) Create(draft EventDraft) (Event, error) {
	ev := draft.WithID("").Normalize()
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev.ID = s.newID()
	s.index[ev.ID] = len(s.events)
	s.events = append(s.events, ev)

	s.logger.Debug("Event created",
		zap.String("id", ev.ID),
		zap.String("title", ev.Title),
		zap.String("recurrence", string(ev.RecurrencePattern)))

	return ev.Clone(), nil
}

// Update replaces the event with the same id. An unknown id leaves the
// collection unchanged and returns false.
func (s *Store) Update(ev Event) (bool, error) {
	ev = ev.Normalize()
	if err := ev.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[ev.ID]
	if !ok {
		s.logger.Debug("Update of unknown event ignored", zap.String("id", ev.ID))
		return false, nil
	}
	s.events[i] = ev

	s.logger.Debug("Event updated", zap.String("id", ev.ID))
	return true, nil
}

// Delete removes the event (the whole series for recurring events).
// An unknown id returns false.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}

	s.events = append(s.events[:i], s.events[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.events); j++ {
		s.index[s.events[j].ID] = j
	}

	s.logger.Debug("Event deleted", zap.String("id", id))
	return true
}

// Get returns the event with the given id
func (s *Store) Get(id string) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return Event{}, false
	}
	return s.events[i].Clone(), true
}

// List returns a snapshot of the collection in insertion order
func (s *Store) List() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Clone()
	}
	return out
}

// Len returns the number of stored events
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// newID must be called with the write lock held
func (s *Store) newID() string {
	for {
		id := uuid.NewString()
		if _, taken := s.index[id]; !taken {
			return id
		}
	}
}

// FindByPrefix resolves a (possibly shortened) id. It fails when the prefix
// is ambiguous.
func (s *Store) FindByPrefix(prefix string) (Event, bool, error) {
	if ev, ok := s.Get(prefix); ok {
		return ev, true, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var match *Event
	for i := range s.events {
		if prefix != "" && strings.HasPrefix(s.events[i].ID, prefix) {
			if match != nil {
				return Event{}, false, fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			match = &s.events[i]
		}
	}
	if match == nil {
		return Event{}, false, nil
	}
	return match.Clone(), true, nil
}
