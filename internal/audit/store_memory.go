package audit

import (
	"context"
	"sync"

	id "waternotice/pkg/domain"
)

// InMemoryStore keeps audit events in memory for tests and single-process
// runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByEvent(_ context.Context, eventID id.EventID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.EventID == eventID {
			out = append(out, e)
		}
	}
	return out, nil
}
