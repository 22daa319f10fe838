package notification

import (
	"context"
	"fmt"
	"sync"

	"waternotice/internal/notices/models"
	id "waternotice/pkg/domain"
	"waternotice/pkg/platform/sentinel"
)

// InMemoryStore keeps notification batches in memory. It intentionally
// favors clarity over performance and is the default when no database is
// configured.
type InMemoryStore struct {
	mu            sync.RWMutex
	notifications map[id.EventID][]models.Notification
	seen          map[id.NotificationID]struct{}
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		notifications: make(map[id.EventID][]models.Notification),
		seen:          make(map[id.NotificationID]struct{}),
	}
}

// SaveBatch appends the batch under its event. Batches are immutable once
// written; a retry writes a new (filtered) batch for the same event.
func (s *InMemoryStore) SaveBatch(_ context.Context, notifications []models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range notifications {
		if _, ok := s.seen[n.ID]; ok {
			return fmt.Errorf("insert notification %s: %w", n.ID, sentinel.ErrConflict)
		}
	}
	for _, n := range notifications {
		s.seen[n.ID] = struct{}{}
		s.notifications[n.EventID] = append(s.notifications[n.EventID], n)
	}
	return nil
}

// ListByEvent returns the stored notifications for an event in insert order.
func (s *InMemoryStore) ListByEvent(_ context.Context, eventID id.EventID) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.notifications[eventID]
	out := make([]models.Notification, len(stored))
	copy(out, stored)
	return out, nil
}
