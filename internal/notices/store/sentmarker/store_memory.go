package sentmarker

import (
	"context"
	"sync"

	"waternotice/internal/notices/models"
	id "waternotice/pkg/domain"
)

// InMemoryMarker keeps sent markers in memory. Suitable for tests and for
// single-process runs where replay only matters within one invocation.
type InMemoryMarker struct {
	mu   sync.RWMutex
	sent map[string]struct{}
}

func NewInMemory() *InMemoryMarker {
	return &InMemoryMarker{sent: make(map[string]struct{})}
}

// FilterUnsent returns the notifications not yet marked sent, preserving
// batch order.
func (m *InMemoryMarker) FilterUnsent(_ context.Context, eventID id.EventID, notifications []models.Notification) ([]models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	unsent := make([]models.Notification, 0, len(notifications))
	for _, n := range notifications {
		if _, ok := m.sent[markerKey(eventID, n)]; !ok {
			unsent = append(unsent, n)
		}
	}
	return unsent, nil
}

// MarkSent records the notifications as dispatched.
func (m *InMemoryMarker) MarkSent(_ context.Context, eventID id.EventID, notifications []models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range notifications {
		m.sent[markerKey(eventID, n)] = struct{}{}
	}
	return nil
}
