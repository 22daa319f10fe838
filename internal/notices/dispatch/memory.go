package dispatch

import (
	"context"
	"sync"

	"waternotice/internal/notices/models"
)

// InMemoryDispatcher collects dispatched batches for tests and for dry runs
// without a broker.
type InMemoryDispatcher struct {
	mu      sync.Mutex
	batches [][]models.Notification
}

func NewInMemory() *InMemoryDispatcher {
	return &InMemoryDispatcher{}
}

func (d *InMemoryDispatcher) Dispatch(_ context.Context, notifications []models.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	batch := make([]models.Notification, len(notifications))
	copy(batch, notifications)
	d.batches = append(d.batches, batch)
	return nil
}

// Batches returns every dispatched batch in order.
func (d *InMemoryDispatcher) Batches() [][]models.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]models.Notification, len(d.batches))
	copy(out, d.batches)
	return out
}

// All returns every dispatched notification flattened in order.
func (d *InMemoryDispatcher) All() []models.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []models.Notification
	for _, batch := range d.batches {
		out = append(out, batch...)
	}
	return out
}
