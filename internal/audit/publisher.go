package audit

import (
	"context"
	"time"

	id "waternotice/pkg/domain"
)

// Store is the persistence seam for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByEvent(ctx context.Context, eventID id.EventID) ([]Event, error)
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	return p.store.Append(ctx, base)
}

func (p *Publisher) List(ctx context.Context, eventID id.EventID) ([]Event, error) {
	return p.store.ListByEvent(ctx, eventID)
}
