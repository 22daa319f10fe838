// Package ports defines the collaborator interfaces the notice engine
// consumes and exposes. The engine itself performs no I/O; everything that
// fetches, renders, persists, or delivers lives behind these interfaces.
package ports

import (
	"context"
	"time"

	"waternotice/internal/notices/address"
	"waternotice/internal/notices/models"
	id "waternotice/pkg/domain"
)

// Selection scopes which raw contacts a run operates on.
type Selection struct {
	Journey             models.Journey
	LicenceRef          string
	DueDate             *time.Time
	IsSummer            bool
	ExcludedLicenceRefs []string
}

// ContactSource assembles unmerged contact rows from the licence, returns-log
// and entity-role tables. Each returned record already carries its
// fingerprint; the core never recomputes one.
type ContactSource interface {
	FetchRawContacts(ctx context.Context, sel Selection) ([]models.RawContactRecord, error)
}

// FormRenderer produces the paper return form PDF for one recipient and one
// due return. The payload is opaque to this core.
type FormRenderer interface {
	RenderReturnFormPdf(ctx context.Context, recipient address.LetterAddressBlock, dueReturn models.DueReturnLog) ([]byte, error)
}

// Dispatcher receives the finished notification batch for delivery. The core
// makes no assumption about transport beyond the channel discriminator.
type Dispatcher interface {
	Dispatch(ctx context.Context, notifications []models.Notification) error
}

// NotificationStore persists the terminal notification records.
type NotificationStore interface {
	SaveBatch(ctx context.Context, notifications []models.Notification) error
	ListByEvent(ctx context.Context, eventID id.EventID) ([]models.Notification, error)
}

// SentMarker is the replay guard. Rebuilding a batch after a partial send
// failure reproduces the same notifications; the marker set turns the
// already-dispatched ones into no-ops instead of duplicate notices.
type SentMarker interface {
	FilterUnsent(ctx context.Context, eventID id.EventID, notifications []models.Notification) ([]models.Notification, error)
	MarkSent(ctx context.Context, eventID id.EventID, notifications []models.Notification) error
}
