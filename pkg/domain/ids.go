package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Typed identifiers keep notification, event, and return-log references from
// being swapped for one another at compile time.

// EventID correlates every notification in a run with the notice event that
// produced it.
type EventID uuid.UUID

// ParseEventID validates and returns an EventID.
func ParseEventID(s string) (EventID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return EventID{}, fmt.Errorf("invalid event id %q: %w", s, err)
	}
	if u == uuid.Nil {
		return EventID{}, fmt.Errorf("event id must not be nil")
	}
	return EventID(u), nil
}

// NewEventID allocates a fresh event identifier.
func NewEventID() EventID {
	return EventID(uuid.New())
}

func (id EventID) String() string {
	return uuid.UUID(id).String()
}

// IsNil returns true if the event ID is the zero UUID.
func (id EventID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

// NotificationID identifies one outbound notification record.
type NotificationID uuid.UUID

// NewNotificationID allocates a fresh notification identifier.
func NewNotificationID() NotificationID {
	return NotificationID(uuid.New())
}

// ParseNotificationID validates and returns a NotificationID.
func ParseNotificationID(s string) (NotificationID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NotificationID{}, fmt.Errorf("invalid notification id %q: %w", s, err)
	}
	return NotificationID(u), nil
}

func (id NotificationID) String() string {
	return uuid.UUID(id).String()
}

// IsNil returns true if the notification ID is the zero UUID.
func (id NotificationID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

// ReturnLogID identifies an outstanding return obligation in the source
// system. It is an opaque string assigned upstream, not a UUID.
type ReturnLogID string

func (id ReturnLogID) String() string {
	return string(id)
}

// IsNil returns true if the return log ID is empty.
func (id ReturnLogID) IsNil() bool {
	return id == ""
}

// Fingerprint is the content-addressable identity of a contact: a
// fixed-length lowercase hex digest over normalized identity fields. The
// contact source adapter computes it; this core only compares it.
type Fingerprint string

func (f Fingerprint) String() string {
	return string(f)
}

// IsNil returns true if the fingerprint is empty.
func (f Fingerprint) IsNil() bool {
	return f == ""
}
