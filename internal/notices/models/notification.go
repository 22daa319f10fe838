package models

import (
	id "waternotice/pkg/domain"
)

// NotificationStatus is the delivery lifecycle state of a notification. This
// core only ever constructs notifications in StatusPending; later transitions
// belong to the dispatch system.
type NotificationStatus string

const (
	StatusPending NotificationStatus = "pending"
	StatusSent    NotificationStatus = "sent"
	StatusError   NotificationStatus = "error"
)

// Notification is the terminal artifact of a notice run: one outbound
// message, fully personalised, ready for the dispatch collaborator.
type Notification struct {
	ID         id.NotificationID `json:"id"`
	EventID    id.EventID        `json:"event_id"`
	MessageRef string            `json:"message_ref"`
	TemplateID string            `json:"template_id"`
	Channel    Channel           `json:"channel"`

	// RecipientFingerprint links the notification back to the resolved
	// recipient for audit and replay filtering.
	RecipientFingerprint id.Fingerprint `json:"recipient_fingerprint"`

	// Recipient is the email address for email notifications; letters carry
	// their address in Personalisation instead.
	Recipient string `json:"recipient,omitempty"`

	Personalisation map[string]string `json:"personalisation"`
	Licences        []string          `json:"licences"`
	ReturnLogIDs    []id.ReturnLogID  `json:"return_log_ids,omitempty"`
	Reference       string            `json:"reference,omitempty"`

	// Content is the rendered paper return form, present only for return
	// forms notifications.
	Content []byte `json:"content,omitempty"`

	// LicenceMonitoringStationID links an alert notification to the station
	// threshold that triggered it.
	LicenceMonitoringStationID string `json:"licence_monitoring_station_id,omitempty"`

	Status NotificationStatus `json:"status"`
}
