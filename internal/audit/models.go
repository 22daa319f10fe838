package audit

import (
	"time"

	id "waternotice/pkg/domain"
)

// Action classifies what a notice run did.
type Action string

const (
	ActionBatchBuilt      Action = "notice_batch_built"
	ActionBatchDispatched Action = "notice_batch_dispatched"
	ActionIntegrityFailed Action = "data_integrity_failure"
)

// Event is emitted from the batch service to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp         time.Time
	EventID           id.EventID
	Action            Action
	Journey           string
	NoticeType        string
	ReferenceCode     string
	RecipientCount    int
	NotificationCount int
	Reason            string
}
