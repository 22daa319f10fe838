// Package sentmarker implements the replay guard: a set of
// (event, recipient, message) keys already handed to dispatch. Rebuilding a
// batch after a partial failure reproduces the same notifications, and the
// marker set keeps the already-sent ones from going out twice.
package sentmarker

import (
	"strings"

	"waternotice/internal/notices/models"
	id "waternotice/pkg/domain"
)

// markerKey identifies a notification within an event independently of its
// freshly allocated UUID, so a rebuilt batch maps onto the same keys.
func markerKey(eventID id.EventID, n models.Notification) string {
	parts := []string{
		eventID.String(),
		n.RecipientFingerprint.String(),
		n.MessageRef,
	}
	for _, rid := range n.ReturnLogIDs {
		parts = append(parts, rid.String())
	}
	if n.LicenceMonitoringStationID != "" {
		parts = append(parts, n.LicenceMonitoringStationID)
	}
	return strings.Join(parts, ":")
}
