package sentmarker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"waternotice/internal/notices/models"
	id "waternotice/pkg/domain"
)

type MemoryMarkerSuite struct {
	suite.Suite
	marker *InMemoryMarker
}

func TestMemoryMarkerSuite(t *testing.T) {
	suite.Run(t, new(MemoryMarkerSuite))
}

func (s *MemoryMarkerSuite) SetupTest() {
	s.marker = NewInMemory()
}

func notification(fp id.Fingerprint, ref string) models.Notification {
	return models.Notification{
		ID:                   id.NewNotificationID(),
		RecipientFingerprint: fp,
		MessageRef:           ref,
	}
}

func (s *MemoryMarkerSuite) TestReplayFiltering() {
	eventID := id.NewEventID()
	batch := []models.Notification{
		notification("fp-1", "returns_invitation_primary_user_email"),
		notification("fp-2", "returns_invitation_returns_agent_email"),
	}

	s.Run("fresh batch passes through untouched", func() {
		unsent, err := s.marker.FilterUnsent(context.Background(), eventID, batch)
		s.Require().NoError(err)
		s.Equal(batch, unsent)
	})

	s.Run("marked notifications are filtered on replay", func() {
		s.Require().NoError(s.marker.MarkSent(context.Background(), eventID, batch[:1]))

		// A rebuilt batch has fresh notification UUIDs; only the identity
		// fields match.
		rebuilt := []models.Notification{
			notification("fp-1", "returns_invitation_primary_user_email"),
			notification("fp-2", "returns_invitation_returns_agent_email"),
		}

		unsent, err := s.marker.FilterUnsent(context.Background(), eventID, rebuilt)
		s.Require().NoError(err)
		s.Require().Len(unsent, 1)
		s.Equal(id.Fingerprint("fp-2"), unsent[0].RecipientFingerprint)
	})

	s.Run("markers are scoped per event", func() {
		otherEvent := id.NewEventID()
		unsent, err := s.marker.FilterUnsent(context.Background(), otherEvent, batch)
		s.Require().NoError(err)
		s.Len(unsent, len(batch))
	})

	s.Run("per return log markers stay distinct", func() {
		formA := notification("fp-1", "pdf.return_form")
		formA.ReturnLogIDs = []id.ReturnLogID{"rl-1"}
		formB := notification("fp-1", "pdf.return_form")
		formB.ReturnLogIDs = []id.ReturnLogID{"rl-2"}

		s.Require().NoError(s.marker.MarkSent(context.Background(), eventID, []models.Notification{formA}))

		unsent, err := s.marker.FilterUnsent(context.Background(), eventID, []models.Notification{formA, formB})
		s.Require().NoError(err)
		s.Require().Len(unsent, 1)
		s.Equal([]id.ReturnLogID{"rl-2"}, unsent[0].ReturnLogIDs)
	})
}
