package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"waternotice/internal/notices/models"
	id "waternotice/pkg/domain"
	"waternotice/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
}

func testNotification(eventID id.EventID, ref string) models.Notification {
	return models.Notification{
		ID:                   id.NewNotificationID(),
		EventID:              eventID,
		MessageRef:           ref,
		TemplateID:           "tpl-1",
		Channel:              models.ChannelEmail,
		RecipientFingerprint: "fp-1",
		Recipient:            "a@b.com",
		Personalisation:      map[string]string{"returnDueDate": "28 April 2025"},
		Licences:             []string{"01/123"},
		Status:               models.StatusPending,
	}
}

func (s *MemoryStoreSuite) TestSaveAndList() {
	s.Run("lists saved batch in insert order", func() {
		eventID := id.NewEventID()
		batch := []models.Notification{
			testNotification(eventID, "returns_invitation_primary_user_email"),
			testNotification(eventID, "returns_invitation_returns_agent_email"),
		}

		s.Require().NoError(s.store.SaveBatch(context.Background(), batch))

		stored, err := s.store.ListByEvent(context.Background(), eventID)
		s.Require().NoError(err)
		s.Equal(batch, stored)
	})

	s.Run("events are isolated", func() {
		first, second := id.NewEventID(), id.NewEventID()
		s.Require().NoError(s.store.SaveBatch(context.Background(),
			[]models.Notification{testNotification(first, "ref")}))

		stored, err := s.store.ListByEvent(context.Background(), second)
		s.Require().NoError(err)
		s.Empty(stored)
	})

	s.Run("empty batch is a no-op", func() {
		s.Require().NoError(s.store.SaveBatch(context.Background(), nil))
	})

	s.Run("duplicate notification id rejects the whole batch", func() {
		eventID := id.NewEventID()
		first := testNotification(eventID, "ref")
		s.Require().NoError(s.store.SaveBatch(context.Background(), []models.Notification{first}))

		fresh := testNotification(eventID, "ref-2")
		err := s.store.SaveBatch(context.Background(), []models.Notification{fresh, first})
		s.Require().ErrorIs(err, sentinel.ErrConflict)

		stored, err := s.store.ListByEvent(context.Background(), eventID)
		s.Require().NoError(err)
		s.Len(stored, 1)
	})
}
