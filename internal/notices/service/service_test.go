package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"waternotice/internal/audit"
	"waternotice/internal/notices/address"
	"waternotice/internal/notices/dispatch"
	"waternotice/internal/notices/fingerprint"
	"waternotice/internal/notices/models"
	"waternotice/internal/notices/ports"
	"waternotice/internal/notices/store/notification"
	"waternotice/internal/notices/store/sentmarker"
	id "waternotice/pkg/domain"
)

// fakeContacts serves a fixed record set, or fails.
type fakeContacts struct {
	records []models.RawContactRecord
	err     error
}

func (f *fakeContacts) FetchRawContacts(context.Context, ports.Selection) ([]models.RawContactRecord, error) {
	return f.records, f.err
}

type fakeRenderer struct{}

func (fakeRenderer) RenderReturnFormPdf(_ context.Context, _ address.LetterAddressBlock, dueReturn models.DueReturnLog) ([]byte, error) {
	return []byte("pdf:" + dueReturn.ReturnReference), nil
}

type ServiceSuite struct {
	suite.Suite
	contacts   *fakeContacts
	store      *notification.InMemoryStore
	marker     *sentmarker.InMemoryMarker
	dispatcher *dispatch.InMemoryDispatcher
	auditStore *audit.InMemoryStore
	service    *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.contacts = &fakeContacts{}
	s.store = notification.NewInMemory()
	s.marker = sentmarker.NewInMemory()
	s.dispatcher = dispatch.NewInMemory()
	s.auditStore = audit.NewInMemoryStore()

	svc, err := New(Deps{
		Contacts:   s.contacts,
		Renderer:   fakeRenderer{},
		Store:      s.store,
		Marker:     s.marker,
		Dispatcher: s.dispatcher,
		Audit:      audit.NewPublisher(s.auditStore),
		Logger:     slog.New(slog.DiscardHandler),
		ShardCount: 2,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceSuite) noticeContext() models.NoticeContext {
	return models.NoticeContext{
		Journey:       models.JourneyStandard,
		NoticeType:    models.NoticeInvitations,
		ReferenceCode: "RINV-1A2B3C",
		EventID:       id.NewEventID(),
		ReturnsPeriod: &models.ReturnsPeriod{
			StartDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			DueDate:   time.Date(2025, 4, 28, 0, 0, 0, 0, time.UTC),
		},
	}
}

func rawEmail(addr string, role models.ContactRole) models.RawContactRecord {
	return models.RawContactRecord{
		LicenceRefs: []string{"01/123"},
		Role:        role,
		Channel:     models.ChannelEmail,
		Email:       addr,
		Fingerprint: fingerprint.Email(addr),
	}
}

// =============================================================================
// Constructor
// =============================================================================

func (s *ServiceSuite) TestNew() {
	s.Run("missing collaborators are rejected", func() {
		_, err := New(Deps{})
		s.Error(err)
	})

	s.Run("renderer is optional", func() {
		_, err := New(Deps{
			Contacts:   s.contacts,
			Store:      s.store,
			Marker:     s.marker,
			Dispatcher: s.dispatcher,
			Audit:      audit.NewPublisher(s.auditStore),
			Logger:     slog.New(slog.DiscardHandler),
		})
		s.NoError(err)
	})
}

// =============================================================================
// Standard runs
// =============================================================================

func (s *ServiceSuite) TestRunNoticeBatch() {
	s.Run("resolves dedupes persists and dispatches", func() {
		s.contacts.records = []models.RawContactRecord{
			rawEmail("a@b.com", models.RolePrimaryUser),
			rawEmail("a@b.com", models.RoleReturnsAgent),
			rawEmail("c@d.com", models.RolePrimaryUser),
		}
		nctx := s.noticeContext()

		result, err := s.service.RunNoticeBatch(context.Background(), nctx, ports.Selection{})
		s.Require().NoError(err)
		s.Equal(2, result.RecipientCount)
		s.Equal(2, result.NotificationCount)
		s.Zero(result.Skipped)

		stored, err := s.store.ListByEvent(context.Background(), nctx.EventID)
		s.Require().NoError(err)
		s.Len(stored, 2)
		s.Len(s.dispatcher.All(), 2)

		// The merged identity got the primary user wording.
		s.Equal("returns_invitation_primary_user_email", stored[0].MessageRef)
	})

	s.Run("sharded output preserves resolver order", func() {
		s.SetupTest()
		s.contacts.records = []models.RawContactRecord{
			rawEmail("a@b.com", models.RolePrimaryUser),
			rawEmail("c@d.com", models.RolePrimaryUser),
			rawEmail("e@f.com", models.RolePrimaryUser),
			rawEmail("g@h.com", models.RolePrimaryUser),
			rawEmail("i@j.com", models.RolePrimaryUser),
		}
		nctx := s.noticeContext()

		_, err := s.service.RunNoticeBatch(context.Background(), nctx, ports.Selection{})
		s.Require().NoError(err)

		stored, err := s.store.ListByEvent(context.Background(), nctx.EventID)
		s.Require().NoError(err)
		s.Require().Len(stored, 5)
		for i, addr := range []string{"a@b.com", "c@d.com", "e@f.com", "g@h.com", "i@j.com"} {
			s.Equal(addr, stored[i].Recipient)
		}
	})

	s.Run("retry after dispatch skips already sent notifications", func() {
		s.SetupTest()
		s.contacts.records = []models.RawContactRecord{
			rawEmail("a@b.com", models.RolePrimaryUser),
			rawEmail("c@d.com", models.RolePrimaryUser),
		}
		nctx := s.noticeContext()

		first, err := s.service.RunNoticeBatch(context.Background(), nctx, ports.Selection{})
		s.Require().NoError(err)
		s.Equal(2, first.NotificationCount)

		second, err := s.service.RunNoticeBatch(context.Background(), nctx, ports.Selection{})
		s.Require().NoError(err)
		s.Zero(second.NotificationCount)
		s.Equal(2, second.Skipped)
		s.Len(s.dispatcher.All(), 2)
	})

	s.Run("data integrity failure aborts before anything is persisted", func() {
		s.SetupTest()
		bad := rawEmail("a@b.com", models.RolePrimaryUser)
		bad.Email = ""
		s.contacts.records = []models.RawContactRecord{bad}
		nctx := s.noticeContext()

		_, err := s.service.RunNoticeBatch(context.Background(), nctx, ports.Selection{})
		var integrity *models.DataIntegrityError
		s.Require().ErrorAs(err, &integrity)

		stored, err := s.store.ListByEvent(context.Background(), nctx.EventID)
		s.Require().NoError(err)
		s.Empty(stored)
		s.Empty(s.dispatcher.All())

		events, err := s.auditStore.ListByEvent(context.Background(), nctx.EventID)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(audit.ActionIntegrityFailed, events[0].Action)
	})

	s.Run("contact source failure propagates", func() {
		s.contacts.err = errors.New("database on fire")
		_, err := s.service.RunNoticeBatch(context.Background(), s.noticeContext(), ports.Selection{})
		s.Require().Error(err)
		s.contacts.err = nil
	})

	s.Run("emits built and dispatched audit events", func() {
		s.SetupTest()
		s.contacts.records = []models.RawContactRecord{rawEmail("a@b.com", models.RolePrimaryUser)}
		nctx := s.noticeContext()

		_, err := s.service.RunNoticeBatch(context.Background(), nctx, ports.Selection{})
		s.Require().NoError(err)

		events, err := s.auditStore.ListByEvent(context.Background(), nctx.EventID)
		s.Require().NoError(err)
		s.Require().Len(events, 2)
		s.Equal(audit.ActionBatchBuilt, events[0].Action)
		s.Equal(audit.ActionBatchDispatched, events[1].Action)
		s.Equal(1, events[1].NotificationCount)
	})
}

// =============================================================================
// Return forms runs
// =============================================================================

func (s *ServiceSuite) TestRunReturnFormsBatch() {
	dueReturns := []models.DueReturnLog{
		{ID: "rl-1", ReturnReference: "10055412", LicenceRef: "01/123",
			DueDate: time.Date(2025, 4, 28, 0, 0, 0, 0, time.UTC)},
		{ID: "rl-2", ReturnReference: "10055413", LicenceRef: "01/123",
			DueDate: time.Date(2025, 4, 28, 0, 0, 0, 0, time.UTC)},
	}

	s.Run("expands recipients per selected due return", func() {
		s.contacts.records = []models.RawContactRecord{
			rawEmail("a@b.com", models.RolePrimaryUser),
			rawEmail("c@d.com", models.RolePrimaryUser),
		}
		nctx := s.noticeContext()
		nctx.NoticeType = models.NoticeReturnForms

		result, err := s.service.RunReturnFormsBatch(context.Background(), nctx, ports.Selection{},
			dueReturns, []id.ReturnLogID{"rl-1", "rl-2"})
		s.Require().NoError(err)
		s.Equal(2, result.RecipientCount)
		s.Equal(4, result.NotificationCount)
	})

	s.Run("empty selection yields empty result without error", func() {
		s.SetupTest()
		nctx := s.noticeContext()
		nctx.NoticeType = models.NoticeReturnForms

		result, err := s.service.RunReturnFormsBatch(context.Background(), nctx, ports.Selection{}, dueReturns, nil)
		s.Require().NoError(err)
		s.Zero(result.NotificationCount)
		s.Empty(s.dispatcher.All())
	})
}

// =============================================================================
// Alerts runs
// =============================================================================

func (s *ServiceSuite) TestRunAlertsBatch() {
	s.Run("builds one notification per relevant station", func() {
		s.contacts.records = []models.RawContactRecord{rawEmail("a@b.com", models.RolePrimaryUser)}

		actx := models.AlertContext{
			NoticeContext: models.NoticeContext{
				Journey:       models.JourneyAlerts,
				NoticeType:    models.NoticeAbstractionAlerts,
				ReferenceCode: "WAA-9Z8Y7X",
				EventID:       id.NewEventID(),
			},
			SendingAlertType: models.AlertWarning,
		}
		stations := []models.LicenceMonitoringStation{
			{ID: "lms-1", LicenceRef: "01/123", RestrictionType: models.RestrictionReduce, MeasureType: models.MeasureFlow},
			{ID: "lms-2", LicenceRef: "99/999", RestrictionType: models.RestrictionReduce, MeasureType: models.MeasureFlow},
		}

		result, err := s.service.RunAlertsBatch(context.Background(), actx, ports.Selection{}, stations)
		s.Require().NoError(err)
		s.Equal(1, result.NotificationCount)

		dispatched := s.dispatcher.All()
		s.Require().Len(dispatched, 1)
		s.Equal("lms-1", dispatched[0].LicenceMonitoringStationID)
	})
}
