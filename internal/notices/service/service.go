// Package service orchestrates a notice run: fetch raw contacts, resolve
// recipients, fan out notifications, filter replays, persist, dispatch, and
// audit. The pure engine packages do the work; this package owns the I/O
// ordering and the no-partial-batch guarantee.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"waternotice/internal/audit"
	"waternotice/internal/notices/fanout"
	"waternotice/internal/notices/models"
	"waternotice/internal/notices/ports"
	"waternotice/internal/notices/resolver"
	id "waternotice/pkg/domain"
)

// Deps are the collaborators a Service needs. All are required except the
// form renderer, which only return-forms runs use.
type Deps struct {
	Contacts   ports.ContactSource
	Renderer   ports.FormRenderer
	Store      ports.NotificationStore
	Marker     ports.SentMarker
	Dispatcher ports.Dispatcher
	Audit      *audit.Publisher
	Logger     *slog.Logger

	// ShardCount splits fan-out across goroutines. Values below 1 run
	// single-shard.
	ShardCount int
}

// Service runs notice batches.
type Service struct {
	contacts   ports.ContactSource
	engine     *fanout.Engine
	store      ports.NotificationStore
	marker     ports.SentMarker
	dispatcher ports.Dispatcher
	audit      *audit.Publisher
	log        *slog.Logger
	shards     int
}

// BatchResult summarises one completed run.
type BatchResult struct {
	EventID           id.EventID
	RecipientCount    int
	NotificationCount int
	// Skipped counts notifications filtered by the replay guard.
	Skipped int
}

func New(deps Deps) (*Service, error) {
	if deps.Contacts == nil {
		return nil, errors.New("contact source is required")
	}
	if deps.Store == nil {
		return nil, errors.New("notification store is required")
	}
	if deps.Marker == nil {
		return nil, errors.New("sent marker is required")
	}
	if deps.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if deps.Audit == nil {
		return nil, errors.New("audit publisher is required")
	}
	if deps.Logger == nil {
		return nil, errors.New("logger is required")
	}

	var engine *fanout.Engine
	if deps.Renderer != nil {
		var err error
		engine, err = fanout.New(deps.Renderer)
		if err != nil {
			return nil, err
		}
	}

	shards := deps.ShardCount
	if shards < 1 {
		shards = 1
	}

	return &Service{
		contacts:   deps.Contacts,
		engine:     engine,
		store:      deps.Store,
		marker:     deps.Marker,
		dispatcher: deps.Dispatcher,
		audit:      deps.Audit,
		log:        deps.Logger,
		shards:     shards,
	}, nil
}

// RunNoticeBatch executes a standard or ad-hoc invitations/reminders run.
func (s *Service) RunNoticeBatch(ctx context.Context, nctx models.NoticeContext, sel ports.Selection) (BatchResult, error) {
	recipients, err := s.resolveRecipients(ctx, nctx, sel)
	if err != nil {
		return BatchResult{}, err
	}

	notifications, err := s.buildSharded(ctx, nctx, recipients)
	if err != nil {
		return BatchResult{}, err
	}

	return s.finish(ctx, nctx, len(recipients), notifications)
}

// RunReturnFormsBatch executes a paper return forms run. An empty selection
// is logged for operator visibility and yields an empty result, not an
// error; validating the selection is the journey layer's responsibility.
func (s *Service) RunReturnFormsBatch(ctx context.Context, nctx models.NoticeContext, sel ports.Selection, dueReturns []models.DueReturnLog, selected []id.ReturnLogID) (BatchResult, error) {
	if s.engine == nil {
		return BatchResult{}, errors.New("form renderer is required for return forms runs")
	}

	if len(selected) == 0 {
		s.log.Warn("return forms run with no selected due returns",
			"event_id", nctx.EventID.String(), "reference", nctx.ReferenceCode)
		return BatchResult{EventID: nctx.EventID}, nil
	}

	recipients, err := s.resolveRecipients(ctx, nctx, sel)
	if err != nil {
		return BatchResult{}, err
	}

	notifications, err := s.engine.BuildReturnFormsNotifications(ctx, nctx, recipients, dueReturns, selected)
	if err != nil {
		return BatchResult{}, err
	}

	return s.finish(ctx, nctx, len(recipients), notifications)
}

// RunAlertsBatch executes an abstraction alerts run.
func (s *Service) RunAlertsBatch(ctx context.Context, actx models.AlertContext, sel ports.Selection, stations []models.LicenceMonitoringStation) (BatchResult, error) {
	recipients, err := s.resolveRecipients(ctx, actx.NoticeContext, sel)
	if err != nil {
		return BatchResult{}, err
	}

	notifications, err := fanout.BuildAlertNotifications(actx, recipients, stations)
	if err != nil {
		return BatchResult{}, err
	}

	return s.finish(ctx, actx.NoticeContext, len(recipients), notifications)
}

func (s *Service) resolveRecipients(ctx context.Context, nctx models.NoticeContext, sel ports.Selection) ([]models.Recipient, error) {
	records, err := s.contacts.FetchRawContacts(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("fetch raw contacts: %w", err)
	}

	recipients, err := resolver.Resolve(records)
	if err != nil {
		var integrity *models.DataIntegrityError
		if errors.As(err, &integrity) {
			s.emitAudit(ctx, nctx, audit.Event{
				Action: audit.ActionIntegrityFailed,
				Reason: integrity.Error(),
			})
		}
		return nil, err
	}
	return recipients, nil
}

// buildSharded splits recipients into contiguous shards, fans out each shard
// concurrently, and concatenates results in shard order. The template tables
// are immutable, so shards share them without synchronization, and the
// contiguous split keeps output order identical to a single-shard run.
func (s *Service) buildSharded(ctx context.Context, nctx models.NoticeContext, recipients []models.Recipient) ([]models.Notification, error) {
	shards := s.shards
	if shards > len(recipients) {
		shards = len(recipients)
	}
	if shards <= 1 {
		return fanout.BuildNotifications(nctx, recipients)
	}

	chunks := splitContiguous(recipients, shards)
	results := make([][]models.Notification, len(chunks))

	g, _ := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			built, err := fanout.BuildNotifications(nctx, chunk)
			if err != nil {
				return err
			}
			results[i] = built
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var notifications []models.Notification
	for _, r := range results {
		notifications = append(notifications, r...)
	}
	return notifications, nil
}

// finish runs the shared tail of every pipeline: replay filter, persist,
// dispatch, mark, audit. A failure before MarkSent leaves the markers unset,
// so a retry rebuilds and re-attempts exactly the unsent remainder.
func (s *Service) finish(ctx context.Context, nctx models.NoticeContext, recipientCount int, notifications []models.Notification) (BatchResult, error) {
	unsent, err := s.marker.FilterUnsent(ctx, nctx.EventID, notifications)
	if err != nil {
		return BatchResult{}, fmt.Errorf("filter sent notifications: %w", err)
	}
	skipped := len(notifications) - len(unsent)
	if skipped > 0 {
		s.log.Info("replay guard skipped already-sent notifications",
			"event_id", nctx.EventID.String(), "skipped", skipped)
	}

	s.emitAudit(ctx, nctx, audit.Event{
		Action:            audit.ActionBatchBuilt,
		RecipientCount:    recipientCount,
		NotificationCount: len(unsent),
	})

	if len(unsent) == 0 {
		return BatchResult{EventID: nctx.EventID, RecipientCount: recipientCount, Skipped: skipped}, nil
	}

	if err := s.store.SaveBatch(ctx, unsent); err != nil {
		return BatchResult{}, fmt.Errorf("persist notification batch: %w", err)
	}
	if err := s.dispatcher.Dispatch(ctx, unsent); err != nil {
		return BatchResult{}, fmt.Errorf("dispatch notification batch: %w", err)
	}
	if err := s.marker.MarkSent(ctx, nctx.EventID, unsent); err != nil {
		return BatchResult{}, fmt.Errorf("mark notifications sent: %w", err)
	}

	s.emitAudit(ctx, nctx, audit.Event{
		Action:            audit.ActionBatchDispatched,
		RecipientCount:    recipientCount,
		NotificationCount: len(unsent),
	})

	return BatchResult{
		EventID:           nctx.EventID,
		RecipientCount:    recipientCount,
		NotificationCount: len(unsent),
		Skipped:           skipped,
	}, nil
}

// emitAudit is fail-open: the dispatch already happened (or the failure is
// already propagating), so a broken audit sink is logged, not fatal.
func (s *Service) emitAudit(ctx context.Context, nctx models.NoticeContext, event audit.Event) {
	event.EventID = nctx.EventID
	event.Journey = string(nctx.Journey)
	event.NoticeType = string(nctx.NoticeType)
	event.ReferenceCode = nctx.ReferenceCode

	if err := s.audit.Emit(ctx, event); err != nil {
		s.log.Error("audit emit failed", "action", string(event.Action), "error", err)
	}
}

// splitContiguous divides recipients into n contiguous chunks of near-equal
// size, preserving order.
func splitContiguous(recipients []models.Recipient, n int) [][]models.Recipient {
	chunks := make([][]models.Recipient, 0, n)
	size := (len(recipients) + n - 1) / n
	for start := 0; start < len(recipients); start += size {
		end := start + size
		if end > len(recipients) {
			end = len(recipients)
		}
		chunks = append(chunks, recipients[start:end])
	}
	return chunks
}
