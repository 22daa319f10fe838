// Command noticebatch runs a single notice batch from the command line.
// Contacts, due returns, and monitoring stations come from JSON files; the
// backing stores are selected by environment (Postgres, Redis, Kafka when
// configured, in-memory otherwise). A real deployment replaces the file
// collaborators with live adapters.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"waternotice/internal/audit"
	"waternotice/internal/notices/address"
	"waternotice/internal/notices/dispatch"
	"waternotice/internal/notices/models"
	"waternotice/internal/notices/ports"
	"waternotice/internal/notices/service"
	"waternotice/internal/notices/store/notification"
	"waternotice/internal/notices/store/sentmarker"
	"waternotice/internal/platform/config"
	"waternotice/internal/platform/logger"
	platformredis "waternotice/internal/platform/redis"
	id "waternotice/pkg/domain"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "noticebatch:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		contactsPath   = flag.String("contacts", "", "path to JSON file of raw contact records (required)")
		journey        = flag.String("journey", string(models.JourneyStandard), "journey: standard, adhoc or alerts")
		noticeType     = flag.String("notice-type", string(models.NoticeInvitations), "notice type: invitations, reminders, paper_return, return_forms or abstraction_alerts")
		reference      = flag.String("reference", "", "batch reference code (required)")
		periodStart    = flag.String("period-start", "", "returns period start, YYYY-MM-DD")
		periodEnd      = flag.String("period-end", "", "returns period end, YYYY-MM-DD")
		dueDate        = flag.String("due-date", "", "returns period due date, YYYY-MM-DD")
		dueReturnsPath = flag.String("due-returns", "", "path to JSON file of due return logs (return forms runs)")
		selectedIDs    = flag.String("selected", "", "comma-separated return log IDs to build forms for")
		stationsPath   = flag.String("stations", "", "path to JSON file of licence monitoring stations (alert runs)")
		alertType      = flag.String("alert-type", "", "alert sending type: warning, reduce, stop or resume")
	)
	flag.Parse()

	if *contactsPath == "" || *reference == "" {
		flag.Usage()
		return fmt.Errorf("-contacts and -reference are required")
	}

	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	nctx := models.NoticeContext{
		Journey:       models.Journey(*journey),
		NoticeType:    models.NoticeType(*noticeType),
		ReferenceCode: *reference,
		EventID:       id.NewEventID(),
	}
	period, err := parsePeriod(*periodStart, *periodEnd, *dueDate)
	if err != nil {
		return err
	}
	nctx.ReturnsPeriod = period

	store, closeStore, err := buildStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	marker, closeMarker, err := buildMarker(cfg, log)
	if err != nil {
		return err
	}
	defer closeMarker()

	dispatcher, closeDispatcher, err := buildDispatcher(cfg, log)
	if err != nil {
		return err
	}
	defer closeDispatcher()

	svc, err := service.New(service.Deps{
		Contacts:   &fileContactSource{path: *contactsPath},
		Renderer:   placeholderRenderer{},
		Store:      store,
		Marker:     marker,
		Dispatcher: dispatcher,
		Audit:      audit.NewPublisher(audit.NewInMemoryStore()),
		Logger:     log,
		ShardCount: cfg.ShardCount,
	})
	if err != nil {
		return err
	}

	result, err := runBatch(ctx, svc, nctx, *dueReturnsPath, *selectedIDs, *stationsPath, *alertType)
	if err != nil {
		return err
	}

	log.Info("batch complete",
		"event_id", result.EventID.String(),
		"reference", nctx.ReferenceCode,
		"recipients", result.RecipientCount,
		"notifications", result.NotificationCount,
		"skipped", result.Skipped)
	return nil
}

func runBatch(ctx context.Context, svc *service.Service, nctx models.NoticeContext, dueReturnsPath, selectedIDs, stationsPath, alertType string) (service.BatchResult, error) {
	switch nctx.NoticeType {
	case models.NoticeReturnForms, models.NoticePaperReturn:
		if dueReturnsPath == "" {
			return service.BatchResult{}, fmt.Errorf("-due-returns is required for %s runs", nctx.NoticeType)
		}
		var dueReturns []models.DueReturnLog
		if err := readJSONFile(dueReturnsPath, &dueReturns); err != nil {
			return service.BatchResult{}, err
		}
		return svc.RunReturnFormsBatch(ctx, nctx, ports.Selection{}, dueReturns, parseReturnLogIDs(selectedIDs))

	case models.NoticeAbstractionAlerts:
		if stationsPath == "" || alertType == "" {
			return service.BatchResult{}, fmt.Errorf("-stations and -alert-type are required for alert runs")
		}
		var stations []models.LicenceMonitoringStation
		if err := readJSONFile(stationsPath, &stations); err != nil {
			return service.BatchResult{}, err
		}
		actx := models.AlertContext{
			NoticeContext:    nctx,
			SendingAlertType: models.AlertSendingType(alertType),
		}
		return svc.RunAlertsBatch(ctx, actx, ports.Selection{}, stations)

	default:
		return svc.RunNoticeBatch(ctx, nctx, ports.Selection{})
	}
}

func parsePeriod(start, end, due string) (*models.ReturnsPeriod, error) {
	if start == "" && end == "" && due == "" {
		return nil, nil
	}
	var period models.ReturnsPeriod
	var err error
	if period.StartDate, err = time.Parse("2006-01-02", start); err != nil {
		return nil, fmt.Errorf("parse -period-start: %w", err)
	}
	if period.EndDate, err = time.Parse("2006-01-02", end); err != nil {
		return nil, fmt.Errorf("parse -period-end: %w", err)
	}
	if period.DueDate, err = time.Parse("2006-01-02", due); err != nil {
		return nil, fmt.Errorf("parse -due-date: %w", err)
	}
	return &period, nil
}

func parseReturnLogIDs(csv string) []id.ReturnLogID {
	var ids []id.ReturnLogID
	for _, s := range strings.Split(csv, ",") {
		if s = strings.TrimSpace(s); s != "" {
			ids = append(ids, id.ReturnLogID(s))
		}
	}
	return ids
}

func readJSONFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func buildStore(cfg config.Batch, log *slog.Logger) (ports.NotificationStore, func(), error) {
	if cfg.PostgresURL == "" {
		log.Info("no postgres configured, using in-memory notification store")
		return notification.NewInMemory(), func() {}, nil
	}
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	return notification.NewPostgres(db), func() { db.Close() }, nil
}

func buildMarker(cfg config.Batch, log *slog.Logger) (ports.SentMarker, func(), error) {
	client, err := platformredis.New(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("no redis configured, using in-memory sent marker")
		return sentmarker.NewInMemory(), func() {}, nil
	}
	return sentmarker.NewRedis(client.Client), func() { client.Close() }, nil
}

func buildDispatcher(cfg config.Batch, log *slog.Logger) (ports.Dispatcher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("no kafka brokers configured, using in-memory dispatcher")
		return dispatch.NewInMemory(), func() {}, nil
	}
	publisher, err := dispatch.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() { publisher.Close() }, nil
}

// fileContactSource serves raw contact records from a JSON file. The
// selection filters are applied upstream by whatever produced the file, so
// only the exclusion list is honoured here.
type fileContactSource struct {
	path string
}

func (f *fileContactSource) FetchRawContacts(_ context.Context, sel ports.Selection) ([]models.RawContactRecord, error) {
	var records []models.RawContactRecord
	if err := readJSONFile(f.path, &records); err != nil {
		return nil, err
	}
	if len(sel.ExcludedLicenceRefs) == 0 {
		return records, nil
	}

	excluded := make(map[string]struct{}, len(sel.ExcludedLicenceRefs))
	for _, ref := range sel.ExcludedLicenceRefs {
		excluded[ref] = struct{}{}
	}
	kept := records[:0]
	for _, r := range records {
		skip := false
		for _, ref := range r.LicenceRefs {
			if _, ok := excluded[ref]; ok {
				skip = true
				break
			}
		}
		if !skip {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

// placeholderRenderer emits a marker payload instead of a laid-out PDF.
// Form layout belongs to the dispatch system downstream.
type placeholderRenderer struct{}

func (placeholderRenderer) RenderReturnFormPdf(_ context.Context, recipient address.LetterAddressBlock, dueReturn models.DueReturnLog) ([]byte, error) {
	payload := fmt.Sprintf("return form %s for %s", dueReturn.ReturnReference, recipient.NameLine())
	return []byte(payload), nil
}
