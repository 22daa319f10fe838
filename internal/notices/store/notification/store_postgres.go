package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"waternotice/internal/notices/models"
	id "waternotice/pkg/domain"
	"waternotice/pkg/platform/sentinel"
)

// PostgresStore persists notification batches in PostgreSQL. All rows of a
// batch land in one transaction so a fatal error never leaves a partial
// batch behind.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed notification store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is the DDL for the notifications table. Deployments apply it via
// migrations; integration tests apply it directly.
const Schema = `
CREATE TABLE IF NOT EXISTS notifications (
	id UUID PRIMARY KEY,
	event_id UUID NOT NULL,
	message_ref TEXT NOT NULL,
	template_id TEXT NOT NULL,
	channel TEXT NOT NULL,
	recipient_fingerprint TEXT NOT NULL,
	recipient TEXT,
	personalisation JSONB NOT NULL,
	licences TEXT[] NOT NULL,
	return_log_ids TEXT[],
	reference TEXT,
	content BYTEA,
	licence_monitoring_station_id TEXT,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_event ON notifications (event_id);
`

const insertNotification = `
INSERT INTO notifications (
	id, event_id, message_ref, template_id, channel, recipient_fingerprint,
	recipient, personalisation, licences, return_log_ids, reference, content,
	licence_monitoring_station_id, status, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

const selectByEvent = `
SELECT id, event_id, message_ref, template_id, channel, recipient_fingerprint,
	recipient, personalisation, licences, return_log_ids, reference, content,
	licence_monitoring_station_id, status
FROM notifications
WHERE event_id = $1
ORDER BY created_at, id
`

func (s *PostgresStore) SaveBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save batch: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, n := range notifications {
		personalisation, err := json.Marshal(n.Personalisation)
		if err != nil {
			return fmt.Errorf("marshal personalisation for %s: %w", n.ID, err)
		}

		_, err = tx.ExecContext(ctx, insertNotification,
			n.ID.String(),
			n.EventID.String(),
			n.MessageRef,
			n.TemplateID,
			string(n.Channel),
			n.RecipientFingerprint.String(),
			nullString(n.Recipient),
			personalisation,
			pq.Array(n.Licences),
			pq.Array(returnLogStrings(n.ReturnLogIDs)),
			nullString(n.Reference),
			n.Content,
			nullString(n.LicenceMonitoringStationID),
			string(n.Status),
			now,
		)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return fmt.Errorf("insert notification %s: %w", n.ID, sentinel.ErrConflict)
			}
			return fmt.Errorf("insert notification %s: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save batch: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByEvent(ctx context.Context, eventID id.EventID) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, selectByEvent, eventID.String())
	if err != nil {
		return nil, fmt.Errorf("list notifications for event %s: %w", eventID, err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return notifications, nil
}

func scanNotification(rows *sql.Rows) (models.Notification, error) {
	var (
		n               models.Notification
		rawID, rawEvent string
		channel, status string
		fingerprint     string
		recipient       sql.NullString
		reference       sql.NullString
		stationID       sql.NullString
		personalisation []byte
		licences        pq.StringArray
		returnLogs      pq.StringArray
	)

	err := rows.Scan(&rawID, &rawEvent, &n.MessageRef, &n.TemplateID, &channel,
		&fingerprint, &recipient, &personalisation, &licences, &returnLogs,
		&reference, &n.Content, &stationID, &status)
	if err != nil {
		return models.Notification{}, fmt.Errorf("scan notification: %w", err)
	}

	notificationID, err := id.ParseNotificationID(rawID)
	if err != nil {
		return models.Notification{}, err
	}
	eventID, err := id.ParseEventID(rawEvent)
	if err != nil {
		return models.Notification{}, err
	}

	n.ID = notificationID
	n.EventID = eventID
	n.Channel = models.Channel(channel)
	n.RecipientFingerprint = id.Fingerprint(fingerprint)
	n.Recipient = recipient.String
	n.Reference = reference.String
	n.LicenceMonitoringStationID = stationID.String
	n.Status = models.NotificationStatus(status)
	n.Licences = licences
	for _, rid := range returnLogs {
		n.ReturnLogIDs = append(n.ReturnLogIDs, id.ReturnLogID(rid))
	}
	if err := json.Unmarshal(personalisation, &n.Personalisation); err != nil {
		return models.Notification{}, fmt.Errorf("unmarshal personalisation: %w", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func returnLogStrings(ids []id.ReturnLogID) []string {
	out := make([]string, 0, len(ids))
	for _, rid := range ids {
		out = append(out, rid.String())
	}
	return out
}
