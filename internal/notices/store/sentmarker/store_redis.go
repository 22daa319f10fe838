package sentmarker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"waternotice/internal/notices/models"
	id "waternotice/pkg/domain"
	"waternotice/pkg/platform/sentinel"
)

const (
	// Redis key prefix for sent markers
	sentKeyPrefix = "notice:sent:"

	// Markers outlive any plausible retry window, then expire so abandoned
	// events do not accumulate keys forever.
	defaultMarkerTTL = 90 * 24 * time.Hour
)

// RedisMarker is a Redis-backed sent marker. This is the production
// implementation for distributed deployments where retries may land on a
// different instance than the original run.
type RedisMarker struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisMarkerOption configures a RedisMarker instance.
type RedisMarkerOption func(*RedisMarker)

// WithTTL overrides the marker retention window.
func WithTTL(ttl time.Duration) RedisMarkerOption {
	return func(m *RedisMarker) {
		m.ttl = ttl
	}
}

// NewRedis constructs a Redis-backed sent marker.
func NewRedis(client *redis.Client, opts ...RedisMarkerOption) *RedisMarker {
	m := &RedisMarker{
		client: client,
		ttl:    defaultMarkerTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// FilterUnsent checks the batch's marker keys in one MGET round trip and
// returns the notifications with no marker, preserving batch order.
func (m *RedisMarker) FilterUnsent(ctx context.Context, eventID id.EventID, notifications []models.Notification) ([]models.Notification, error) {
	if len(notifications) == 0 {
		return nil, nil
	}

	keys := make([]string, len(notifications))
	for i, n := range notifications {
		keys[i] = sentKeyPrefix + markerKey(eventID, n)
	}

	values, err := m.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("check sent markers: %v: %w", err, sentinel.ErrUnavailable)
	}

	unsent := make([]models.Notification, 0, len(notifications))
	for i, v := range values {
		if v == nil {
			unsent = append(unsent, notifications[i])
		}
	}
	return unsent, nil
}

// MarkSent records the notifications as dispatched. Keys are set in one
// pipeline; a marker that fails to set only means one extra filter miss on
// the next retry.
func (m *RedisMarker) MarkSent(ctx context.Context, eventID id.EventID, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	pipe := m.client.Pipeline()
	for _, n := range notifications {
		pipe.Set(ctx, sentKeyPrefix+markerKey(eventID, n), "1", m.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mark sent: %v: %w", err, sentinel.ErrUnavailable)
	}
	return nil
}
