// Package dispatch hands finished notification batches to the delivery
// system. The core makes no assumption about transport; this package's
// production implementation publishes to a Kafka topic the downstream
// email/letter senders consume.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/twmb/franz-go/pkg/kgo"

	"waternotice/internal/notices/models"
)

var (
	dispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waternotice_notifications_dispatched_total",
		Help: "Total notifications handed to the delivery topic",
	})
	dispatchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waternotice_dispatch_failures_total",
		Help: "Total batches that failed to publish",
	})
)

// KafkaPublisher publishes each notification as one JSON record. Records are
// keyed by recipient fingerprint so all notices for one recipient land on
// the same partition in order.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

// NewKafka constructs a Kafka-backed dispatcher.
func NewKafka(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	return &KafkaPublisher{client: client, topic: topic}, nil
}

// Dispatch publishes the batch synchronously. The first failed record fails
// the whole call so the caller can leave sent markers unset and retry.
func (p *KafkaPublisher) Dispatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	records := make([]*kgo.Record, 0, len(notifications))
	for _, n := range notifications {
		payload, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("marshal notification %s: %w", n.ID, err)
		}
		records = append(records, &kgo.Record{
			Key:   []byte(n.RecipientFingerprint.String()),
			Value: payload,
		})
	}

	if err := p.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		dispatchFailures.Inc()
		return fmt.Errorf("publish notification batch: %w", err)
	}

	dispatched.Add(float64(len(notifications)))
	return nil
}

// Close flushes and releases the underlying client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
