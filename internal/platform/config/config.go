package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Batch captures configuration for a notice batch run. Collaborator backends
// are optional: an empty URL selects the in-memory implementation so the
// binary stays runnable without infrastructure.
type Batch struct {
	PostgresURL string
	Redis       RedisConfig
	Kafka       KafkaConfig
	ShardCount  int
}

// RedisConfig holds connection settings for the sent-marker store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the notification dispatch topic.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Batch config from environment variables so main stays lean.
func FromEnv() Batch {
	shards := 1
	if v := os.Getenv("NOTICE_SHARDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			shards = n
		}
	}

	topic := os.Getenv("NOTICE_KAFKA_TOPIC")
	if topic == "" {
		topic = "notice.notifications"
	}

	var brokers []string
	if v := os.Getenv("NOTICE_KAFKA_BROKERS"); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Batch{
		PostgresURL: os.Getenv("NOTICE_POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("NOTICE_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   topic,
		},
		ShardCount: shards,
	}
}
