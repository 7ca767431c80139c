package push

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/core/ports"
	"shopdispatch/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

var _ ports.PushChannel = (*KafkaChannel)(nil)

// KafkaConfig selects the brokers and the consumer group. Topics are named
// "<TopicPrefix><eventType>".
type KafkaConfig struct {
	Brokers     []string
	GroupID     string
	TopicPrefix string
	DialTimeout time.Duration
}

// KafkaChannel reads events from a Kafka topic as part of a consumer group.
type KafkaChannel struct {
	cfg    KafkaConfig
	logger *slog.Logger
}

func NewKafkaChannel(cfg KafkaConfig, logger *slog.Logger) (*KafkaChannel, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("kafka brokers")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	return &KafkaChannel{cfg: cfg, logger: logger.With("component", "kafka_push")}, nil
}

// Subscribe checks that a broker answers, then reads the topic until ctx is
// done or a read fails. A failed read closes the returned channel.
func (c *KafkaChannel) Subscribe(ctx context.Context, eventType string) (<-chan *rider.LivePosition, error) {
	topic := c.cfg.TopicPrefix + eventType

	if err := c.ping(ctx); err != nil {
		return nil, errs.NewTransientError("dial kafka", err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.cfg.Brokers,
		Topic:    topic,
		GroupID:  c.cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	out := make(chan *rider.LivePosition)
	go func() {
		defer close(out)
		defer func() {
			if err := reader.Close(); err != nil {
				c.logger.Warn("Failed to close reader", "topic", topic, "error", err)
			}
		}()

		for {
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
					c.logger.WarnContext(ctx, "Kafka read failed", "topic", topic, "error", err)
				}
				return
			}
			if !forward(ctx, out, m.Value, c.logger) {
				return
			}
		}
	}()

	c.logger.InfoContext(ctx, "Subscribed", "topic", topic, "group", c.cfg.GroupID)
	return out, nil
}

func (c *KafkaChannel) ping(ctx context.Context) error {
	dialer := &kafka.Dialer{Timeout: c.cfg.DialTimeout}

	var all []error
	for _, broker := range c.cfg.Brokers {
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err == nil {
			return conn.Close()
		}
		all = append(all, err)
	}
	return errors.Join(all...)
}
