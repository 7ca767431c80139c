package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"shopdispatch/internal/core/domain/model/notification"
	"shopdispatch/internal/core/ports"
	"shopdispatch/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

var _ ports.NotificationSink = (*RabbitSink)(nil)

// RabbitSink publishes notifications as persistent messages on a durable queue.
// A dropped connection is redialled, and a closed channel reopened, on the
// next Publish.
type RabbitSink struct {
	url    string
	queue  string
	logger *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	chn  *amqp.Channel
}

// NewRabbitSink dials the broker and declares the queue.
func NewRabbitSink(url, queue string, logger *slog.Logger) (*RabbitSink, error) {
	if queue == "" {
		return nil, errs.NewValueIsRequiredError("notify queue")
	}

	s := &RabbitSink{url: url, queue: queue, logger: logger.With("component", "rabbitmq_sink")}
	if err := s.connect(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RabbitSink) connect() error {
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return errs.NewTransientError("dial rabbitmq", err)
	}

	s.conn, s.chn = conn, nil
	if err := s.openChannel(); err != nil {
		_ = conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

// openChannel opens a channel on the current connection and declares the queue.
func (s *RabbitSink) openChannel() error {
	chn, err := s.conn.Channel()
	if err != nil {
		return errs.NewTransientError("open rabbitmq channel", err)
	}

	if _, err := chn.QueueDeclare(
		s.queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		_ = chn.Close()
		return fmt.Errorf("declare queue %s: %w", s.queue, err)
	}

	s.chn = chn
	return nil
}

// ensureOpen redials a lost connection, or reopens the channel alone when the
// broker closed only the channel.
func (s *RabbitSink) ensureOpen(ctx context.Context) error {
	if s.conn == nil || s.conn.IsClosed() {
		s.logger.WarnContext(ctx, "Connection lost, redialling")
		return s.connect()
	}
	if s.chn == nil || s.chn.IsClosed() {
		s.logger.WarnContext(ctx, "Channel closed, reopening")
		return s.openChannel()
	}
	return nil
}

func (s *RabbitSink) Publish(ctx context.Context, n *notification.Notification) error {
	body, err := json.Marshal(MessageFrom(n))
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureOpen(ctx); err != nil {
		return err
	}

	err = s.chn.PublishWithContext(ctx,
		"",      // default exchange
		s.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    n.ID().String(),
			Type:         string(n.Kind()),
			Timestamp:    n.CreatedAt(),
			Body:         body,
		},
	)
	if err != nil {
		return errs.NewTransientError("publish notification", err)
	}
	return nil
}

// Close shuts the channel and the connection.
func (s *RabbitSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	if s.chn != nil && !s.chn.IsClosed() {
		if err := s.chn.Close(); err != nil && !s.conn.IsClosed() {
			return err
		}
	}
	err := s.conn.Close()
	s.conn, s.chn = nil, nil
	if err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	return nil
}
