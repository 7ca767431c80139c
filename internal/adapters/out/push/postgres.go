package push

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/core/ports"
	"shopdispatch/internal/pkg/errs"

	"github.com/lib/pq"
)

var _ ports.PushChannel = (*PostgresChannel)(nil)

// PostgresChannel receives events sent with NOTIFY on a channel named after the
// event type. The listener reconnects on its own; notifications sent while it
// was away are lost.
type PostgresChannel struct {
	dsn          string
	minReconnect time.Duration
	maxReconnect time.Duration
	logger       *slog.Logger
}

func NewPostgresChannel(dsn string, logger *slog.Logger) *PostgresChannel {
	return &PostgresChannel{
		dsn:          dsn,
		minReconnect: time.Second,
		maxReconnect: 30 * time.Second,
		logger:       logger.With("component", "postgres_push"),
	}
}

func (c *PostgresChannel) Subscribe(ctx context.Context, eventType string) (<-chan *rider.LivePosition, error) {
	const op = "listen "
	failed := make(chan error, 1)

	listener := pq.NewListener(c.dsn, c.minReconnect, c.maxReconnect, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnectionAttemptFailed, pq.ListenerEventDisconnected:
			c.logger.Warn("Listener connection lost", "channel", eventType, "error", err)
			select {
			case failed <- err:
			default:
			}
		case pq.ListenerEventReconnected:
			c.logger.Info("Listener reconnected, notifications sent meanwhile are lost", "channel", eventType)
		}
	})

	// Listen blocks until the first connection is up.
	listened := make(chan error, 1)
	go func() { listened <- listener.Listen(eventType) }()

	select {
	case err := <-listened:
		if err != nil {
			_ = listener.Close()
			return nil, classifyPostgres(op+eventType, err)
		}
	case err := <-failed:
		_ = listener.Close()
		<-listened
		return nil, classifyPostgres(op+eventType, err)
	case <-ctx.Done():
		_ = listener.Close()
		<-listened
		return nil, ctx.Err()
	}

	out := make(chan *rider.LivePosition)
	go func() {
		defer close(out)
		defer listener.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-listener.Notify:
				if !ok {
					return
				}
				if n == nil {
					continue
				}
				if !forward(ctx, out, []byte(n.Extra), c.logger) {
					return
				}
			}
		}
	}()

	c.logger.InfoContext(ctx, "Subscribed", "channel", eventType)
	return out, nil
}

func classifyPostgres(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "28000", "28P01", "42501":
			return errs.NewUnauthorizedError(op, err)
		}
	}
	return errs.NewTransientError(op, err)
}
