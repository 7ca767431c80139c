package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/core/ports"
	"shopdispatch/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

var _ ports.PushChannel = (*RedisChannel)(nil)

// RedisChannel receives events published on "<prefix><eventType>".
type RedisChannel struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisChannel connects lazily; redisURL has the form redis://[:password@]host[:port][/database].
func NewRedisChannel(redisURL, prefix string, logger *slog.Logger) (*RedisChannel, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &RedisChannel{
		client: redis.NewClient(opts),
		prefix: prefix,
		logger: logger.With("component", "redis_push"),
	}, nil
}

func (c *RedisChannel) Subscribe(ctx context.Context, eventType string) (<-chan *rider.LivePosition, error) {
	channel := c.prefix + eventType

	sub := c.client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, classifyRedis("subscribe "+channel, err)
	}

	out := make(chan *rider.LivePosition)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if !forward(ctx, out, []byte(msg.Payload), c.logger) {
					return
				}
			}
		}
	}()

	c.logger.InfoContext(ctx, "Subscribed", "channel", channel)
	return out, nil
}

// Close releases the connection pool.
func (c *RedisChannel) Close() error {
	return c.client.Close()
}

var redisAuthCodes = []string{"NOAUTH", "WRONGPASS", "NOPERM"}

// classifyRedis treats authentication replies as Unauthorized. The client wraps
// the reply to its AUTH/HELLO handshake, so the code may sit after a prefix.
func classifyRedis(op string, err error) error {
	var reply redis.Error
	if errors.As(err, &reply) && isRedisAuthCode(reply.Error(), strings.HasPrefix) {
		return errs.NewUnauthorizedError(op, err)
	}
	if isRedisAuthCode(err.Error(), strings.Contains) {
		return errs.NewUnauthorizedError(op, err)
	}
	return errs.NewTransientError(op, err)
}

func isRedisAuthCode(msg string, match func(s, substr string) bool) bool {
	for _, code := range redisAuthCodes {
		if match(msg, code) {
			return true
		}
	}
	return false
}
