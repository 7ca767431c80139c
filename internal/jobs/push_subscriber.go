package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/core/ports"
	"shopdispatch/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// PushSubscriber keeps a rider position subscription open and merges every
// event into the position board. A dropped subscription is reopened with
// exponential backoff; missed events are not replayed, the next poll covers them.
// Rejected credentials stop the loop until Resume.
type PushSubscriber struct {
	channel ports.PushChannel
	board   *views.PositionBoard
	logger  *slog.Logger

	// MaxInterval caps the wait between resubscribe attempts.
	MaxInterval time.Duration

	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	looping   bool
	suspended bool
	lastErr   error
	openedAt  time.Time
}

func NewPushSubscriber(channel ports.PushChannel, board *views.PositionBoard, logger *slog.Logger) *PushSubscriber {
	return &PushSubscriber{
		channel:     channel,
		board:       board,
		logger:      logger.With("component", "push_subscriber"),
		MaxInterval: 30 * time.Second,
	}
}

func (s *PushSubscriber) Name() string {
	return "rider_push"
}

// Start opens the subscription in the background.
func (s *PushSubscriber) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.suspended = false
	s.lastErr = nil
	s.launchLocked()
	return nil
}

func (s *PushSubscriber) launchLocked() {
	ctx, done := s.ctx, make(chan struct{})
	s.done = done
	s.looping = true

	go func() {
		defer close(done)
		s.finish(s.Run(ctx))
	}()
}

func (s *PushSubscriber) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.looping = false
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}

	s.lastErr = err
	if errs.IsUnauthorized(err) {
		s.suspended = true
		s.logger.Error("Push subscription suspended, re-authentication required", "error", err)
		return
	}
	s.logger.Error("Push subscription stopped", "error", err)
}

// Stop closes the subscription and waits for the loop to exit.
func (s *PushSubscriber) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.ctx, s.cancel, s.done = nil, nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Resume restarts a started subscriber whose loop has ended, typically after
// the channel rejected the credentials.
func (s *PushSubscriber) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil || s.looping {
		return
	}

	s.suspended = false
	s.lastErr = nil
	s.launchLocked()
	s.logger.Info("Push subscription resumed")
}

// Health reports whether the loop is running and why it ended if it is not.
func (s *PushSubscriber) Health() Health {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := Health{
		Name:        s.Name(),
		Running:     s.looping,
		Suspended:   s.suspended,
		LastSuccess: s.openedAt,
	}
	if s.lastErr != nil {
		h.LastError = s.lastErr.Error()
	}
	return h
}

func (s *PushSubscriber) markOpen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openedAt = time.Now()
}

// Run subscribes and merges events until ctx is done or the channel rejects
// the credentials.
func (s *PushSubscriber) Run(ctx context.Context) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = s.MaxInterval
	policy.MaxElapsedTime = 0

	for {
		var events <-chan *rider.LivePosition
		subscribe := func() error {
			ch, err := s.channel.Subscribe(ctx, ports.EventRiderLocation)
			if err != nil {
				if errs.IsUnauthorized(err) {
					return backoff.Permanent(err)
				}
				return err
			}
			events = ch
			return nil
		}
		notify := func(err error, wait time.Duration) {
			s.logger.WarnContext(ctx, "Push subscribe failed", "error", err, "retry_in", wait)
		}

		if err := backoff.RetryNotify(subscribe, backoff.WithContext(policy, ctx), notify); err != nil {
			return err
		}
		policy.Reset()
		s.markOpen()
		s.logger.InfoContext(ctx, "Push subscription open", "event", ports.EventRiderLocation)

		for p := range events {
			if err := s.board.MergePush(ctx, p); err != nil {
				return err
			}
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.WarnContext(ctx, "Push subscription closed, resubscribing")
	}
}
