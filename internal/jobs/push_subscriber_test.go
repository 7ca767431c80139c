package jobs_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/jobs"
	"shopdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedChannel answers each Subscribe call with the next step of its script.
// When the script runs out it returns a channel that closes with ctx.
type scriptedChannel struct {
	mu     sync.Mutex
	script []func(ctx context.Context) (<-chan *rider.LivePosition, error)
	calls  int
}

func (c *scriptedChannel) Subscribe(ctx context.Context, _ string) (<-chan *rider.LivePosition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if len(c.script) == 0 {
		ch := make(chan *rider.LivePosition)
		go func() {
			<-ctx.Done()
			close(ch)
		}()
		return ch, nil
	}
	step := c.script[0]
	c.script = c.script[1:]
	return step(ctx)
}

func (c *scriptedChannel) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func deliverAndClose(ps ...*rider.LivePosition) func(context.Context) (<-chan *rider.LivePosition, error) {
	return func(context.Context) (<-chan *rider.LivePosition, error) {
		ch := make(chan *rider.LivePosition, len(ps))
		for _, p := range ps {
			ch <- p
		}
		close(ch)
		return ch, nil
	}
}

func failWith(err error) func(context.Context) (<-chan *rider.LivePosition, error) {
	return func(context.Context) (<-chan *rider.LivePosition, error) {
		return nil, err
	}
}

func TestPushSubscriber(t *testing.T) {
	t.Run("resubscribes after failures and dropped connections", func(t *testing.T) {
		// Given
		board := views.NewPositionBoard(func() time.Time { return t0 })
		t.Cleanup(board.Close)
		channel := &scriptedChannel{script: []func(context.Context) (<-chan *rider.LivePosition, error){
			failWith(errs.NewTransientError("dial", errors.New("refused"))),
			deliverAndClose(position(t, "r1", 12.97, t0)),
			deliverAndClose(position(t, "r2", 12.98, t0)),
		}}
		sub := jobs.NewPushSubscriber(channel, board, discardLogger())
		sub.MaxInterval = 50 * time.Millisecond

		// When
		require.NoError(t, sub.Start())
		t.Cleanup(sub.Stop)

		// Then
		require.Eventually(t, func() bool { return board.Len() == 2 }, 5*time.Second, 10*time.Millisecond)
		require.Eventually(t, func() bool { return channel.Calls() == 4 }, 5*time.Second, 10*time.Millisecond)
	})

	t.Run("rejected credentials end the loop", func(t *testing.T) {
		board := views.NewPositionBoard(func() time.Time { return t0 })
		t.Cleanup(board.Close)
		channel := &scriptedChannel{script: []func(context.Context) (<-chan *rider.LivePosition, error){
			failWith(errs.NewUnauthorizedError("subscribe", errors.New("403"))),
		}}
		sub := jobs.NewPushSubscriber(channel, board, discardLogger())

		err := sub.Run(t.Context())

		assert.True(t, errs.IsUnauthorized(err))
		assert.Equal(t, 1, channel.Calls())
	})

	t.Run("rejected credentials show in health until resumed", func(t *testing.T) {
		// Given
		board := views.NewPositionBoard(func() time.Time { return t0 })
		t.Cleanup(board.Close)
		channel := &scriptedChannel{script: []func(context.Context) (<-chan *rider.LivePosition, error){
			failWith(errs.NewUnauthorizedError("subscribe", errors.New("403"))),
		}}
		jm := jobs.NewJobManager(discardLogger())
		jm.Register(jobs.DomainRiders, jobs.NewPushSubscriber(channel, board, discardLogger()))
		t.Cleanup(func() { _ = jm.Close(jobs.DomainRiders) })

		// When
		require.NoError(t, jm.Open(jobs.DomainRiders))

		// Then
		pushHealth := func() jobs.Health {
			h, err := jm.Health(jobs.DomainRiders)
			require.NoError(t, err)
			require.Len(t, h.Jobs, 1)
			return h.Jobs[0]
		}
		require.Eventually(t, func() bool { return pushHealth().Suspended }, 5*time.Second, 10*time.Millisecond)
		suspended := pushHealth()
		assert.False(t, suspended.Running)
		assert.Contains(t, suspended.LastError, "unauthorized")
		assert.Equal(t, 1, channel.Calls())

		// When
		require.NoError(t, jm.Resume(jobs.DomainRiders))

		// Then
		require.Eventually(t, func() bool { return channel.Calls() == 2 }, 5*time.Second, 10*time.Millisecond)
		resumed := pushHealth()
		assert.True(t, resumed.Running)
		assert.False(t, resumed.Suspended)
		assert.Empty(t, resumed.LastError)
	})

	t.Run("resume leaves a running loop alone", func(t *testing.T) {
		board := views.NewPositionBoard(func() time.Time { return t0 })
		t.Cleanup(board.Close)
		channel := &scriptedChannel{}
		sub := jobs.NewPushSubscriber(channel, board, discardLogger())
		require.NoError(t, sub.Start())
		t.Cleanup(sub.Stop)
		require.Eventually(t, func() bool { return channel.Calls() == 1 }, 5*time.Second, 10*time.Millisecond)

		sub.Resume()

		assert.True(t, sub.Health().Running)
		assert.Never(t, func() bool { return channel.Calls() > 1 }, 100*time.Millisecond, 10*time.Millisecond)
	})

	t.Run("cancelled context ends the loop", func(t *testing.T) {
		board := views.NewPositionBoard(func() time.Time { return t0 })
		t.Cleanup(board.Close)
		sub := jobs.NewPushSubscriber(&scriptedChannel{}, board, discardLogger())
		ctx, cancel := context.WithCancel(t.Context())

		done := make(chan error, 1)
		go func() { done <- sub.Run(ctx) }()
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(5 * time.Second):
			t.Fatal("push subscriber did not stop")
		}
	})
}
