package push_test

import (
	"context"
	"testing"

	"shopdispatch/internal/adapters/out/push"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/core/ports"
	"shopdispatch/internal/pkg/errs"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisChannel_Subscribe(t *testing.T) {
	t.Run("delivers decoded events and skips garbage", func(t *testing.T) {
		// Given
		mr := miniredis.RunT(t)
		channel, err := push.NewRedisChannel("redis://"+mr.Addr(), "dispatch:", discardLogger())
		require.NoError(t, err)
		t.Cleanup(func() { _ = channel.Close() })

		events, err := channel.Subscribe(t.Context(), ports.EventRiderLocation)
		require.NoError(t, err)

		// When
		mr.Publish("dispatch:rider_location", `{broken`)
		mr.Publish("dispatch:rider_location", stampedPayload)

		// Then
		p := receive(t, events)
		assert.Equal(t, kernel.ID("r1"), p.RiderID())
		assert.Equal(t, rider.StatusInTransit, p.Status())
	})

	t.Run("cancelling closes the channel", func(t *testing.T) {
		mr := miniredis.RunT(t)
		channel, err := push.NewRedisChannel("redis://"+mr.Addr(), "", discardLogger())
		require.NoError(t, err)
		t.Cleanup(func() { _ = channel.Close() })

		ctx, cancel := context.WithCancel(t.Context())
		events, err := channel.Subscribe(ctx, ports.EventRiderLocation)
		require.NoError(t, err)

		cancel()

		requireClosed(t, events)
	})

	t.Run("rejected credentials are unauthorized", func(t *testing.T) {
		cases := map[string]string{
			"wrong password":   "redis://:wrong@",
			"missing password": "redis://",
		}
		for name, prefix := range cases {
			t.Run(name, func(t *testing.T) {
				// Given
				mr := miniredis.RunT(t)
				mr.RequireAuth("right")
				channel, err := push.NewRedisChannel(prefix+mr.Addr(), "", discardLogger())
				require.NoError(t, err)
				t.Cleanup(func() { _ = channel.Close() })

				// When
				_, err = channel.Subscribe(t.Context(), ports.EventRiderLocation)

				// Then
				assert.True(t, errs.IsUnauthorized(err), "got %v", err)
				assert.False(t, errs.IsTransient(err), "got %v", err)
			})
		}
	})

	t.Run("unreachable server is transient", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()
		channel, err := push.NewRedisChannel("redis://"+addr, "", discardLogger())
		require.NoError(t, err)
		t.Cleanup(func() { _ = channel.Close() })

		_, err = channel.Subscribe(t.Context(), ports.EventRiderLocation)

		assert.True(t, errs.IsTransient(err), "got %v", err)
	})

	t.Run("bad url is rejected", func(t *testing.T) {
		_, err := push.NewRedisChannel("http://nope", "", discardLogger())

		assert.Error(t, err)
	})
}
