package views_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/rider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func at(sec int) time.Time {
	return epoch.Add(time.Duration(sec) * time.Second)
}

func pos(t *testing.T, id string, lat, lng float64, updatedAt time.Time) *rider.LivePosition {
	t.Helper()

	loc, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	p, err := rider.NewLivePosition(kernel.MustID(id), loc, rider.StatusInTransit, nil, updatedAt)
	require.NoError(t, err)
	return p
}

func TestPositionBoard_LastWriterWins(t *testing.T) {
	// Given
	board := views.NewPositionBoard(func() time.Time { return at(100) })
	defer board.Close()
	ctx := t.Context()

	require.NoError(t, board.MergePoll(ctx, []*rider.LivePosition{pos(t, "X", 10, 10, at(5))}))

	t.Run("older push is ignored", func(t *testing.T) {
		require.NoError(t, board.MergePush(ctx, pos(t, "X", 11, 11, at(3))))

		got, ok := board.Get("X")
		require.True(t, ok)
		assert.InDelta(t, 10.0, got.Location().Lat(), 1e-9)
		assert.InDelta(t, 10.0, got.Location().Lng(), 1e-9)
	})

	t.Run("newer push overwrites", func(t *testing.T) {
		require.NoError(t, board.MergePush(ctx, pos(t, "X", 12, 12, at(9))))

		got, _ := board.Get("X")
		assert.InDelta(t, 12.0, got.Location().Lat(), 1e-9)
		assert.Equal(t, at(9), got.UpdatedAt())
	})

	t.Run("equal timestamp keeps the held record", func(t *testing.T) {
		require.NoError(t, board.MergePoll(ctx, []*rider.LivePosition{pos(t, "X", 13, 13, at(9))}))

		got, _ := board.Get("X")
		assert.InDelta(t, 12.0, got.Location().Lat(), 1e-9)
	})
}

func TestPositionBoard_MissingTimestamps(t *testing.T) {
	ctx := t.Context()

	t.Run("unstamped push beats a record stamped in the future", func(t *testing.T) {
		board := views.NewPositionBoard(func() time.Time { return at(1) })
		defer board.Close()

		require.NoError(t, board.MergePoll(ctx, []*rider.LivePosition{pos(t, "X", 10, 10, at(50))}))
		require.NoError(t, board.MergePush(ctx, pos(t, "X", 20, 20, time.Time{})))

		got, _ := board.Get("X")
		assert.InDelta(t, 20.0, got.Location().Lat(), 1e-9)
		assert.True(t, got.UpdatedAt().After(at(50)))
	})

	t.Run("unstamped push is stamped with the clock", func(t *testing.T) {
		board := views.NewPositionBoard(func() time.Time { return at(70) })
		defer board.Close()

		require.NoError(t, board.MergePush(ctx, pos(t, "Y", 1, 1, time.Time{})))

		got, _ := board.Get("Y")
		assert.Equal(t, at(70), got.UpdatedAt())
	})

	t.Run("unstamped poll record only fills a gap", func(t *testing.T) {
		board := views.NewPositionBoard(nil)
		defer board.Close()

		require.NoError(t, board.MergePoll(ctx, []*rider.LivePosition{
			pos(t, "X", 10, 10, at(5)),
		}))
		require.NoError(t, board.MergePoll(ctx, []*rider.LivePosition{
			pos(t, "X", 30, 30, time.Time{}),
			pos(t, "Z", 40, 40, time.Time{}),
		}))

		x, _ := board.Get("X")
		z, ok := board.Get("Z")
		assert.InDelta(t, 10.0, x.Location().Lat(), 1e-9)
		require.True(t, ok)
		assert.InDelta(t, 40.0, z.Location().Lat(), 1e-9)
	})
}

func TestPositionBoard_PollNeverRemoves(t *testing.T) {
	board := views.NewPositionBoard(nil)
	defer board.Close()
	ctx := t.Context()

	require.NoError(t, board.MergePoll(ctx, []*rider.LivePosition{pos(t, "A", 1, 1, at(1)), pos(t, "B", 2, 2, at(1))}))
	require.NoError(t, board.MergePoll(ctx, []*rider.LivePosition{pos(t, "B", 3, 3, at(2))}))

	got := board.Positions()
	require.Len(t, got, 2)
	assert.Equal(t, kernel.ID("A"), got[0].RiderID())
	assert.Equal(t, kernel.ID("B"), got[1].RiderID())
}

func TestPositionBoard_ConcurrentWriters(t *testing.T) {
	board := views.NewPositionBoard(nil)
	defer board.Close()
	ctx := t.Context()

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 1; i <= 50; i++ {
				p := pos(t, fmt.Sprintf("r%d", i%5), float64(w), float64(i), at(i))
				if w%2 == 0 {
					assert.NoError(t, board.MergePush(ctx, p))
				} else {
					assert.NoError(t, board.MergePoll(ctx, []*rider.LivePosition{p}))
				}
				_ = board.Positions()
			}
		}()
	}
	wg.Wait()

	// each rider ends on its latest timestamp, whichever writer delivered it
	assert.Equal(t, 5, board.Len())
	for r := range 5 {
		got, ok := board.Get(kernel.ID(fmt.Sprintf("r%d", r)))
		require.True(t, ok)
		latest := 50 - (50-r)%5
		assert.Equal(t, at(latest), got.UpdatedAt())
	}
}

func TestPositionBoard_Close(t *testing.T) {
	board := views.NewPositionBoard(nil)
	require.NoError(t, board.MergePush(t.Context(), pos(t, "A", 1, 1, at(1))))

	board.Close()
	board.Close()

	err := board.MergePush(context.Background(), pos(t, "A", 2, 2, at(2)))
	require.ErrorIs(t, err, views.ErrBoardClosed)
	assert.Equal(t, 1, board.Len())
}
