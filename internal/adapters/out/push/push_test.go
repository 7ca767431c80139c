package push_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"shopdispatch/internal/core/domain/model/rider"

	"github.com/stretchr/testify/require"
)

const stampedPayload = `{"rider_id":"r1","lat":12.97,"lng":77.59,"status":"in_transit","updated_at":"2026-03-01T12:00:00Z"}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func receive(t *testing.T, events <-chan *rider.LivePosition) *rider.LivePosition {
	t.Helper()

	select {
	case p, ok := <-events:
		require.True(t, ok, "channel closed before an event arrived")
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("no event within 5s")
		return nil
	}
}

func requireClosed(t *testing.T, events <-chan *rider.LivePosition) {
	t.Helper()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel still open after 5s")
		}
	}
}
