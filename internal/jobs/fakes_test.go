package jobs_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"shopdispatch/internal/core/application/usecases/commands"
	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/core/domain/model/shipment"
	"shopdispatch/internal/jobs"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type stubShipments struct {
	shipments []*shipment.Shipment
}

func (s stubShipments) FetchActiveShipments(context.Context) ([]*shipment.Shipment, error) {
	return s.shipments, nil
}

func (s stubShipments) FetchCompletedShipments(context.Context, int) ([]*shipment.Shipment, error) {
	return nil, nil
}

type stubResponses struct {
	mu    sync.Mutex
	fetch func(kernel.ID) ([]*rider.Response, error)
}

func (s *stubResponses) FetchRiderResponses(_ context.Context, id kernel.ID) ([]*rider.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetch(id)
}

type stubIssues struct {
	mu      sync.Mutex
	filters []issue.Filter
}

func (s *stubIssues) FetchIssues(_ context.Context, filter issue.Filter) ([]*issue.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = append(s.filters, filter)
	return nil, nil
}

type stubRiders struct {
	positions []*rider.LivePosition
}

func (s stubRiders) FetchLiveRiders(context.Context) ([]*rider.LivePosition, error) {
	return s.positions, nil
}

func ship(t *testing.T, id string, status shipment.Status) *shipment.Shipment {
	t.Helper()

	s, err := shipment.RestoreShipment(shipment.Params{ID: kernel.MustID(id), Status: status, CreatedAt: t0})
	require.NoError(t, err)
	return s
}

func accepted(t *testing.T, shipmentID, riderID string) *rider.Response {
	t.Helper()

	r, err := rider.RestoreResponse(
		kernel.MustID(shipmentID), kernel.MustID(riderID), "Rider "+riderID, "", rider.ResponseAccepted, t0,
	)
	require.NoError(t, err)
	return r
}

func position(t *testing.T, riderID string, lat float64, at time.Time) *rider.LivePosition {
	t.Helper()

	loc, err := kernel.NewLocation(lat, 77.59)
	require.NoError(t, err)
	p, err := rider.NewLivePosition(kernel.MustID(riderID), loc, rider.StatusAvailable, nil, at)
	require.NoError(t, err)
	return p
}

func newResponseHandler(source *stubResponses, book *views.ResponseBook) commands.TrackRiderResponsesCommandHandler {
	feed := views.NewNotificationFeed(views.DefaultFeedSize)
	return commands.NewTrackRiderResponsesCommandHandler(
		source,
		book,
		commands.NewAnnouncer(feed, nil, discardLogger()),
		discardLogger(),
	)
}

func newWatcher(source *stubResponses) (*jobs.ResponseWatcher, *views.ResponseBook) {
	book := views.NewResponseBook()
	return jobs.NewResponseWatcher(newResponseHandler(source, book), book, time.Hour, discardLogger()), book
}
