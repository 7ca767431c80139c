package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"shopdispatch/internal/core/application/usecases/commands"
	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/notification"
	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func tick(n int) time.Time {
	return t0.Add(time.Duration(n) * 5 * time.Second)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockShipmentSource struct{ mock.Mock }

func (m *MockShipmentSource) FetchActiveShipments(ctx context.Context) ([]*shipment.Shipment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentSource) FetchCompletedShipments(ctx context.Context, limit int) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipment.Shipment), args.Error(1)
}

type MockResponseSource struct{ mock.Mock }

func (m *MockResponseSource) FetchRiderResponses(ctx context.Context, id kernel.ID) ([]*rider.Response, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rider.Response), args.Error(1)
}

type MockIssueSource struct{ mock.Mock }

func (m *MockIssueSource) FetchIssues(ctx context.Context, filter issue.Filter) ([]*issue.Issue, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*issue.Issue), args.Error(1)
}

type MockIssueResponder struct{ mock.Mock }

func (m *MockIssueResponder) RespondToIssue(
	ctx context.Context,
	id kernel.ID,
	action issue.Action,
	message string,
) error {
	args := m.Called(ctx, id, action, message)
	return args.Error(0)
}

type MockSink struct{ mock.Mock }

func (m *MockSink) Publish(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func newAnnouncer(feed *views.NotificationFeed, sink *MockSink) *commands.Announcer {
	if sink == nil {
		return commands.NewAnnouncer(feed, nil, discardLogger())
	}
	return commands.NewAnnouncer(feed, sink, discardLogger())
}

func ship(t *testing.T, id string, status shipment.Status) *shipment.Shipment {
	t.Helper()

	s, err := shipment.RestoreShipment(shipment.Params{ID: kernel.MustID(id), Status: status, CreatedAt: t0})
	require.NoError(t, err)
	return s
}

func response(t *testing.T, riderID string, status rider.ResponseStatus) *rider.Response {
	t.Helper()

	r, err := rider.RestoreResponse("42", kernel.MustID(riderID), "Rider "+riderID, "", status, t0)
	require.NoError(t, err)
	return r
}

func reportedIssue(t *testing.T, id string) *issue.Issue {
	t.Helper()

	i, err := issue.RestoreIssue(issue.Params{
		ID:         kernel.MustID(id),
		ShipmentID: "42",
		IssueType:  "customer_unreachable",
		ReportedAt: t0,
		Status:     issue.Reported,
	})
	require.NoError(t, err)
	return i
}
