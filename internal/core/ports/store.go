package ports

import (
	"context"

	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/core/domain/model/shipment"
)

// Implementations classify failures with the errs package: network and timeout
// failures as errs.TransientError, rejected credentials as errs.UnauthorizedError.

// ShipmentSource lists shipments.
type ShipmentSource interface {
	// FetchActiveShipments returns every shipment that is not delivered, in the
	// store's listing order.
	FetchActiveShipments(ctx context.Context) ([]*shipment.Shipment, error)

	// FetchCompletedShipments returns up to limit delivered shipments, most recent first.
	FetchCompletedShipments(ctx context.Context, limit int) ([]*shipment.Shipment, error)
}

// RiderSource lists the last known position of every rider.
type RiderSource interface {
	FetchLiveRiders(ctx context.Context) ([]*rider.LivePosition, error)
}

// ResponseSource lists the riders' answers to one shipment's job offer.
type ResponseSource interface {
	// FetchRiderResponses returns the responses in the store's order. That order
	// decides the winner when the store holds more than one accepted response.
	FetchRiderResponses(ctx context.Context, shipmentID kernel.ID) ([]*rider.Response, error)
}

// IssueSource lists issues raised by riders.
type IssueSource interface {
	FetchIssues(ctx context.Context, filter issue.Filter) ([]*issue.Issue, error)
}

// IssueResponder records the admin's decision on an issue.
type IssueResponder interface {
	// RespondToIssue moves a reported issue to admin_responded. It fails with
	// errs.ErrValueIsInvalid when the store no longer holds the issue as reported
	// and with errs.ErrObjectNotFound when the issue does not exist.
	RespondToIssue(ctx context.Context, issueID kernel.ID, action issue.Action, message string) error
}

// Store is the whole external store.
type Store interface {
	ShipmentSource
	RiderSource
	ResponseSource
	IssueSource
	IssueResponder
}
