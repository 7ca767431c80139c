package ports

import (
	"context"

	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/core/domain/model/shipment"
)

// The repositories below are the store's own tables, used by store adapters
// that reach the store's database directly instead of its HTTP API.

// ShipmentRepository reads the shipments table.
type ShipmentRepository interface {
	ListActive(ctx context.Context) ([]*shipment.Shipment, error)
	ListCompleted(ctx context.Context, limit int) ([]*shipment.Shipment, error)
}

// IssueRepository reads and updates the shipment issues table.
type IssueRepository interface {
	List(ctx context.Context, filter issue.Filter) ([]*issue.Issue, error)

	// GetForUpdate loads an issue and, inside a transaction, locks its row until
	// the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.ID) (*issue.Issue, error)

	Update(ctx context.Context, i *issue.Issue) error
}

// RiderRepository reads rider positions and job offer responses.
type RiderRepository interface {
	ListPositions(ctx context.Context) ([]*rider.LivePosition, error)
	ListResponses(ctx context.Context, shipmentID kernel.ID) ([]*rider.Response, error)
}

// UnitOfWorkFactory creates new UnitOfWork instances for each operation.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary over the store's tables.
// Client code must explicitly manage the transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	ShipmentRepository() ShipmentRepository
	IssueRepository() IssueRepository
	RiderRepository() RiderRepository
}
