package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/core/domain/model/shipment"
	"shopdispatch/internal/core/ports"
	"shopdispatch/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

var _ ports.Store = (*Store)(nil)

// Store implements ports.Store on top of the store's database.
type Store struct {
	factory ports.UnitOfWorkFactory
	now     func() time.Time
	logger  *slog.Logger
}

func NewStore(factory ports.UnitOfWorkFactory, logger *slog.Logger) *Store {
	return &Store{
		factory: factory,
		now:     time.Now,
		logger:  logger.With("component", "postgres_store"),
	}
}

func (s *Store) FetchActiveShipments(ctx context.Context) ([]*shipment.Shipment, error) {
	items, err := s.factory.Create().ShipmentRepository().ListActive(ctx)
	return items, classify("list active shipments", err)
}

func (s *Store) FetchCompletedShipments(ctx context.Context, limit int) ([]*shipment.Shipment, error) {
	items, err := s.factory.Create().ShipmentRepository().ListCompleted(ctx, limit)
	return items, classify("list completed shipments", err)
}

func (s *Store) FetchLiveRiders(ctx context.Context) ([]*rider.LivePosition, error) {
	items, err := s.factory.Create().RiderRepository().ListPositions(ctx)
	return items, classify("list live riders", err)
}

func (s *Store) FetchRiderResponses(ctx context.Context, shipmentID kernel.ID) ([]*rider.Response, error) {
	items, err := s.factory.Create().RiderRepository().ListResponses(ctx, shipmentID)
	return items, classify("list rider responses", err)
}

func (s *Store) FetchIssues(ctx context.Context, filter issue.Filter) ([]*issue.Issue, error) {
	items, err := s.factory.Create().IssueRepository().List(ctx, filter)
	return items, classify("list issues", err)
}

// RespondToIssue locks the issue row, applies the response and commits. An
// issue that is no longer reported is left untouched.
func (s *Store) RespondToIssue(ctx context.Context, issueID kernel.ID, action issue.Action, message string) error {
	const op = "respond to issue"

	uow := s.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return classify(op, err)
	}

	err := func() error {
		i, err := uow.IssueRepository().GetForUpdate(ctx, issueID)
		if err != nil {
			return err
		}
		if err := i.Respond(action, message, s.now()); err != nil {
			return err
		}
		return uow.IssueRepository().Update(ctx, i)
	}()
	if err != nil {
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			s.logger.WarnContext(ctx, "Rollback failed", "issue_id", issueID, "error", rbErr)
		}
		return classify(op, err)
	}

	return classify(op, uow.Commit(ctx))
}

// classify keeps domain errors as they are and sorts database failures into
// authorization failures and transient ones.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errs.IsValidation(err) ||
		errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrDataIntegrity) ||
		errors.Is(err, context.Canceled) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "28000", "28P01", "42501":
			return errs.NewUnauthorizedError(op, err)
		}
	}
	return errs.NewTransientError(op, err)
}
