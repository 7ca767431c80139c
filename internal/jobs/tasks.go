package jobs

import (
	"context"
	"fmt"
	"time"

	"shopdispatch/internal/core/application/usecases/commands"
	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/ports"
)

// ShipmentTask reconciles active shipments and keeps a response watch on every
// shipment still waiting for a rider.
func ShipmentTask(handler commands.ReconcileShipmentsCommandHandler, watcher *ResponseWatcher) Task {
	return func(ctx context.Context, at time.Time) error {
		res, err := handler.Handle(ctx, commands.NewReconcileShipmentsCommand(at))
		if err != nil {
			return err
		}
		if watcher != nil {
			watcher.Sync(res.Held)
		}
		return nil
	}
}

// IssueTask reconciles the issues reported within window of the tick. A zero
// window fetches every issue.
func IssueTask(handler commands.ReconcileIssuesCommandHandler, window time.Duration) Task {
	return func(ctx context.Context, at time.Time) error {
		var filter issue.Filter
		if window > 0 {
			filter.Since = at.Add(-window)
		}
		_, err := handler.Handle(ctx, commands.NewReconcileIssuesCommand(filter, at))
		return err
	}
}

// RiderTask folds a polled rider snapshot into the position board.
func RiderTask(source ports.RiderSource, board *views.PositionBoard) Task {
	return func(ctx context.Context, _ time.Time) error {
		riders, err := source.FetchLiveRiders(ctx)
		if err != nil {
			return fmt.Errorf("fetch live riders: %w", err)
		}
		return board.MergePoll(ctx, riders)
	}
}
