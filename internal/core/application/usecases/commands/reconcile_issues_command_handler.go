package commands

import (
	"context"
	"fmt"
	"log/slog"

	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/services"
	"shopdispatch/internal/core/ports"
)

// ReconcileIssuesCommandHandler runs one issue reconciliation cycle.
type ReconcileIssuesCommandHandler struct {
	source     ports.IssueSource
	view       *views.IssueView
	reconciler services.IssueReconciler
	announcer  *Announcer
	logger     *slog.Logger
}

func NewReconcileIssuesCommandHandler(
	source ports.IssueSource,
	view *views.IssueView,
	announcer *Announcer,
	logger *slog.Logger,
) ReconcileIssuesCommandHandler {
	return ReconcileIssuesCommandHandler{
		source:     source,
		view:       view,
		reconciler: services.NewIssueReconciler(),
		announcer:  announcer,
		logger:     logger.With("component", "reconcile_issues"),
	}
}

func (h ReconcileIssuesCommandHandler) Handle(
	ctx context.Context,
	command ReconcileIssuesCommand,
) (services.IssueReconciliation, error) {
	if err := command.Validate(); err != nil {
		return services.IssueReconciliation{}, err
	}

	list, err := h.source.FetchIssues(ctx, command.Filter())
	if err != nil {
		return services.IssueReconciliation{}, fmt.Errorf("fetch issues: %w", err)
	}
	fetched := kernel.NewSnapshot(list, command.At())

	var res services.IssueReconciliation
	h.view.Update(func(prev kernel.Snapshot[*issue.Issue]) kernel.Snapshot[*issue.Issue] {
		res = h.reconciler.Reconcile(prev, fetched)
		return res.Held
	})

	logAnomalies(ctx, h.logger, res.Anomalies)
	h.announcer.Announce(ctx, res.Notifications)
	return res, nil
}
