package commands

import (
	"errors"
	"time"

	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/pkg/guard"
)

var ErrReconcileIssuesCommandIsNotConstructed = errors.New(
	"ReconcileIssuesCommand must be created via NewReconcileIssuesCommand constructor",
)

// ReconcileIssuesCommand fetches the issues in the dashboard window and folds
// them into the issue view.
type ReconcileIssuesCommand struct {
	filter issue.Filter
	at     time.Time

	guard guard.ConstructorGuard
}

func NewReconcileIssuesCommand(filter issue.Filter, at time.Time) ReconcileIssuesCommand {
	return ReconcileIssuesCommand{filter: filter, at: at, guard: guard.NewConstructorGuard()}
}

func (c ReconcileIssuesCommand) Validate() error {
	return c.guard.Validate(ErrReconcileIssuesCommandIsNotConstructed)
}

func (c ReconcileIssuesCommand) Filter() issue.Filter {
	return c.filter
}

func (c ReconcileIssuesCommand) At() time.Time {
	return c.at
}
