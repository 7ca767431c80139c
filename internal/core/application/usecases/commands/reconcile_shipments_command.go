package commands

import (
	"errors"
	"time"

	"shopdispatch/internal/pkg/guard"
)

var ErrReconcileShipmentsCommandIsNotConstructed = errors.New(
	"ReconcileShipmentsCommand must be created via NewReconcileShipmentsCommand constructor",
)

// ReconcileShipmentsCommand fetches the active shipments and folds them into the
// shipment view. at stamps the resulting snapshot and its notifications.
type ReconcileShipmentsCommand struct {
	at time.Time

	guard guard.ConstructorGuard
}

func NewReconcileShipmentsCommand(at time.Time) ReconcileShipmentsCommand {
	return ReconcileShipmentsCommand{at: at, guard: guard.NewConstructorGuard()}
}

func (c ReconcileShipmentsCommand) Validate() error {
	return c.guard.Validate(ErrReconcileShipmentsCommandIsNotConstructed)
}

func (c ReconcileShipmentsCommand) At() time.Time {
	return c.at
}
