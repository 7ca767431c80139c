package commands

import (
	"context"
	"fmt"
	"log/slog"

	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/shipment"
	"shopdispatch/internal/core/domain/services"
	"shopdispatch/internal/core/ports"
)

// ReconcileShipmentsCommandHandler runs one shipment reconciliation cycle.
//
// A failed fetch leaves the view untouched and is returned as is, so the caller
// can tell transient from authorization failures. Anomalies are logged and never
// fail the cycle.
type ReconcileShipmentsCommandHandler struct {
	source    ports.ShipmentSource
	view      *views.ShipmentView
	book      *views.ResponseBook
	lifecycle services.ShipmentLifecycle
	announcer *Announcer
	logger    *slog.Logger
}

func NewReconcileShipmentsCommandHandler(
	source ports.ShipmentSource,
	view *views.ShipmentView,
	book *views.ResponseBook,
	announcer *Announcer,
	logger *slog.Logger,
) ReconcileShipmentsCommandHandler {
	return ReconcileShipmentsCommandHandler{
		source:    source,
		view:      view,
		book:      book,
		lifecycle: services.NewShipmentLifecycle(),
		announcer: announcer,
		logger:    logger.With("component", "reconcile_shipments"),
	}
}

func (h ReconcileShipmentsCommandHandler) Handle(
	ctx context.Context,
	command ReconcileShipmentsCommand,
) (services.ShipmentReconciliation, error) {
	if err := command.Validate(); err != nil {
		return services.ShipmentReconciliation{}, err
	}

	active, err := h.source.FetchActiveShipments(ctx)
	if err != nil {
		return services.ShipmentReconciliation{}, fmt.Errorf("fetch active shipments: %w", err)
	}
	fetched := kernel.NewSnapshot(active, command.At())

	var res services.ShipmentReconciliation
	h.view.Update(func(prev kernel.Snapshot[*shipment.Shipment]) kernel.Snapshot[*shipment.Shipment] {
		res = h.lifecycle.Reconcile(prev, fetched, h.view)
		return res.Held
	})

	for _, e := range res.Events {
		if e.Kind == services.Disappeared {
			h.book.Forget(e.ID)
		}
	}

	logAnomalies(ctx, h.logger, res.Anomalies)
	h.announcer.Announce(ctx, res.Notifications)

	h.logger.DebugContext(ctx, "Shipments reconciled",
		"active", res.Held.Len(),
		"events", len(res.Events),
		"notifications", len(res.Notifications),
		"baseline", res.Baseline,
	)
	return res, nil
}
