package services

import (
	"fmt"
	"time"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/notification"
	"shopdispatch/internal/core/domain/model/shipment"
	"shopdispatch/internal/pkg/errs"
)

// DeliveredLedger remembers shipments already announced as delivered so that a
// delivery is never announced twice, whether it was read from the status field or
// inferred from a disappearance.
type DeliveredLedger interface {
	// Delivered reports whether id was announced.
	Delivered(id kernel.ID) bool
	// MarkDelivered records that id was announced.
	MarkDelivered(id kernel.ID)
}

// ShipmentReconciliation is the outcome of folding one fetched snapshot into the
// held one.
type ShipmentReconciliation struct {
	// Held is the snapshot to diff the next poll against. Unlike the fetched
	// snapshot it never carries a regressed or malformed status for a shipment
	// whose earlier status was known.
	Held kernel.Snapshot[*shipment.Shipment]
	// Events are the changes from the previously held snapshot to Held.
	Events []ShipmentEvent
	// Notifications are the admin messages derived from Events, in order.
	Notifications []*notification.Notification
	// Anomalies are data-integrity problems found in the fetched snapshot.
	Anomalies []error
	// Baseline is true when there was no previous snapshot to compare against.
	Baseline bool
}

// ShipmentLifecycle interprets shipment snapshot diffs against the lifecycle
// pending -> assigned -> picked_up -> in_transit -> delivered.
type ShipmentLifecycle struct {
	differ ShipmentDiffer
}

func NewShipmentLifecycle() ShipmentLifecycle {
	return ShipmentLifecycle{differ: NewShipmentDiffer()}
}

// Reconcile folds fetched into prev.
//
// Rules:
//   - the first snapshot is a baseline: nothing is announced
//   - a duplicate id keeps its first occurrence
//   - a malformed status keeps the previously known one and produces no transition
//   - a regression is an anomaly; the furthest status is held and nothing is announced
//   - a forward move announces every milestone crossed, in order
//   - a shipment missing from fetched is announced as delivered, flagged as inferred,
//     unless it was already announced
func (l ShipmentLifecycle) Reconcile(
	prev kernel.Snapshot[*shipment.Shipment],
	fetched kernel.Snapshot[*shipment.Shipment],
	ledger DeliveredLedger,
) ShipmentReconciliation {
	items, anomalies := dedupe(fetched.Items(), (*shipment.Shipment).ID, "shipment listing")

	previous := indexByID(prev.Items(), (*shipment.Shipment).ID)
	for i, s := range items {
		old, ok := previous[s.ID()]
		if !ok || !old.HasKnownStatus() {
			continue
		}

		switch {
		case !s.HasKnownStatus():
			items[i] = s.WithStatus(old.Status())
		case s.Status() < old.Status():
			anomalies = append(anomalies, errs.NewDataIntegrityError(
				"shipment "+s.ID().String(),
				fmt.Sprintf("status went back from %s to %s, holding %s", old.Status(), s.Status(), old.Status()),
			))
			items[i] = s.WithStatus(old.Status())
		}
	}

	held := kernel.NewSnapshot(items, fetched.FetchedAt())
	result := ShipmentReconciliation{Held: held, Anomalies: anomalies}

	if prev.IsZero() {
		result.Baseline = true
		for _, s := range items {
			if s.Status() == shipment.Delivered {
				ledger.MarkDelivered(s.ID())
			}
		}
		return result
	}

	result.Events = l.differ.Diff(prev, held)
	at := fetched.FetchedAt()
	for _, e := range result.Events {
		result.Notifications = append(result.Notifications, l.interpret(e, ledger, at)...)
	}

	return result
}

func (l ShipmentLifecycle) interpret(
	e ShipmentEvent,
	ledger DeliveredLedger,
	at time.Time,
) []*notification.Notification {
	switch e.Kind {
	case StatusChanged:
		var out []*notification.Notification
		for _, step := range e.From().Steps(e.To()) {
			milestone, ok := step.Milestone()
			if !ok {
				continue
			}
			if n := l.announce(milestone, e.After, ledger, at, false); n != nil {
				out = append(out, n)
			}
		}
		return out

	case Disappeared:
		if e.Before.Status() == shipment.Delivered {
			ledger.MarkDelivered(e.ID)
			return nil
		}
		if n := l.announce(shipment.MilestoneDelivered, e.Before, ledger, at, true); n != nil {
			return []*notification.Notification{n}
		}
		return nil

	default:
		return nil
	}
}

func (l ShipmentLifecycle) announce(
	m shipment.Milestone,
	s *shipment.Shipment,
	ledger DeliveredLedger,
	at time.Time,
	inferred bool,
) *notification.Notification {
	var opts []notification.Option
	if rider := s.AcceptedRiderID(); rider != nil {
		opts = append(opts, notification.WithRider(*rider))
	}

	switch m {
	case shipment.MilestoneAccepted:
		return notification.New(notification.ShipmentAccepted, s.ID(),
			fmt.Sprintf("Shipment %s was accepted by a rider", s.ID()), at, opts...)

	case shipment.MilestonePickedUp:
		return notification.New(notification.ShipmentPickedUp, s.ID(),
			fmt.Sprintf("Shipment %s was picked up", s.ID()), at, opts...)

	case shipment.MilestoneDelivered:
		if ledger.Delivered(s.ID()) {
			return nil
		}
		ledger.MarkDelivered(s.ID())
		if inferred {
			opts = append(opts, notification.Inferred())
		}
		return notification.New(notification.ShipmentDelivered, s.ID(),
			fmt.Sprintf("Shipment %s was delivered", s.ID()), at, opts...)

	default:
		return nil
	}
}
