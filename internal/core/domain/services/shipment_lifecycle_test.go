package services_test

import (
	"testing"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/notification"
	"shopdispatch/internal/core/domain/model/shipment"
	"shopdispatch/internal/core/domain/services"
	"shopdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(ns []*notification.Notification) []notification.Kind {
	out := make([]notification.Kind, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Kind())
	}
	return out
}

func TestShipmentLifecycle_Reconcile(t *testing.T) {
	lifecycle := services.NewShipmentLifecycle()

	t.Run("first poll is a baseline", func(t *testing.T) {
		// Given
		fetched := snap(tick(0), ship(t, "1", shipment.Assigned), ship(t, "2", shipment.PickedUp))

		// When
		res := lifecycle.Reconcile(kernel.Snapshot[*shipment.Shipment]{}, fetched, memLedger{})

		// Then
		assert.True(t, res.Baseline)
		assert.Empty(t, res.Notifications)
		assert.Empty(t, res.Events)
		assert.Equal(t, 2, res.Held.Len())
	})

	t.Run("should announce accepted and picked up", func(t *testing.T) {
		prev := snap(tick(0), ship(t, "1", shipment.Pending), ship(t, "2", shipment.Assigned))
		fetched := snap(tick(1), ship(t, "1", shipment.Assigned, acceptedBy("A")), ship(t, "2", shipment.PickedUp))

		res := lifecycle.Reconcile(prev, fetched, memLedger{})

		assert.Equal(t, []notification.Kind{notification.ShipmentAccepted, notification.ShipmentPickedUp}, kinds(res.Notifications))
		assert.Equal(t, kernel.ID("A"), res.Notifications[0].RiderID())
		assert.Equal(t, tick(1), res.Notifications[0].CreatedAt())
	})

	t.Run("picked_up to in_transit is silent", func(t *testing.T) {
		prev := snap(tick(0), ship(t, "1", shipment.PickedUp))
		fetched := snap(tick(1), ship(t, "1", shipment.InTransit))

		res := lifecycle.Reconcile(prev, fetched, memLedger{})

		require.Len(t, res.Events, 1)
		assert.Empty(t, res.Notifications)
	})

	t.Run("forward skip announces every milestone crossed", func(t *testing.T) {
		prev := snap(tick(0), ship(t, "1", shipment.Pending))
		fetched := snap(tick(1), ship(t, "1", shipment.InTransit))

		res := lifecycle.Reconcile(prev, fetched, memLedger{})

		assert.Equal(t, []notification.Kind{notification.ShipmentAccepted, notification.ShipmentPickedUp}, kinds(res.Notifications))
	})

	t.Run("regression is an anomaly and the furthest status is held", func(t *testing.T) {
		prev := snap(tick(0), ship(t, "1", shipment.PickedUp))
		fetched := snap(tick(1), ship(t, "1", shipment.Assigned))

		res := lifecycle.Reconcile(prev, fetched, memLedger{})

		assert.Empty(t, res.Notifications)
		require.Len(t, res.Anomalies, 1)
		assert.ErrorIs(t, res.Anomalies[0], errs.ErrDataIntegrity)
		assert.Equal(t, shipment.PickedUp, res.Held.At(0).Status())

		// the next forward move is measured from the held status
		next := lifecycle.Reconcile(res.Held, snap(tick(2), ship(t, "1", shipment.InTransit)), memLedger{})
		assert.Empty(t, next.Notifications)
		assert.Empty(t, next.Anomalies)
	})

	t.Run("malformed status never fabricates a transition", func(t *testing.T) {
		prev := snap(tick(0), ship(t, "1", shipment.Pending))
		garbled := snap(tick(1), ship(t, "1", shipment.ParseStatus("")))

		res := lifecycle.Reconcile(prev, garbled, memLedger{})

		assert.Empty(t, res.Notifications)
		assert.Equal(t, shipment.Pending, res.Held.At(0).Status())

		again := lifecycle.Reconcile(res.Held, snap(tick(2), ship(t, "1", shipment.Assigned)), memLedger{})
		assert.Equal(t, []notification.Kind{notification.ShipmentAccepted}, kinds(again.Notifications))
	})

	t.Run("appearance after baseline is not announced", func(t *testing.T) {
		prev := snap(tick(0), ship(t, "1", shipment.Pending))
		fetched := snap(tick(1), ship(t, "1", shipment.Pending), ship(t, "2", shipment.Assigned))

		res := lifecycle.Reconcile(prev, fetched, memLedger{})

		assert.Empty(t, res.Notifications)
	})

	t.Run("duplicate ids are flagged and the first is kept", func(t *testing.T) {
		prev := snap(tick(0), ship(t, "1", shipment.Pending))
		fetched := snap(tick(1), ship(t, "1", shipment.Pending), ship(t, "1", shipment.Assigned))

		res := lifecycle.Reconcile(prev, fetched, memLedger{})

		assert.Empty(t, res.Notifications)
		require.Len(t, res.Anomalies, 1)
		assert.Equal(t, 1, res.Held.Len())
	})
}

func TestShipmentLifecycle_Delivered(t *testing.T) {
	lifecycle := services.NewShipmentLifecycle()

	t.Run("disappearance yields exactly one inferred delivery", func(t *testing.T) {
		// Given
		ledger := memLedger{}
		s1 := snap(tick(0), ship(t, "1", shipment.InTransit), ship(t, "2", shipment.Pending))

		// When
		r2 := lifecycle.Reconcile(s1, snap(tick(1), ship(t, "2", shipment.Pending)), ledger)
		r3 := lifecycle.Reconcile(r2.Held, snap(tick(2), ship(t, "2", shipment.Pending)), ledger)

		// Then
		require.Len(t, r2.Notifications, 1)
		n := r2.Notifications[0]
		assert.Equal(t, notification.ShipmentDelivered, n.Kind())
		assert.Equal(t, kernel.ID("1"), n.ShipmentID())
		assert.True(t, n.Inferred())
		assert.Empty(t, r3.Notifications)
	})

	t.Run("reappearing and vanishing again is not announced twice", func(t *testing.T) {
		ledger := memLedger{}
		s1 := snap(tick(0), ship(t, "1", shipment.InTransit))

		r2 := lifecycle.Reconcile(s1, snap(tick(1)), ledger)
		r3 := lifecycle.Reconcile(r2.Held, snap(tick(2), ship(t, "1", shipment.InTransit)), ledger)
		r4 := lifecycle.Reconcile(r3.Held, snap(tick(3)), ledger)

		assert.Len(t, r2.Notifications, 1)
		assert.Empty(t, r3.Notifications)
		assert.Empty(t, r4.Notifications)
	})

	t.Run("field-driven delivery is announced once and its disappearance is silent", func(t *testing.T) {
		ledger := memLedger{}
		s1 := snap(tick(0), ship(t, "1", shipment.InTransit))

		r2 := lifecycle.Reconcile(s1, snap(tick(1), ship(t, "1", shipment.Delivered)), ledger)
		r3 := lifecycle.Reconcile(r2.Held, snap(tick(2)), ledger)

		require.Len(t, r2.Notifications, 1)
		assert.False(t, r2.Notifications[0].Inferred())
		assert.Empty(t, r3.Notifications)
	})

	t.Run("vanishing from the very first poll is silent", func(t *testing.T) {
		ledger := memLedger{}

		r1 := lifecycle.Reconcile(kernel.Snapshot[*shipment.Shipment]{}, snap(tick(0)), ledger)
		r2 := lifecycle.Reconcile(r1.Held, snap(tick(1)), ledger)

		assert.Empty(t, r1.Notifications)
		assert.Empty(t, r2.Notifications)
	})
}
