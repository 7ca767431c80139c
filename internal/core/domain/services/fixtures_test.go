package services_test

import (
	"testing"
	"time"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/core/domain/model/shipment"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func tick(n int) time.Time {
	return t0.Add(time.Duration(n) * 5 * time.Second)
}

func ship(t *testing.T, id string, status shipment.Status, opts ...func(*shipment.Params)) *shipment.Shipment {
	t.Helper()

	p := shipment.Params{
		ID:        kernel.MustID(id),
		Status:    status,
		Customer:  shipment.Customer{Name: "Asha", Mobile: "9000000000", Address: "12 MG Road"},
		Price:     4500,
		CreatedAt: t0,
		UpdatedAt: t0,
	}
	for _, opt := range opts {
		opt(&p)
	}

	s, err := shipment.RestoreShipment(p)
	require.NoError(t, err)
	return s
}

func acceptedBy(riderID string) func(*shipment.Params) {
	return func(p *shipment.Params) {
		id := kernel.MustID(riderID)
		p.AcceptedRiderID = &id
	}
}

func priced(price int64) func(*shipment.Params) {
	return func(p *shipment.Params) { p.Price = price }
}

func snap(at time.Time, items ...*shipment.Shipment) kernel.Snapshot[*shipment.Shipment] {
	return kernel.NewSnapshot(items, at)
}

func response(t *testing.T, shipmentID, riderID string, status rider.ResponseStatus) *rider.Response {
	t.Helper()

	r, err := rider.RestoreResponse(
		kernel.MustID(shipmentID), kernel.MustID(riderID),
		"Rider "+riderID, "9111111111", status, t0,
	)
	require.NoError(t, err)
	return r
}

// memLedger is an unbounded DeliveredLedger.
type memLedger map[kernel.ID]bool

func (l memLedger) Delivered(id kernel.ID) bool { return l[id] }

func (l memLedger) MarkDelivered(id kernel.ID) { l[id] = true }
