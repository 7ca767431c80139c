package views

import (
	"sync"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/services"
)

// ResponseBook keeps the latest resolution per shipment. A resolution with a
// winner is final: later records for that shipment are ignored.
type ResponseBook struct {
	mu          sync.RWMutex
	resolutions map[kernel.ID]services.Resolution
}

func NewResponseBook() *ResponseBook {
	return &ResponseBook{resolutions: make(map[kernel.ID]services.Resolution)}
}

// Get returns the latest resolution for the shipment.
func (b *ResponseBook) Get(shipmentID kernel.ID) (services.Resolution, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	res, ok := b.resolutions[shipmentID]
	return res, ok
}

// Frozen reports whether the shipment already has a winner.
func (b *ResponseBook) Frozen(shipmentID kernel.ID) bool {
	res, ok := b.Get(shipmentID)
	return ok && res.Winner != nil
}

// Record stores res and returns the resolution it replaced. It reports false and
// keeps the frozen resolution when the shipment already has a winner.
func (b *ResponseBook) Record(res services.Resolution) (services.Resolution, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev := b.resolutions[res.ShipmentID]
	if prev.Winner != nil {
		return prev, false
	}
	b.resolutions[res.ShipmentID] = res
	return prev, true
}

// Forget drops the shipment, e.g. once it left the active listing.
func (b *ResponseBook) Forget(shipmentID kernel.ID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.resolutions, shipmentID)
}

// Reset drops every shipment.
func (b *ResponseBook) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.resolutions)
}
