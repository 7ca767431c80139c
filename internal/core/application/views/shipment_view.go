package views

import (
	"fmt"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/shipment"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultDeliveredMemory bounds how many delivered shipment ids are remembered.
const DefaultDeliveredMemory = 4096

// ShipmentView is the reconciled list of active shipments plus a bounded memory
// of shipments already announced as delivered.
type ShipmentView struct {
	Held[*shipment.Shipment]

	delivered *lru.Cache[kernel.ID, struct{}]
}

// NewShipmentView remembers up to memory delivered shipments.
func NewShipmentView(memory int) (*ShipmentView, error) {
	if memory <= 0 {
		memory = DefaultDeliveredMemory
	}

	cache, err := lru.New[kernel.ID, struct{}](memory)
	if err != nil {
		return nil, fmt.Errorf("create delivered ledger: %w", err)
	}

	return &ShipmentView{delivered: cache}, nil
}

// Delivered reports whether the shipment was announced as delivered.
func (v *ShipmentView) Delivered(id kernel.ID) bool {
	return v.delivered.Contains(id)
}

// MarkDelivered records the announcement.
func (v *ShipmentView) MarkDelivered(id kernel.ID) {
	v.delivered.Add(id, struct{}{})
}

// Find returns the held shipment with id.
func (v *ShipmentView) Find(id kernel.ID) (*shipment.Shipment, bool) {
	snap := v.Load()
	for i := range snap.Len() {
		if s := snap.At(i); s.ID() == id {
			return s, true
		}
	}
	return nil, false
}
