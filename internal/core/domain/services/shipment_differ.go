package services

import (
	"fmt"
	"time"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/shipment"
)

// EventKind classifies a per-id difference between two snapshots.
type EventKind int

const (
	// Appeared is an id absent from the previous snapshot.
	Appeared EventKind = iota + 1
	// StatusChanged is a known status replaced by a different known status.
	StatusChanged
	// Updated is any other attribute change, including a status that became or
	// stopped being malformed.
	Updated
	// Disappeared is an id absent from the current snapshot.
	Disappeared
)

func (k EventKind) String() string {
	switch k {
	case Appeared:
		return "appeared"
	case StatusChanged:
		return "status_changed"
	case Updated:
		return "updated"
	case Disappeared:
		return "disappeared"
	default:
		return "unknown"
	}
}

// ShipmentEvent is one semantic change. Before is nil for Appeared, After is nil
// for Disappeared.
type ShipmentEvent struct {
	Kind   EventKind
	ID     kernel.ID
	Before *shipment.Shipment
	After  *shipment.Shipment
}

// From returns the status before the change, or Unknown.
func (e ShipmentEvent) From() shipment.Status {
	if e.Before == nil {
		return shipment.Unknown
	}
	return e.Before.Status()
}

// To returns the status after the change, or Unknown.
func (e ShipmentEvent) To() shipment.Status {
	if e.After == nil {
		return shipment.Unknown
	}
	return e.After.Status()
}

func (e ShipmentEvent) String() string {
	if e.Kind == StatusChanged {
		return fmt.Sprintf("%s(%s, %s->%s)", e.Kind, e.ID, e.From(), e.To())
	}
	return fmt.Sprintf("%s(%s)", e.Kind, e.ID)
}

// ShipmentDiffer compares shipment snapshots by id.
type ShipmentDiffer struct{}

func NewShipmentDiffer() ShipmentDiffer {
	return ShipmentDiffer{}
}

// Diff returns the events that turn prev into next. Events for ids in next come
// first, in next's order; disappearances follow in prev's order. Records whose
// state is unchanged produce nothing. When an id is listed twice the first
// occurrence is used.
func (ShipmentDiffer) Diff(prev, next kernel.Snapshot[*shipment.Shipment]) []ShipmentEvent {
	before := indexByID(prev.Items(), (*shipment.Shipment).ID)
	after := indexByID(next.Items(), (*shipment.Shipment).ID)

	var events []ShipmentEvent
	emitted := make(map[kernel.ID]struct{}, next.Len())

	for i := range next.Len() {
		cur := next.At(i)
		if _, done := emitted[cur.ID()]; done {
			continue
		}
		emitted[cur.ID()] = struct{}{}

		old, existed := before[cur.ID()]
		switch {
		case !existed:
			events = append(events, ShipmentEvent{Kind: Appeared, ID: cur.ID(), After: cur})
		case old.SameState(cur):
		case old.HasKnownStatus() && cur.HasKnownStatus() && old.Status() != cur.Status():
			events = append(events, ShipmentEvent{Kind: StatusChanged, ID: cur.ID(), Before: old, After: cur})
		default:
			events = append(events, ShipmentEvent{Kind: Updated, ID: cur.ID(), Before: old, After: cur})
		}
	}

	for i := range prev.Len() {
		old := prev.At(i)
		if _, still := after[old.ID()]; still {
			continue
		}
		if _, done := emitted[old.ID()]; done {
			continue
		}
		emitted[old.ID()] = struct{}{}
		events = append(events, ShipmentEvent{Kind: Disappeared, ID: old.ID(), Before: old})
	}

	return events
}

// Replay applies events to prev and returns the resulting snapshot stamped with
// fetchedAt. Replay(prev, Diff(prev, next)) holds the same records as next.
// Surviving records keep prev's order and appearances are appended.
func (ShipmentDiffer) Replay(
	prev kernel.Snapshot[*shipment.Shipment],
	events []ShipmentEvent,
	fetchedAt time.Time,
) kernel.Snapshot[*shipment.Shipment] {
	replaced := make(map[kernel.ID]*shipment.Shipment, len(events))
	removed := make(map[kernel.ID]struct{})
	var appended []*shipment.Shipment

	for _, e := range events {
		switch e.Kind {
		case Appeared:
			appended = append(appended, e.After)
		case StatusChanged, Updated:
			replaced[e.ID] = e.After
		case Disappeared:
			removed[e.ID] = struct{}{}
		}
	}

	items := make([]*shipment.Shipment, 0, prev.Len()+len(appended))
	seen := make(map[kernel.ID]struct{}, prev.Len())
	for i := range prev.Len() {
		s := prev.At(i)
		if _, dup := seen[s.ID()]; dup {
			continue
		}
		seen[s.ID()] = struct{}{}

		if _, gone := removed[s.ID()]; gone {
			continue
		}
		if r, ok := replaced[s.ID()]; ok {
			s = r
		}
		items = append(items, s)
	}
	items = append(items, appended...)

	return kernel.NewSnapshot(items, fetchedAt)
}
