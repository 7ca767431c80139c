// Package shipment models a delivery from the shop admin to a customer as the
// admin's client observes it through polled snapshots.
//
// The package includes:
//   - Shipment: a read model restored from the external store, never created here
//   - Status: the lifecycle state machine pending -> assigned -> picked_up -> in_transit -> delivered
//   - Transition and Milestone: single edges of that machine and the ones worth telling the admin about
//
// Key business rules:
//   - Status is monotonic: a shipment never regresses to an earlier status
//   - Delivered is terminal for the active view; delivered shipments are read from the completed listing
//   - The issue flag may attach to any status from Assigned onward without being a transition itself
//   - A record whose status is malformed is kept (so it does not look like a disappearance)
//     but never produces a transition
package shipment
