// Package services holds the reconciliation logic that turns successive store
// snapshots into semantic events and admin notifications.
//
// The package includes:
//   - ShipmentDiffer: per-id diff of two shipment snapshots, and its inverse Replay
//   - ShipmentLifecycle: validates diffs against the lifecycle and derives notifications
//   - ResponseTracker: resolves a shipment's rider responses to a single winner
//   - IssueReconciler: follows issues through reported, admin_responded and resolved
//
// Everything here is pure: no I/O, no clocks except the timestamps passed in.
package services
