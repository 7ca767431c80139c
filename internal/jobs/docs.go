// Package jobs runs the reconciliation loops as explicit, stoppable tasks built
// on github.com/robfig/cron/v3.
//
// # Loops
//
//  1. Poller - one per domain (shipments, issues, rider positions); runs a task on
//     a fixed interval with a per-run timeout, never overlapping itself
//  2. ResponseWatcher - one cron entry per shipment awaiting a rider, removed the
//     moment an accepted response is seen
//  3. PushSubscriber - keeps a push channel subscription alive and folds its events
//     into the rider position board
//
// # Usage
//
// Loops are grouped per domain by JobManager, which opens and closes them with
// the admin's views:
//
//	manager := jobs.NewJobManager(logger)
//	manager.Register(jobs.DomainShipments, shipmentPoller, responseWatcher)
//
//	if err := manager.Open(jobs.DomainShipments); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// # Error Handling
//
//   - transient failures are logged and retried on the next tick only
//   - an authorization failure suspends the domain's poller until Resume
//   - a domain whose runs have failed for longer than its staleness threshold
//     reports itself stale
//   - one domain's failures never stop another domain
package jobs
