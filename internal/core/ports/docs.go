// Package ports defines the contracts between the reconciliation core and the
// outside world: the external store it reads from, the push channel that
// supplements polling, and the sinks notifications are published to.
package ports
