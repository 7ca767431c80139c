// Package views holds the admin's in-memory reading of the external store: the
// last reconciled snapshot per domain, the rider response book, the merged rider
// position board and the notification feed. Views are safe for concurrent use.
package views
