// Package queries contains the read operations behind the admin API. Queries
// read the in-memory views; only the completed-shipments listing goes to the
// store, because delivered shipments never enter a view.
package queries
