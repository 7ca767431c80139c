// Package push implements ports.PushChannel over the transports the store can
// publish rider positions on: Redis pub/sub, a Kafka topic, or PostgreSQL
// LISTEN/NOTIFY.
//
// Every transport carries the same JSON payload, decoded with
// storewire.DecodePosition. A payload that fails to decode is logged and
// skipped; it never closes the subscription.
package push
