// Package notification models the admin-facing messages derived from changes
// between successive snapshots of the external store.
package notification

import (
	"fmt"
	"time"

	"shopdispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// Kind says what happened.
type Kind string

const (
	ShipmentAccepted  Kind = "shipment_accepted"
	ShipmentPickedUp  Kind = "shipment_picked_up"
	ShipmentDelivered Kind = "shipment_delivered"
	RiderDeclined     Kind = "rider_declined"
	RiderAccepted     Kind = "rider_accepted"
	IssueReported     Kind = "issue_reported"
	IssueResolved     Kind = "issue_resolved"
)

// Notification is immutable once built.
type Notification struct {
	id         uuid.UUID
	kind       Kind
	shipmentID kernel.ID
	riderID    kernel.ID
	issueID    kernel.ID
	message    string
	inferred   bool
	createdAt  time.Time
}

// Option sets optional attributes on a notification under construction.
type Option func(*Notification)

// WithRider attaches the rider the notification is about.
func WithRider(id kernel.ID) Option {
	return func(n *Notification) { n.riderID = id }
}

// WithIssue attaches the issue the notification is about.
func WithIssue(id kernel.ID) Option {
	return func(n *Notification) { n.issueID = id }
}

// Inferred marks a notification derived from indirect evidence, such as a
// shipment vanishing from the active listing, rather than from a status field.
func Inferred() Option {
	return func(n *Notification) { n.inferred = true }
}

// New builds a notification with a fresh random id.
func New(kind Kind, shipmentID kernel.ID, message string, createdAt time.Time, opts ...Option) *Notification {
	n := &Notification{
		id:         uuid.New(),
		kind:       kind,
		shipmentID: shipmentID,
		message:    message,
		createdAt:  createdAt,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Restore rebuilds a notification that already has an id, e.g. one read back
// from a message queue.
func Restore(
	id uuid.UUID,
	kind Kind,
	shipmentID kernel.ID,
	message string,
	createdAt time.Time,
	opts ...Option,
) *Notification {
	n := New(kind, shipmentID, message, createdAt, opts...)
	n.id = id
	return n
}

func (n *Notification) ID() uuid.UUID {
	return n.id
}

func (n *Notification) Kind() Kind {
	return n.kind
}

func (n *Notification) ShipmentID() kernel.ID {
	return n.shipmentID
}

// RiderID is zero when the notification is not about a rider.
func (n *Notification) RiderID() kernel.ID {
	return n.riderID
}

// IssueID is zero when the notification is not about an issue.
func (n *Notification) IssueID() kernel.ID {
	return n.issueID
}

func (n *Notification) Message() string {
	return n.message
}

func (n *Notification) Inferred() bool {
	return n.inferred
}

func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

func (n *Notification) String() string {
	if n.inferred {
		return fmt.Sprintf("%s(%s, inferred)", n.kind, n.shipmentID)
	}
	return fmt.Sprintf("%s(%s)", n.kind, n.shipmentID)
}
