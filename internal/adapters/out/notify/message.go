// Package notify forwards derived notifications to other systems.
package notify

import (
	"time"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

// Message is the JSON body published for one notification.
type Message struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	ShipmentID kernel.ID `json:"shipmentId"`
	RiderID    kernel.ID `json:"riderId,omitempty"`
	IssueID    kernel.ID `json:"issueId,omitempty"`
	Message    string    `json:"message"`
	Inferred   bool      `json:"inferred"`
	CreatedAt  time.Time `json:"createdAt"`
}

func MessageFrom(n *notification.Notification) Message {
	return Message{
		ID:         n.ID(),
		Kind:       string(n.Kind()),
		ShipmentID: n.ShipmentID(),
		RiderID:    n.RiderID(),
		IssueID:    n.IssueID(),
		Message:    n.Message(),
		Inferred:   n.Inferred(),
		CreatedAt:  n.CreatedAt(),
	}
}
