package queries

import (
	"errors"
	"time"

	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/pkg/errs"
	"shopdispatch/internal/pkg/guard"

	"github.com/google/uuid"
)

const MaxNotificationsPage = 100

var ErrGetNotificationsQueryIsNotConstructed = errors.New(
	"GetNotificationsQuery must be created via NewGetNotificationsQuery constructor",
)

// GetNotificationsQuery pages through the feed after a cursor.
type GetNotificationsQuery struct {
	after uint64
	limit int

	guard guard.ConstructorGuard
}

// NewGetNotificationsQuery accepts a limit in 1..MaxNotificationsPage; zero
// selects the maximum.
func NewGetNotificationsQuery(after uint64, limit int) (GetNotificationsQuery, error) {
	if limit == 0 {
		limit = MaxNotificationsPage
	}
	if limit < 1 || limit > MaxNotificationsPage {
		return GetNotificationsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxNotificationsPage)
	}
	return GetNotificationsQuery{after: after, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrGetNotificationsQueryIsNotConstructed)
}

type NotificationResponse struct {
	Seq        uint64    `json:"seq"`
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	ShipmentID kernel.ID `json:"shipmentId"`
	RiderID    kernel.ID `json:"riderId,omitempty"`
	IssueID    kernel.ID `json:"issueId,omitempty"`
	Message    string    `json:"message"`
	Inferred   bool      `json:"inferred"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GetNotificationsQueryResponse carries a page and the cursor for the next one.
// Cursor equals the request's cursor when the page is empty.
type GetNotificationsQueryResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Cursor        uint64                 `json:"cursor"`
}

type GetNotificationsQueryHandler struct {
	feed *views.NotificationFeed
}

func NewGetNotificationsQueryHandler(feed *views.NotificationFeed) GetNotificationsQueryHandler {
	return GetNotificationsQueryHandler{feed: feed}
}

func (h GetNotificationsQueryHandler) Handle(query GetNotificationsQuery) (GetNotificationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetNotificationsQueryResponse{}, err
	}

	entries := h.feed.After(query.after, query.limit)
	out := GetNotificationsQueryResponse{
		Notifications: make([]NotificationResponse, 0, len(entries)),
		Cursor:        query.after,
	}
	for _, e := range entries {
		n := e.Notification
		out.Notifications = append(out.Notifications, NotificationResponse{
			Seq:        e.Seq,
			ID:         n.ID(),
			Kind:       string(n.Kind()),
			ShipmentID: n.ShipmentID(),
			RiderID:    n.RiderID(),
			IssueID:    n.IssueID(),
			Message:    n.Message(),
			Inferred:   n.Inferred(),
			CreatedAt:  n.CreatedAt(),
		})
		out.Cursor = e.Seq
	}
	return out, nil
}
