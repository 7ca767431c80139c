package notification_test

import (
	"testing"
	"time"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should stamp distinct ids", func(t *testing.T) {
		a := notification.New(notification.ShipmentAccepted, "42", "accepted", at)
		b := notification.New(notification.ShipmentAccepted, "42", "accepted", at)

		assert.NotEqual(t, uuid.Nil, a.ID())
		assert.NotEqual(t, a.ID(), b.ID())
		assert.False(t, a.Inferred())
		assert.True(t, a.RiderID().IsZero())
	})

	t.Run("should apply options", func(t *testing.T) {
		n := notification.New(
			notification.ShipmentDelivered, "42", "delivered", at,
			notification.WithRider(kernel.MustID("A")),
			notification.Inferred(),
		)

		assert.Equal(t, kernel.ID("A"), n.RiderID())
		assert.True(t, n.Inferred())
		assert.Equal(t, "shipment_delivered(42, inferred)", n.String())
	})

	t.Run("restore keeps the id", func(t *testing.T) {
		id := uuid.New()

		n := notification.Restore(id, notification.IssueReported, "42", "issue", at, notification.WithIssue("iss-1"))

		assert.Equal(t, id, n.ID())
		assert.Equal(t, kernel.ID("iss-1"), n.IssueID())
	})
}
