package ports

import (
	"context"

	"shopdispatch/internal/core/domain/model/notification"
)

// NotificationSink receives every notification the core derives.
type NotificationSink interface {
	Publish(ctx context.Context, n *notification.Notification) error
}
