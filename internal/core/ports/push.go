package ports

import (
	"context"

	"shopdispatch/internal/core/domain/model/rider"
)

// EventRiderLocation is the push event carrying a single rider's position.
const EventRiderLocation = "rider_location"

// PushChannel delivers store events as they happen.
type PushChannel interface {
	// Subscribe starts delivering eventType events. The returned channel is closed
	// when ctx is done or the connection is lost; the caller resubscribes to
	// recover. Events missed while disconnected are not replayed.
	Subscribe(ctx context.Context, eventType string) (<-chan *rider.LivePosition, error)
}
