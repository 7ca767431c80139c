package commands

import (
	"context"
	"log/slog"

	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/notification"
	"shopdispatch/internal/core/ports"
)

// Announcer delivers derived notifications to the in-memory feed and to the
// configured sink. A failing sink is logged and never fails the caller.
type Announcer struct {
	feed   *views.NotificationFeed
	sink   ports.NotificationSink
	logger *slog.Logger
}

// NewAnnouncer creates an Announcer. sink may be nil.
func NewAnnouncer(feed *views.NotificationFeed, sink ports.NotificationSink, logger *slog.Logger) *Announcer {
	return &Announcer{
		feed:   feed,
		sink:   sink,
		logger: logger.With("component", "announcer"),
	}
}

// Announce appends ns to the feed in order and publishes each one.
func (a *Announcer) Announce(ctx context.Context, ns []*notification.Notification) {
	if len(ns) == 0 {
		return
	}

	a.feed.Append(ns...)

	for _, n := range ns {
		a.logger.InfoContext(ctx, n.Message(),
			"kind", n.Kind(),
			"shipment_id", n.ShipmentID(),
			"inferred", n.Inferred(),
		)

		if a.sink == nil {
			continue
		}
		if err := a.sink.Publish(ctx, n); err != nil {
			a.logger.ErrorContext(ctx, "Failed to publish notification",
				"notification_id", n.ID(), "kind", n.Kind(), "error", err)
		}
	}
}

func logAnomalies(ctx context.Context, logger *slog.Logger, anomalies []error) {
	for _, a := range anomalies {
		logger.WarnContext(ctx, "Data integrity anomaly", "error", a)
	}
}
