package commands

import (
	"context"
	"fmt"
	"log/slog"

	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/services"
	"shopdispatch/internal/core/ports"
)

// TrackRiderResponsesCommandHandler resolves a shipment's responses and records
// the result in the response book. Once a winner is recorded the shipment is
// frozen and the handler answers from the book without calling the store.
type TrackRiderResponsesCommandHandler struct {
	source    ports.ResponseSource
	book      *views.ResponseBook
	tracker   services.ResponseTracker
	announcer *Announcer
	logger    *slog.Logger
}

func NewTrackRiderResponsesCommandHandler(
	source ports.ResponseSource,
	book *views.ResponseBook,
	announcer *Announcer,
	logger *slog.Logger,
) TrackRiderResponsesCommandHandler {
	return TrackRiderResponsesCommandHandler{
		source:    source,
		book:      book,
		tracker:   services.NewResponseTracker(),
		announcer: announcer,
		logger:    logger.With("component", "track_rider_responses"),
	}
}

func (h TrackRiderResponsesCommandHandler) Handle(
	ctx context.Context,
	command TrackRiderResponsesCommand,
) (services.Resolution, error) {
	if err := command.Validate(); err != nil {
		return services.Resolution{}, err
	}

	id := command.ShipmentID()
	if res, ok := h.book.Get(id); ok && res.StopPolling() {
		return res, nil
	}

	responses, err := h.source.FetchRiderResponses(ctx, id)
	if err != nil {
		return services.Resolution{}, fmt.Errorf("fetch rider responses for %s: %w", id, err)
	}

	res := h.tracker.Resolve(id, responses)
	if res.Anomaly != nil {
		logAnomalies(ctx, h.logger, []error{res.Anomaly})
	}

	prev, recorded := h.book.Record(res)
	if !recorded {
		return prev, nil
	}

	h.announcer.Announce(ctx, h.tracker.Changes(prev, res, command.At()))
	return res, nil
}
