package commands

import (
	"errors"
	"time"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/pkg/guard"
)

var ErrTrackRiderResponsesCommandIsNotConstructed = errors.New(
	"TrackRiderResponsesCommand must be created via NewTrackRiderResponsesCommand constructor",
)

// TrackRiderResponsesCommand polls one shipment's job offer responses.
type TrackRiderResponsesCommand struct {
	shipmentID kernel.ID
	at         time.Time

	guard guard.ConstructorGuard
}

func NewTrackRiderResponsesCommand(shipmentID kernel.ID, at time.Time) (TrackRiderResponsesCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return TrackRiderResponsesCommand{}, err
	}

	return TrackRiderResponsesCommand{
		shipmentID: shipmentID,
		at:         at,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c TrackRiderResponsesCommand) Validate() error {
	return c.guard.Validate(ErrTrackRiderResponsesCommandIsNotConstructed)
}

func (c TrackRiderResponsesCommand) ShipmentID() kernel.ID {
	return c.shipmentID
}

func (c TrackRiderResponsesCommand) At() time.Time {
	return c.at
}
