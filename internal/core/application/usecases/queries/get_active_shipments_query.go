package queries

import (
	"errors"
	"time"

	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/pkg/guard"
)

var ErrGetActiveShipmentsQueryIsNotConstructed = errors.New(
	"GetActiveShipmentsQuery must be created via NewGetActiveShipmentsQuery constructor",
)

// GetActiveShipmentsQuery reads the reconciled active shipments.
type GetActiveShipmentsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetActiveShipmentsQuery() GetActiveShipmentsQuery {
	return GetActiveShipmentsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetActiveShipmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveShipmentsQueryIsNotConstructed)
}

// GetActiveShipmentsQueryResponse carries the shipments and when they were fetched.
// FetchedAt is zero before the first successful poll.
type GetActiveShipmentsQueryResponse struct {
	Shipments []ShipmentResponse `json:"shipments"`
	FetchedAt time.Time          `json:"fetchedAt"`
}

type GetActiveShipmentsQueryHandler struct {
	view *views.ShipmentView
}

func NewGetActiveShipmentsQueryHandler(view *views.ShipmentView) GetActiveShipmentsQueryHandler {
	return GetActiveShipmentsQueryHandler{view: view}
}

func (h GetActiveShipmentsQueryHandler) Handle(query GetActiveShipmentsQuery) (GetActiveShipmentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetActiveShipmentsQueryResponse{}, err
	}

	snap := h.view.Load()
	return GetActiveShipmentsQueryResponse{
		Shipments: shipmentResponses(snap.Items()),
		FetchedAt: snap.FetchedAt(),
	}, nil
}
