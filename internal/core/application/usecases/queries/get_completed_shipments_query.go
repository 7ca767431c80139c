package queries

import (
	"context"
	"errors"
	"fmt"

	"shopdispatch/internal/core/ports"
	"shopdispatch/internal/pkg/errs"
	"shopdispatch/internal/pkg/guard"
)

const (
	DefaultCompletedLimit = 20
	MaxCompletedLimit     = 200
)

var ErrGetCompletedShipmentsQueryIsNotConstructed = errors.New(
	"GetCompletedShipmentsQuery must be created via NewGetCompletedShipmentsQuery constructor",
)

// GetCompletedShipmentsQuery lists delivered shipments, most recent first.
type GetCompletedShipmentsQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewGetCompletedShipmentsQuery accepts a limit in 1..MaxCompletedLimit; zero
// selects DefaultCompletedLimit.
func NewGetCompletedShipmentsQuery(limit int) (GetCompletedShipmentsQuery, error) {
	if limit == 0 {
		limit = DefaultCompletedLimit
	}
	if limit < 1 || limit > MaxCompletedLimit {
		return GetCompletedShipmentsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxCompletedLimit)
	}
	return GetCompletedShipmentsQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCompletedShipmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetCompletedShipmentsQueryIsNotConstructed)
}

func (q GetCompletedShipmentsQuery) Limit() int {
	return q.limit
}

type GetCompletedShipmentsQueryHandler struct {
	source ports.ShipmentSource
}

func NewGetCompletedShipmentsQueryHandler(source ports.ShipmentSource) GetCompletedShipmentsQueryHandler {
	return GetCompletedShipmentsQueryHandler{source: source}
}

func (h GetCompletedShipmentsQueryHandler) Handle(
	ctx context.Context,
	query GetCompletedShipmentsQuery,
) ([]ShipmentResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	completed, err := h.source.FetchCompletedShipments(ctx, query.Limit())
	if err != nil {
		return nil, fmt.Errorf("fetch completed shipments: %w", err)
	}
	return shipmentResponses(completed), nil
}
