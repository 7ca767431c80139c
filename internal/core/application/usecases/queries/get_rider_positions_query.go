package queries

import (
	"errors"
	"time"

	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/pkg/guard"
)

var ErrGetRiderPositionsQueryIsNotConstructed = errors.New(
	"GetRiderPositionsQuery must be created via NewGetRiderPositionsQuery constructor",
)

// GetRiderPositionsQuery reads the merged rider board.
type GetRiderPositionsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetRiderPositionsQuery() GetRiderPositionsQuery {
	return GetRiderPositionsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetRiderPositionsQuery) Validate() error {
	return q.guard.Validate(ErrGetRiderPositionsQueryIsNotConstructed)
}

type RiderPositionResponse struct {
	RiderID   kernel.ID `json:"riderId"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Status    string    `json:"status"`
	Heading   *float64  `json:"heading,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type GetRiderPositionsQueryHandler struct {
	board *views.PositionBoard
}

func NewGetRiderPositionsQueryHandler(board *views.PositionBoard) GetRiderPositionsQueryHandler {
	return GetRiderPositionsQueryHandler{board: board}
}

func (h GetRiderPositionsQueryHandler) Handle(query GetRiderPositionsQuery) ([]RiderPositionResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	board := h.board.Positions()
	out := make([]RiderPositionResponse, 0, len(board))
	for _, p := range board {
		out = append(out, RiderPositionResponse{
			RiderID:   p.RiderID(),
			Lat:       p.Location().Lat(),
			Lng:       p.Location().Lng(),
			Status:    string(p.Status()),
			Heading:   p.Heading(),
			UpdatedAt: p.UpdatedAt(),
		})
	}
	return out, nil
}
