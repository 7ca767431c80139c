package queries

import (
	"errors"

	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/pkg/errs"
	"shopdispatch/internal/pkg/guard"
)

var ErrGetRiderResponsesQueryIsNotConstructed = errors.New(
	"GetRiderResponsesQuery must be created via NewGetRiderResponsesQuery constructor",
)

// GetRiderResponsesQuery reads the tracked responses for one shipment.
type GetRiderResponsesQuery struct {
	shipmentID kernel.ID

	guard guard.ConstructorGuard
}

func NewGetRiderResponsesQuery(shipmentID kernel.ID) (GetRiderResponsesQuery, error) {
	if err := shipmentID.Validate(); err != nil {
		return GetRiderResponsesQuery{}, err
	}
	return GetRiderResponsesQuery{shipmentID: shipmentID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRiderResponsesQuery) Validate() error {
	return q.guard.Validate(ErrGetRiderResponsesQueryIsNotConstructed)
}

// GetRiderResponsesQueryResponse drives the job offer banner.
type GetRiderResponsesQueryResponse struct {
	ShipmentID kernel.ID           `json:"shipmentId"`
	Banner     string              `json:"banner"`
	WinnerID   *kernel.ID          `json:"winnerRiderId,omitempty"`
	Frozen     bool                `json:"frozen"`
	Anomaly    string              `json:"anomaly,omitempty"`
	Responses  []RiderResponseItem `json:"responses"`
}

type GetRiderResponsesQueryHandler struct {
	book *views.ResponseBook
}

func NewGetRiderResponsesQueryHandler(book *views.ResponseBook) GetRiderResponsesQueryHandler {
	return GetRiderResponsesQueryHandler{book: book}
}

// Handle returns errs.ErrObjectNotFound when the shipment is not being tracked.
func (h GetRiderResponsesQueryHandler) Handle(query GetRiderResponsesQuery) (GetRiderResponsesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRiderResponsesQueryResponse{}, err
	}

	res, ok := h.book.Get(query.shipmentID)
	if !ok {
		return GetRiderResponsesQueryResponse{}, errs.NewObjectNotFoundError("shipmentID", query.shipmentID)
	}

	out := GetRiderResponsesQueryResponse{
		ShipmentID: res.ShipmentID,
		Banner:     string(res.Banner),
		Frozen:     res.StopPolling(),
		Responses:  make([]RiderResponseItem, 0, len(res.Responses)),
	}
	if res.Winner != nil {
		id := res.Winner.RiderID()
		out.WinnerID = &id
	}
	if res.Anomaly != nil {
		out.Anomaly = res.Anomaly.Error()
	}
	for _, r := range res.Responses {
		out.Responses = append(out.Responses, riderResponseItem(r))
	}
	return out, nil
}
