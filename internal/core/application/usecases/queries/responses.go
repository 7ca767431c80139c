package queries

import (
	"time"

	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/core/domain/model/shipment"
)

// LocationResponse is a point on the map.
type LocationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func locationResponse(loc *kernel.Location) *LocationResponse {
	if loc == nil {
		return nil
	}
	return &LocationResponse{Lat: loc.Lat(), Lng: loc.Lng()}
}

// CustomerResponse is a shipment's recipient.
type CustomerResponse struct {
	Name     string            `json:"name"`
	Mobile   string            `json:"mobile"`
	Address  string            `json:"address"`
	Landmark string            `json:"landmark,omitempty"`
	Location *LocationResponse `json:"location,omitempty"`
}

// ShipmentResponse is one shipment as shown to the admin.
type ShipmentResponse struct {
	ID              kernel.ID         `json:"id"`
	Status          string            `json:"status"`
	AdminLocation   *LocationResponse `json:"adminLocation,omitempty"`
	Customer        CustomerResponse  `json:"customer"`
	Price           int64             `json:"price"`
	AcceptedRiderID *kernel.ID        `json:"acceptedRiderId,omitempty"`
	HasIssue        bool              `json:"hasIssue"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func shipmentResponse(s *shipment.Shipment) ShipmentResponse {
	c := s.Customer()
	return ShipmentResponse{
		ID:            s.ID(),
		Status:        s.Status().String(),
		AdminLocation: locationResponse(s.AdminLocation()),
		Customer: CustomerResponse{
			Name:     c.Name,
			Mobile:   c.Mobile,
			Address:  c.Address,
			Landmark: c.Landmark,
			Location: locationResponse(c.Location),
		},
		Price:           s.Price(),
		AcceptedRiderID: s.AcceptedRiderID(),
		HasIssue:        s.IssueFlagged(),
		CreatedAt:       s.CreatedAt(),
		UpdatedAt:       s.UpdatedAt(),
	}
}

func shipmentResponses(items []*shipment.Shipment) []ShipmentResponse {
	out := make([]ShipmentResponse, 0, len(items))
	for _, s := range items {
		out = append(out, shipmentResponse(s))
	}
	return out
}

// RiderResponseItem is one rider's answer to a job offer.
type RiderResponseItem struct {
	RiderID     kernel.ID `json:"riderId"`
	RiderName   string    `json:"riderName"`
	RiderMobile string    `json:"riderMobile"`
	Status      string    `json:"status"`
	RespondedAt time.Time `json:"respondedAt"`
}

func riderResponseItem(r *rider.Response) RiderResponseItem {
	return RiderResponseItem{
		RiderID:     r.RiderID(),
		RiderName:   r.RiderName(),
		RiderMobile: r.RiderMobile(),
		Status:      r.Status().String(),
		RespondedAt: r.RespondedAt(),
	}
}

// IssueResponse is one issue as shown on the dashboard.
type IssueResponse struct {
	ID               kernel.ID  `json:"id"`
	ShipmentID       kernel.ID  `json:"shipmentId"`
	IssueType        string     `json:"issueType"`
	ReportedAt       time.Time  `json:"reportedAt"`
	AdminResponse    *string    `json:"adminResponse,omitempty"`
	AdminMessage     *string    `json:"adminMessage,omitempty"`
	AdminRespondedAt *time.Time `json:"adminRespondedAt,omitempty"`
	ReattemptStatus  *string    `json:"riderReattemptStatus,omitempty"`
	ReattemptAt      *time.Time `json:"riderReattemptAt,omitempty"`
	Status           string     `json:"status"`
}

// IssueResponseFrom maps a domain issue.
func IssueResponseFrom(i *issue.Issue) IssueResponse {
	resp := IssueResponse{
		ID:               i.ID(),
		ShipmentID:       i.ShipmentID(),
		IssueType:        i.IssueType(),
		ReportedAt:       i.ReportedAt(),
		AdminMessage:     i.AdminMessage(),
		AdminRespondedAt: i.AdminRespondedAt(),
		ReattemptAt:      i.ReattemptAt(),
		Status:           i.Status().String(),
	}
	if a := i.AdminResponse(); a != nil {
		s := a.String()
		resp.AdminResponse = &s
	}
	if o := i.ReattemptStatus(); o != nil {
		s := string(*o)
		resp.ReattemptStatus = &s
	}
	return resp
}

// CountsResponse is the dashboard's issue tally.
type CountsResponse struct {
	Pending         int `json:"pending"`
	WaitingForRider int `json:"waitingForRider"`
	Resolved        int `json:"resolved"`
	Total           int `json:"total"`
}

func countsResponse(c issue.Counts) CountsResponse {
	return CountsResponse{
		Pending:         c.Pending,
		WaitingForRider: c.WaitingForRider,
		Resolved:        c.Resolved,
		Total:           c.Total(),
	}
}
