// Package storewire holds the external store's JSON records and their mapping
// onto domain types. The HTTP store client and every push channel decode
// through it, so all transports agree on one wire format.
package storewire

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/core/domain/model/shipment"
	"shopdispatch/internal/pkg/errs"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l *Location) toDomain() (*kernel.Location, error) {
	if l == nil {
		return nil, nil
	}
	loc, err := kernel.NewLocation(l.Lat, l.Lng)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

type Shipment struct {
	ID               string    `json:"id"`
	Status           string    `json:"status"`
	AdminLocation    *Location `json:"admin_location"`
	CustomerName     string    `json:"customer_name"`
	CustomerMobile   string    `json:"customer_mobile"`
	CustomerAddress  string    `json:"customer_address"`
	CustomerLandmark string    `json:"customer_landmark"`
	CustomerLocation *Location `json:"customer_location"`
	Price            int64     `json:"price"`
	AcceptedRiderID  *string   `json:"accepted_rider_id"`
	HasIssue         bool      `json:"has_issue"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToDomain maps the record. An unrecognised status is kept as shipment.Unknown.
func (s Shipment) ToDomain() (*shipment.Shipment, error) {
	adminLoc, adminErr := s.AdminLocation.toDomain()
	customerLoc, customerErr := s.CustomerLocation.toDomain()
	if err := errors.Join(adminErr, customerErr); err != nil {
		return nil, err
	}

	var acceptedBy *kernel.ID
	if s.AcceptedRiderID != nil && *s.AcceptedRiderID != "" {
		id, err := kernel.NewID(*s.AcceptedRiderID)
		if err != nil {
			return nil, err
		}
		acceptedBy = &id
	}

	return shipment.RestoreShipment(shipment.Params{
		ID:            kernel.ID(s.ID),
		Status:        shipment.ParseStatus(s.Status),
		AdminLocation: adminLoc,
		Customer: shipment.Customer{
			Name:     s.CustomerName,
			Mobile:   s.CustomerMobile,
			Address:  s.CustomerAddress,
			Landmark: s.CustomerLandmark,
			Location: customerLoc,
		},
		Price:           s.Price,
		AcceptedRiderID: acceptedBy,
		HasIssue:        s.HasIssue,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	})
}

type RiderResponse struct {
	ShipmentID  string    `json:"shipment_id"`
	RiderID     string    `json:"rider_id"`
	RiderName   string    `json:"rider_name"`
	RiderMobile string    `json:"rider_mobile"`
	Status      string    `json:"status"`
	RespondedAt time.Time `json:"responded_at"`
}

func (r RiderResponse) ToDomain() (*rider.Response, error) {
	return rider.RestoreResponse(
		kernel.ID(r.ShipmentID),
		kernel.ID(r.RiderID),
		r.RiderName,
		r.RiderMobile,
		rider.ParseResponseStatus(r.Status),
		r.RespondedAt,
	)
}

type Issue struct {
	ID                   string     `json:"id"`
	ShipmentID           string     `json:"shipment_id"`
	IssueType            string     `json:"issue_type"`
	ReportedAt           time.Time  `json:"reported_at"`
	AdminResponse        *string    `json:"admin_response"`
	AdminMessage         *string    `json:"admin_message"`
	AdminRespondedAt     *time.Time `json:"admin_responded_at"`
	RiderReattemptStatus *string    `json:"rider_reattempt_status"`
	RiderReattemptAt     *time.Time `json:"rider_reattempt_at"`
	Status               string     `json:"status"`
}

func (i Issue) ToDomain() (*issue.Issue, error) {
	p := issue.Params{
		ID:               kernel.ID(i.ID),
		ShipmentID:       kernel.ID(i.ShipmentID),
		IssueType:        i.IssueType,
		ReportedAt:       i.ReportedAt,
		AdminMessage:     i.AdminMessage,
		AdminRespondedAt: i.AdminRespondedAt,
		ReattemptAt:      i.RiderReattemptAt,
		Status:           issue.ParseStatus(i.Status),
	}
	if i.AdminResponse != nil {
		a := issue.ParseAction(*i.AdminResponse)
		p.AdminResponse = &a
	}
	if i.RiderReattemptStatus != nil {
		o := issue.ParseReattemptOutcome(*i.RiderReattemptStatus)
		p.ReattemptStatus = &o
	}
	return issue.RestoreIssue(p)
}

// LivePosition is a rider position as polled or pushed. A missing updated_at
// marks the record unstamped.
type LivePosition struct {
	RiderID   string     `json:"rider_id"`
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	Status    string     `json:"status"`
	Heading   *float64   `json:"heading"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (p LivePosition) ToDomain() (*rider.LivePosition, error) {
	loc, err := kernel.NewLocation(p.Lat, p.Lng)
	if err != nil {
		return nil, err
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}
	return rider.NewLivePosition(kernel.ID(p.RiderID), loc, rider.ParsePositionStatus(p.Status), p.Heading, updatedAt)
}

// RespondRequest is the body of an issue response.
type RespondRequest struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

// DecodePosition parses one pushed rider_location payload.
func DecodePosition(payload []byte) (*rider.LivePosition, error) {
	var dto LivePosition
	if err := json.Unmarshal(payload, &dto); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("rider_location payload", err)
	}
	return dto.ToDomain()
}

// ToDomain maps every record, skipping the ones that fail. Each skipped record
// is reported as a data integrity error naming its position in the list.
func ToDomain[T any, D interface{ ToDomain() (T, error) }](subject string, dtos []D) ([]T, []error) {
	out := make([]T, 0, len(dtos))
	var rejected []error
	for i, dto := range dtos {
		item, err := dto.ToDomain()
		if err != nil {
			rejected = append(rejected, errs.NewDataIntegrityError(subject, fmt.Sprintf("record %d rejected: %v", i, err)))
			continue
		}
		out = append(out, item)
	}
	return out, rejected
}
