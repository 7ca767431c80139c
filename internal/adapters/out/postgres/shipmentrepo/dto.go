// Package shipmentrepo maps the store's shipments table.
package shipmentrepo

import (
	"errors"
	"time"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/shipment"
)

// ShipmentDTO is a row of the shipments table. Status holds the store's wire
// value so rows written by other clients with unexpected values still load.
type ShipmentDTO struct {
	ID               string      `gorm:"primaryKey"`
	Status           string      `gorm:"index;not null"`
	AdminLocation    LocationDTO `gorm:"embedded;embeddedPrefix:admin_"`
	CustomerName     string
	CustomerMobile   string
	CustomerAddress  string
	CustomerLandmark string
	CustomerLocation LocationDTO `gorm:"embedded;embeddedPrefix:customer_"`
	Price            int64
	AcceptedRiderID  *string `gorm:"index"`
	HasIssue         bool
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

// LocationDTO is an optional map pin; both columns are null when absent.
type LocationDTO struct {
	Lat *float64
	Lng *float64
}

func (l LocationDTO) toDomain() (*kernel.Location, error) {
	if l.Lat == nil && l.Lng == nil {
		return nil, nil
	}
	if l.Lat == nil || l.Lng == nil {
		return nil, errors.New("location has only one coordinate")
	}
	loc, err := kernel.NewLocation(*l.Lat, *l.Lng)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func locationDTO(loc *kernel.Location) LocationDTO {
	if loc == nil {
		return LocationDTO{}
	}
	lat, lng := loc.Lat(), loc.Lng()
	return LocationDTO{Lat: &lat, Lng: &lng}
}

// FromDomain maps a shipment onto a row, used to seed the table.
func FromDomain(s *shipment.Shipment) ShipmentDTO {
	var accepted *string
	if id := s.AcceptedRiderID(); id != nil {
		raw := id.String()
		accepted = &raw
	}

	c := s.Customer()
	return ShipmentDTO{
		ID:               s.ID().String(),
		Status:           s.Status().String(),
		AdminLocation:    locationDTO(s.AdminLocation()),
		CustomerName:     c.Name,
		CustomerMobile:   c.Mobile,
		CustomerAddress:  c.Address,
		CustomerLandmark: c.Landmark,
		CustomerLocation: locationDTO(c.Location),
		Price:            s.Price(),
		AcceptedRiderID:  accepted,
		HasIssue:         s.IssueFlagged(),
		CreatedAt:        s.CreatedAt(),
		UpdatedAt:        s.UpdatedAt(),
	}
}

func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	adminLoc, adminErr := dto.AdminLocation.toDomain()
	customerLoc, customerErr := dto.CustomerLocation.toDomain()
	if err := errors.Join(adminErr, customerErr); err != nil {
		return nil, err
	}

	var accepted *kernel.ID
	if dto.AcceptedRiderID != nil && *dto.AcceptedRiderID != "" {
		id := kernel.ID(*dto.AcceptedRiderID)
		accepted = &id
	}

	return shipment.RestoreShipment(shipment.Params{
		ID:            kernel.ID(dto.ID),
		Status:        shipment.ParseStatus(dto.Status),
		AdminLocation: adminLoc,
		Customer: shipment.Customer{
			Name:     dto.CustomerName,
			Mobile:   dto.CustomerMobile,
			Address:  dto.CustomerAddress,
			Landmark: dto.CustomerLandmark,
			Location: customerLoc,
		},
		Price:           dto.Price,
		AcceptedRiderID: accepted,
		HasIssue:        dto.HasIssue,
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
	})
}
