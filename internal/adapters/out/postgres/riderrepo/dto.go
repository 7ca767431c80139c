// Package riderrepo maps the store's rider_positions and rider_responses tables.
package riderrepo

import (
	"time"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/rider"
)

// PositionDTO is a row of rider_positions, one per rider.
type PositionDTO struct {
	RiderID   string `gorm:"primaryKey"`
	Lat       float64
	Lng       float64
	Status    string
	Heading   *float64
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`
}

func (PositionDTO) TableName() string {
	return "rider_positions"
}

// ResponseDTO is a row of rider_responses. Seq keeps the order responses were
// written in, which decides the winner among duplicate acceptances.
type ResponseDTO struct {
	Seq         uint64 `gorm:"primaryKey;autoIncrement"`
	ShipmentID  string `gorm:"uniqueIndex:idx_rider_responses_offer;not null"`
	RiderID     string `gorm:"uniqueIndex:idx_rider_responses_offer;not null"`
	RiderName   string
	RiderMobile string
	Status      string `gorm:"not null"`
	RespondedAt time.Time
}

func (ResponseDTO) TableName() string {
	return "rider_responses"
}

func positionToDomain(dto PositionDTO) (*rider.LivePosition, error) {
	loc, err := kernel.NewLocation(dto.Lat, dto.Lng)
	if err != nil {
		return nil, err
	}

	var updatedAt time.Time
	if dto.UpdatedAt != nil {
		updatedAt = *dto.UpdatedAt
	}
	return rider.NewLivePosition(kernel.ID(dto.RiderID), loc, rider.ParsePositionStatus(dto.Status), dto.Heading, updatedAt)
}

// PositionFromDomain maps a position onto a row.
func PositionFromDomain(p *rider.LivePosition) PositionDTO {
	dto := PositionDTO{
		RiderID: p.RiderID().String(),
		Lat:     p.Location().Lat(),
		Lng:     p.Location().Lng(),
		Status:  string(p.Status()),
		Heading: p.Heading(),
	}
	if p.HasTimestamp() {
		at := p.UpdatedAt()
		dto.UpdatedAt = &at
	}
	return dto
}

func responseToDomain(dto ResponseDTO) (*rider.Response, error) {
	return rider.RestoreResponse(
		kernel.ID(dto.ShipmentID),
		kernel.ID(dto.RiderID),
		dto.RiderName,
		dto.RiderMobile,
		rider.ParseResponseStatus(dto.Status),
		dto.RespondedAt,
	)
}
