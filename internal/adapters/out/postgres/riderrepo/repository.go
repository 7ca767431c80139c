package riderrepo

import (
	"context"
	"fmt"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRiderRepository reads rider positions and job offer responses.
type GormRiderRepository struct {
	db *gorm.DB
}

func NewGormRiderRepository(db *gorm.DB) *GormRiderRepository {
	return &GormRiderRepository{db: db}
}

func (r *GormRiderRepository) ListPositions(ctx context.Context) ([]*rider.LivePosition, error) {
	var dtos []PositionDTO
	if err := r.db.WithContext(ctx).Order("rider_id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]*rider.LivePosition, 0, len(dtos))
	for _, dto := range dtos {
		p, err := positionToDomain(dto)
		if err != nil {
			return nil, errs.NewDataIntegrityError("rider_positions", fmt.Sprintf("row %q: %v", dto.RiderID, err))
		}
		out = append(out, p)
	}
	return out, nil
}

// ListResponses returns the shipment's responses in the order they were written.
func (r *GormRiderRepository) ListResponses(ctx context.Context, shipmentID kernel.ID) ([]*rider.Response, error) {
	if err := shipmentID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ResponseDTO
	err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID.String()).
		Order("seq").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	out := make([]*rider.Response, 0, len(dtos))
	for _, dto := range dtos {
		resp, err := responseToDomain(dto)
		if err != nil {
			return nil, errs.NewDataIntegrityError("rider_responses", fmt.Sprintf("row %d: %v", dto.Seq, err))
		}
		out = append(out, resp)
	}
	return out, nil
}
