package shipmentrepo

import (
	"context"
	"fmt"

	"shopdispatch/internal/core/domain/model/shipment"
	"shopdispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormShipmentRepository reads the shipments table.
type GormShipmentRepository struct {
	db *gorm.DB
}

func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// ListActive returns every shipment not delivered, oldest first.
func (r *GormShipmentRepository) ListActive(ctx context.Context) ([]*shipment.Shipment, error) {
	var dtos []ShipmentDTO
	err := r.db.WithContext(ctx).
		Where("status <> ?", shipment.Delivered.String()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// ListCompleted returns up to limit delivered shipments, most recently updated first.
func (r *GormShipmentRepository) ListCompleted(ctx context.Context, limit int) ([]*shipment.Shipment, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []ShipmentDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", shipment.Delivered.String()).
		Order("updated_at DESC, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

func toDomainAll(dtos []ShipmentDTO) ([]*shipment.Shipment, error) {
	out := make([]*shipment.Shipment, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, errs.NewDataIntegrityError("shipments", fmt.Sprintf("row %q: %v", dto.ID, err))
		}
		out = append(out, s)
	}
	return out, nil
}
