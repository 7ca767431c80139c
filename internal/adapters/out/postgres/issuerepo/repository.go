package issuerepo

import (
	"context"
	"errors"
	"fmt"

	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormIssueRepository reads and updates the shipment_issues table.
type GormIssueRepository struct {
	db *gorm.DB
}

func NewGormIssueRepository(db *gorm.DB) *GormIssueRepository {
	return &GormIssueRepository{db: db}
}

// List returns the issues matching filter, most recently reported first.
func (r *GormIssueRepository) List(ctx context.Context, filter issue.Filter) ([]*issue.Issue, error) {
	q := r.db.WithContext(ctx).Model(&IssueDTO{})
	if filter.Status != nil {
		q = q.Where("status = ?", filter.Status.String())
	}
	if filter.ShipmentID != nil {
		q = q.Where("shipment_id = ?", filter.ShipmentID.String())
	}
	if !filter.Since.IsZero() {
		q = q.Where("reported_at >= ?", filter.Since)
	}

	var dtos []IssueDTO
	if err := q.Order("reported_at DESC, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]*issue.Issue, 0, len(dtos))
	for _, dto := range dtos {
		i, err := toDomain(dto)
		if err != nil {
			return nil, errs.NewDataIntegrityError("shipment_issues", fmt.Sprintf("row %q: %v", dto.ID, err))
		}
		out = append(out, i)
	}
	return out, nil
}

// GetForUpdate loads one issue and locks its row for the rest of the transaction.
func (r *GormIssueRepository) GetForUpdate(ctx context.Context, id kernel.ID) (*issue.Issue, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto IssueDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("issueID", id)
		}
		return nil, err
	}

	i, err := toDomain(dto)
	if err != nil {
		return nil, errs.NewDataIntegrityError("shipment_issues", fmt.Sprintf("row %q: %v", dto.ID, err))
	}
	return i, nil
}

// Update writes the admin's response fields and the status.
func (r *GormIssueRepository) Update(ctx context.Context, i *issue.Issue) error {
	if err := i.Validate(); err != nil {
		return err
	}

	dto := FromDomain(i)
	result := r.db.WithContext(ctx).
		Model(&IssueDTO{}).
		Where("id = ?", dto.ID).
		Select("admin_response", "admin_message", "admin_responded_at", "status").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("issueID", i.ID())
	}
	return nil
}
