// Package issuerepo maps the store's shipment_issues table.
package issuerepo

import (
	"time"

	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
)

// IssueDTO is a row of the shipment_issues table.
type IssueDTO struct {
	ID                   string    `gorm:"primaryKey"`
	ShipmentID           string    `gorm:"index;not null"`
	IssueType            string    `gorm:"not null"`
	ReportedAt           time.Time `gorm:"index"`
	AdminResponse        *string
	AdminMessage         *string
	AdminRespondedAt     *time.Time
	RiderReattemptStatus *string
	RiderReattemptAt     *time.Time
	Status               string `gorm:"index;not null"`
}

func (IssueDTO) TableName() string {
	return "shipment_issues"
}

// FromDomain maps an issue onto a row.
func FromDomain(i *issue.Issue) IssueDTO {
	dto := IssueDTO{
		ID:               i.ID().String(),
		ShipmentID:       i.ShipmentID().String(),
		IssueType:        i.IssueType(),
		ReportedAt:       i.ReportedAt(),
		AdminMessage:     i.AdminMessage(),
		AdminRespondedAt: i.AdminRespondedAt(),
		RiderReattemptAt: i.ReattemptAt(),
		Status:           i.Status().String(),
	}
	if a := i.AdminResponse(); a != nil {
		raw := a.String()
		dto.AdminResponse = &raw
	}
	if o := i.ReattemptStatus(); o != nil {
		raw := string(*o)
		dto.RiderReattemptStatus = &raw
	}
	return dto
}

func toDomain(dto IssueDTO) (*issue.Issue, error) {
	p := issue.Params{
		ID:               kernel.ID(dto.ID),
		ShipmentID:       kernel.ID(dto.ShipmentID),
		IssueType:        dto.IssueType,
		ReportedAt:       dto.ReportedAt,
		AdminMessage:     dto.AdminMessage,
		AdminRespondedAt: dto.AdminRespondedAt,
		ReattemptAt:      dto.RiderReattemptAt,
		Status:           issue.ParseStatus(dto.Status),
	}
	if dto.AdminResponse != nil {
		a := issue.ParseAction(*dto.AdminResponse)
		p.AdminResponse = &a
	}
	if dto.RiderReattemptStatus != nil {
		o := issue.ParseReattemptOutcome(*dto.RiderReattemptStatus)
		p.ReattemptStatus = &o
	}
	return issue.RestoreIssue(p)
}
