package issue

import (
	"time"

	"shopdispatch/internal/core/domain/model/kernel"
)

// Filter selects issues for a dashboard query window.
type Filter struct {
	// Status restricts to one status when set.
	Status *Status
	// ShipmentID restricts to one shipment when set.
	ShipmentID *kernel.ID
	// Since drops issues reported before it when non-zero.
	Since time.Time
}

// Matches reports whether the issue falls inside the filter.
func (f Filter) Matches(i *Issue) bool {
	if f.Status != nil && i.status != *f.Status {
		return false
	}
	if f.ShipmentID != nil && i.shipmentID != *f.ShipmentID {
		return false
	}
	if !f.Since.IsZero() && i.reportedAt.Before(f.Since) {
		return false
	}
	return true
}

// Counts classifies issues for the dashboard. Every issue falls in exactly one
// bucket, so the buckets always add up to Total.
type Counts struct {
	Pending         int
	WaitingForRider int
	Resolved        int
}

// Total returns the number of issues counted.
func (c Counts) Total() int {
	return c.Pending + c.WaitingForRider + c.Resolved
}

// Tally counts issues by status: Pending is reported, WaitingForRider is
// admin_responded, Resolved is resolved.
func Tally(issues []*Issue) Counts {
	var c Counts
	for _, i := range issues {
		switch i.status {
		case Reported:
			c.Pending++
		case AdminResponded:
			c.WaitingForRider++
		case Resolved:
			c.Resolved++
		case Unknown:
			// RestoreIssue never produces Unknown.
		}
	}
	return c
}
