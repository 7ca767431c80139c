package rider

import (
	"errors"
	"strings"
	"time"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/pkg/errs"
)

// PositionStatus is the rider's working state as reported with a position.
type PositionStatus string

const (
	StatusAvailable PositionStatus = "available"
	StatusAssigned  PositionStatus = "assigned"
	StatusInTransit PositionStatus = "in_transit"
	StatusOffline   PositionStatus = "offline"
)

// ParsePositionStatus maps a wire value. Unrecognised values are reported as
// StatusOffline, the state that promises the least.
func ParsePositionStatus(raw string) PositionStatus {
	switch s := PositionStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusAvailable, StatusAssigned, StatusInTransit, StatusOffline:
		return s
	default:
		return StatusOffline
	}
}

// LivePosition is a rider's last known position. A zero UpdatedAt means the
// source did not stamp the record.
type LivePosition struct {
	riderID   kernel.ID
	location  kernel.Location
	status    PositionStatus
	heading   *float64
	updatedAt time.Time
}

// NewLivePosition validates the rider id, location and heading (0..360 degrees).
func NewLivePosition(
	riderID kernel.ID,
	location kernel.Location,
	status PositionStatus,
	heading *float64,
	updatedAt time.Time,
) (*LivePosition, error) {
	var headingErr error
	if heading != nil && (*heading < 0 || *heading > 360) {
		headingErr = errs.NewValueIsOutOfRangeError("heading", *heading, 0, 360)
	}

	if err := errors.Join(riderID.Validate(), location.Validate(), headingErr); err != nil {
		return nil, err
	}

	if status == "" {
		status = StatusOffline
	}

	return &LivePosition{
		riderID:   riderID,
		location:  location,
		status:    status,
		heading:   heading,
		updatedAt: updatedAt,
	}, nil
}

func (p *LivePosition) RiderID() kernel.ID {
	return p.riderID
}

func (p *LivePosition) Location() kernel.Location {
	return p.location
}

func (p *LivePosition) Status() PositionStatus {
	return p.status
}

// Heading returns the direction of travel in degrees, or nil.
func (p *LivePosition) Heading() *float64 {
	return p.heading
}

func (p *LivePosition) UpdatedAt() time.Time {
	return p.updatedAt
}

// HasTimestamp reports whether the source stamped the record.
func (p *LivePosition) HasTimestamp() bool {
	return !p.updatedAt.IsZero()
}

// Stamped returns a copy carrying updatedAt.
func (p *LivePosition) Stamped(updatedAt time.Time) *LivePosition {
	cp := *p
	cp.updatedAt = updatedAt
	return &cp
}
