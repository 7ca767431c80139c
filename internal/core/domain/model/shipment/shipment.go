package shipment

import (
	"errors"
	"fmt"
	"time"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/pkg/errs"
)

// ErrShipmentIsNotConstructed is returned when a Shipment was not created via RestoreShipment.
var ErrShipmentIsNotConstructed = errors.New("Shipment must be created via RestoreShipment")

// Customer is the recipient record attached to a shipment.
type Customer struct {
	Name     string
	Mobile   string
	Address  string
	Landmark string
	// Location is nil when the admin entered an address without a map pin.
	Location *kernel.Location
}

// Params carries every attribute of a shipment as read from the external store.
type Params struct {
	ID              kernel.ID
	Status          Status
	AdminLocation   *kernel.Location
	Customer        Customer
	Price           int64
	AcceptedRiderID *kernel.ID
	HasIssue        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Shipment is the admin-side view of one delivery. Instances are immutable: the
// reconciliation loop replaces them wholesale when a new snapshot arrives.
type Shipment struct {
	id              kernel.ID
	status          Status
	adminLocation   *kernel.Location
	customer        Customer
	price           int64
	acceptedRiderID *kernel.ID
	hasIssue        bool
	createdAt       time.Time
	updatedAt       time.Time

	isConstructed bool
}

// RestoreShipment rebuilds a shipment from store data.
//
// An Unknown status is accepted on purpose: dropping the record would make it
// vanish from the snapshot and be misread as a delivery. Such shipments report
// HasKnownStatus() == false and never take part in a transition.
//
// Returns an error when the id is blank, the price is negative, or a location is
// not constructed.
func RestoreShipment(p Params) (*Shipment, error) {
	s := &Shipment{
		status:          p.Status,
		customer:        p.Customer,
		acceptedRiderID: p.AcceptedRiderID,
		hasIssue:        p.HasIssue,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
		isConstructed:   true,
	}

	if !p.Status.IsKnown() {
		s.status = Unknown
	}

	if err := errors.Join(
		s.setID(p.ID),
		s.setPrice(p.Price),
		s.setAdminLocation(p.AdminLocation),
		validateOptionalLocation("customer location", p.Customer.Location),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate ensures the shipment was created via RestoreShipment.
func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

// IsEqual compares identities only.
func (s *Shipment) IsEqual(other *Shipment) bool {
	return other != nil && s.id == other.id
}

// SameState reports whether every attribute of both shipments matches.
func (s *Shipment) SameState(other *Shipment) bool {
	if other == nil {
		return false
	}

	return s.id == other.id &&
		s.status == other.status &&
		sameLocation(s.adminLocation, other.adminLocation) &&
		sameCustomer(s.customer, other.customer) &&
		s.price == other.price &&
		sameID(s.acceptedRiderID, other.acceptedRiderID) &&
		s.hasIssue == other.hasIssue &&
		s.createdAt.Equal(other.createdAt) &&
		s.updatedAt.Equal(other.updatedAt)
}

func (s *Shipment) ID() kernel.ID {
	return s.id
}

func (s *Shipment) Status() Status {
	return s.status
}

// HasKnownStatus reports whether the store sent a recognisable status.
func (s *Shipment) HasKnownStatus() bool {
	return s.status.IsKnown()
}

// AdminLocation returns the shop's pickup point, or nil.
func (s *Shipment) AdminLocation() *kernel.Location {
	return s.adminLocation
}

func (s *Shipment) Customer() Customer {
	return s.customer
}

// Price returns the delivery price in minor currency units.
func (s *Shipment) Price() int64 {
	return s.price
}

// AcceptedRiderID returns the winning rider, or nil while the job is unaccepted.
func (s *Shipment) AcceptedRiderID() *kernel.ID {
	return s.acceptedRiderID
}

// IssueFlagged reports whether an open issue is attached. The flag is ignored
// before the shipment is assigned.
func (s *Shipment) IssueFlagged() bool {
	return s.hasIssue && s.status.CanCarryIssue()
}

func (s *Shipment) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Shipment) UpdatedAt() time.Time {
	return s.updatedAt
}

// WithStatus returns a copy of the shipment carrying status instead of its own.
// The reconciliation loop uses it to hold the last trustworthy status when the
// store sends a malformed or regressed one.
func (s *Shipment) WithStatus(status Status) *Shipment {
	cp := *s
	cp.status = status
	return &cp
}

func (s *Shipment) String() string {
	return fmt.Sprintf("Shipment(%s,%s)", s.id, s.status)
}

func (s *Shipment) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setPrice(price int64) error {
	if price < 0 {
		return errs.NewValueIsInvalidErrorWithCause("price is invalid", fmt.Errorf("%d is negative", price))
	}
	s.price = price
	return nil
}

func (s *Shipment) setAdminLocation(loc *kernel.Location) error {
	if err := validateOptionalLocation("admin location", loc); err != nil {
		return err
	}
	s.adminLocation = loc
	return nil
}

func validateOptionalLocation(name string, loc *kernel.Location) error {
	if loc == nil {
		return nil
	}
	if err := loc.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}

func sameLocation(a, b *kernel.Location) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameID(a, b *kernel.ID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameCustomer(a, b Customer) bool {
	return a.Name == b.Name &&
		a.Mobile == b.Mobile &&
		a.Address == b.Address &&
		a.Landmark == b.Landmark &&
		sameLocation(a.Location, b.Location)
}
