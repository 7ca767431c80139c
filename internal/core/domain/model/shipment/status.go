package shipment

import (
	"fmt"
	"strings"

	"shopdispatch/internal/pkg/errs"
)

// Status is the lifecycle state of a shipment.
//
// State transitions (forward only, intermediate states may be skipped by a poll):
//
//	Pending ──> Assigned ──> PickedUp ──> InTransit ──> Delivered
//	             accepted    picked up                  delivered
//
// The labels under the arrows are the milestones the admin is notified about.
type Status int

const (
	// Unknown is a missing or malformed status. It never takes part in a transition.
	Unknown Status = iota

	// Pending is the initial status: the job is offered to riders and nobody accepted yet.
	Pending

	// Assigned means a rider accepted the job.
	Assigned

	// PickedUp means the rider collected the parcel from the shop.
	PickedUp

	// InTransit means the rider is on the way to the customer.
	InTransit

	// Delivered is terminal. The store drops delivered shipments from the active listing.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Assigned:  "assigned",
		PickedUp:  "picked_up",
		InTransit: "in_transit",
		Delivered: "delivered",
	}
}

// ParseStatus maps the store's wire value onto a Status. Anything unrecognised,
// including the empty string, maps to Unknown.
func ParseStatus(raw string) Status {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == normalized {
			return status
		}
	}
	return Unknown
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsKnown reports whether the status is one of the five lifecycle states.
func (s Status) IsKnown() bool {
	return s.Validate() == nil
}

// String returns the wire name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is defined.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// CanCarryIssue reports whether an issue flag may be attached in this status.
func (s Status) CanCarryIssue() bool {
	return s >= Assigned && s <= Delivered
}

// ValidateTransition checks that moving from s to next goes forward along the
// lifecycle. Skipping intermediate states is allowed because a poll can miss them;
// staying put or going backwards is not.
func (s Status) ValidateTransition(next Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}

	if next == s {
		return errs.NewValueIsInvalidErrorWithCause(
			"transition is invalid",
			fmt.Errorf("%s to %s is not a transition", s, next),
		)
	}

	if next < s {
		return errs.NewValueIsInvalidErrorWithCause(
			"transition is invalid",
			fmt.Errorf("%s to %s is a regression", s, next),
		)
	}

	return nil
}

// Steps expands a forward move into the single edges it crosses, in order.
// It returns nil when the move is not a valid transition.
//
// Example:
//
//	shipment.Pending.Steps(shipment.PickedUp)
//	// [pending->assigned assigned->picked_up]
func (s Status) Steps(next Status) []Transition {
	if s.ValidateTransition(next) != nil {
		return nil
	}

	steps := make([]Transition, 0, int(next-s))
	for from := s; from < next; from++ {
		steps = append(steps, Transition{From: from, To: from + 1})
	}
	return steps
}

// Transition is a single edge of the lifecycle.
type Transition struct {
	From Status
	To   Status
}

func (t Transition) String() string {
	return fmt.Sprintf("%s->%s", t.From, t.To)
}

// Milestone is a transition the admin is told about.
type Milestone string

const (
	MilestoneAccepted  Milestone = "accepted"
	MilestonePickedUp  Milestone = "picked_up"
	MilestoneDelivered Milestone = "delivered"
)

// Milestone returns the user-facing milestone reached by this edge, if any.
// pending->assigned is "accepted", assigned->picked_up is "picked up" and
// in_transit->delivered is "delivered"; picked_up->in_transit is silent.
func (t Transition) Milestone() (Milestone, bool) {
	switch {
	case t.From == Pending && t.To == Assigned:
		return MilestoneAccepted, true
	case t.From == Assigned && t.To == PickedUp:
		return MilestonePickedUp, true
	case t.To == Delivered && t.From.IsKnown() && t.From < Delivered:
		return MilestoneDelivered, true
	default:
		return "", false
	}
}
