package issue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/pkg/errs"
)

// ErrIssueIsNotConstructed is returned when an Issue was not created via RestoreIssue.
var ErrIssueIsNotConstructed = errors.New("Issue must be created via RestoreIssue")

// Params carries every attribute of an issue as read from the external store.
type Params struct {
	ID               kernel.ID
	ShipmentID       kernel.ID
	IssueType        string
	ReportedAt       time.Time
	AdminResponse    *Action
	AdminMessage     *string
	AdminRespondedAt *time.Time
	ReattemptStatus  *ReattemptOutcome
	ReattemptAt      *time.Time
	Status           Status
}

// Issue is a problem raised by a rider for one shipment.
type Issue struct {
	id               kernel.ID
	shipmentID       kernel.ID
	issueType        string
	reportedAt       time.Time
	adminResponse    *Action
	adminMessage     *string
	adminRespondedAt *time.Time
	reattemptStatus  *ReattemptOutcome
	reattemptAt      *time.Time
	status           Status

	isConstructed bool
}

// RestoreIssue rebuilds an issue from store data and checks the invariants that
// tie the optional fields to the status.
func RestoreIssue(p Params) (*Issue, error) {
	if err := errors.Join(
		p.ID.Validate(),
		p.ShipmentID.Validate(),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}

	if err := validateResponseFields(p); err != nil {
		return nil, err
	}

	if err := validateReattemptFields(p); err != nil {
		return nil, err
	}

	return &Issue{
		id:               p.ID,
		shipmentID:       p.ShipmentID,
		issueType:        p.IssueType,
		reportedAt:       p.ReportedAt,
		adminResponse:    p.AdminResponse,
		adminMessage:     p.AdminMessage,
		adminRespondedAt: p.AdminRespondedAt,
		reattemptStatus:  p.ReattemptStatus,
		reattemptAt:      p.ReattemptAt,
		status:           p.Status,
		isConstructed:    true,
	}, nil
}

func validateResponseFields(p Params) error {
	responded := p.AdminResponse != nil || p.AdminMessage != nil

	if p.Status == Reported && responded {
		return errs.NewValueIsInvalidErrorWithCause(
			"admin response is invalid",
			errors.New("reported issue must not carry an admin response"),
		)
	}

	if p.Status != Reported {
		if p.AdminResponse == nil || p.AdminMessage == nil {
			return errs.NewValueIsRequiredErrorWithCause(
				"admin response",
				fmt.Errorf("%s issue must carry the admin's action and message", p.Status),
			)
		}
		if err := p.AdminResponse.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func validateReattemptFields(p Params) error {
	if p.Status == Resolved && p.ReattemptStatus == nil {
		return errs.NewValueIsRequiredErrorWithCause(
			"reattempt status",
			errors.New("resolved issue must carry the rider's reattempt outcome"),
		)
	}

	if p.ReattemptStatus != nil {
		if p.Status != Resolved {
			return errs.NewValueIsInvalidErrorWithCause(
				"reattempt status is invalid",
				fmt.Errorf("%s issue must not carry a reattempt outcome", p.Status),
			)
		}
		if err := p.ReattemptStatus.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Validate ensures the issue was created via RestoreIssue.
func (i *Issue) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrIssueIsNotConstructed
	}
	return nil
}

// ValidateRespond checks the preconditions of Respond without side effects.
func (i *Issue) ValidateRespond(action Action, message string) error {
	if err := i.Validate(); err != nil {
		return err
	}

	var messageErr error
	if strings.TrimSpace(message) == "" {
		messageErr = errs.NewValueIsRequiredError("message")
	}

	var statusErr error
	if i.status != Reported {
		statusErr = errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("issue %s is %s, only reported issues accept a response", i.id, i.status),
		)
	}

	return errors.Join(action.Validate(), messageErr, statusErr)
}

// Respond records the admin's decision: Reported -> AdminResponded. Nothing is
// changed unless every precondition holds.
func (i *Issue) Respond(action Action, message string, at time.Time) error {
	if err := i.ValidateRespond(action, message); err != nil {
		return err
	}

	msg := strings.TrimSpace(message)
	respondedAt := at

	i.adminResponse = &action
	i.adminMessage = &msg
	i.adminRespondedAt = &respondedAt
	i.status = AdminResponded
	return nil
}

// Clone returns an independent copy, used to try a mutation before committing it.
func (i *Issue) Clone() *Issue {
	cp := *i
	if i.adminResponse != nil {
		a := *i.adminResponse
		cp.adminResponse = &a
	}
	if i.adminMessage != nil {
		m := *i.adminMessage
		cp.adminMessage = &m
	}
	if i.adminRespondedAt != nil {
		t := *i.adminRespondedAt
		cp.adminRespondedAt = &t
	}
	if i.reattemptStatus != nil {
		o := *i.reattemptStatus
		cp.reattemptStatus = &o
	}
	if i.reattemptAt != nil {
		t := *i.reattemptAt
		cp.reattemptAt = &t
	}
	return &cp
}

func (i *Issue) ID() kernel.ID {
	return i.id
}

func (i *Issue) ShipmentID() kernel.ID {
	return i.shipmentID
}

func (i *Issue) IssueType() string {
	return i.issueType
}

func (i *Issue) ReportedAt() time.Time {
	return i.reportedAt
}

func (i *Issue) AdminResponse() *Action {
	return i.adminResponse
}

func (i *Issue) AdminMessage() *string {
	return i.adminMessage
}

func (i *Issue) AdminRespondedAt() *time.Time {
	return i.adminRespondedAt
}

func (i *Issue) ReattemptStatus() *ReattemptOutcome {
	return i.reattemptStatus
}

func (i *Issue) ReattemptAt() *time.Time {
	return i.reattemptAt
}

func (i *Issue) Status() Status {
	return i.status
}
