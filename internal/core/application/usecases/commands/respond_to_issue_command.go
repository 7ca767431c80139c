package commands

import (
	"errors"
	"strings"
	"time"

	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/pkg/errs"
	"shopdispatch/internal/pkg/guard"
)

var ErrRespondToIssueCommandIsNotConstructed = errors.New(
	"RespondToIssueCommand must be created via NewRespondToIssueCommand constructor",
)

// RespondToIssueCommand is the admin's decision on a reported issue.
//
// Example:
//
//	cmd, err := NewRespondToIssueCommand("iss-7", issue.ActionRedeliver, "Call before arriving", time.Now())
//	if err != nil {
//	    return err // validation failure, nothing was sent
//	}
//	err = handler.Handle(ctx, cmd)
type RespondToIssueCommand struct {
	issueID kernel.ID
	action  issue.Action
	message string
	at      time.Time

	guard guard.ConstructorGuard
}

// NewRespondToIssueCommand validates the id, the action and the message. The
// message is trimmed and must not be empty.
func NewRespondToIssueCommand(
	issueID kernel.ID,
	action issue.Action,
	message string,
	at time.Time,
) (RespondToIssueCommand, error) {
	cmd := RespondToIssueCommand{
		issueID: issueID,
		action:  action,
		message: strings.TrimSpace(message),
		at:      at,
		guard:   guard.NewConstructorGuard(),
	}

	var messageErr error
	if cmd.message == "" {
		messageErr = errs.NewValueIsRequiredError("message")
	}

	if err := errors.Join(issueID.Validate(), action.Validate(), messageErr); err != nil {
		return RespondToIssueCommand{}, err
	}
	return cmd, nil
}

func (c RespondToIssueCommand) Validate() error {
	return c.guard.Validate(ErrRespondToIssueCommandIsNotConstructed)
}

func (c RespondToIssueCommand) IssueID() kernel.ID {
	return c.issueID
}

func (c RespondToIssueCommand) Action() issue.Action {
	return c.action
}

func (c RespondToIssueCommand) Message() string {
	return c.message
}

func (c RespondToIssueCommand) At() time.Time {
	return c.at
}
