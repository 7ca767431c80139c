package commands

import (
	"context"
	"fmt"
	"log/slog"

	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/ports"
	"shopdispatch/internal/pkg/errs"
)

// RespondToIssueCommandHandler sends the admin's decision to the store.
//
// The issue must be held by the issue view and be reported. Every rule is
// checked on a copy before the store is called; a rejected command sends nothing
// and changes nothing. The view is updated only after the store accepted.
type RespondToIssueCommandHandler struct {
	responder ports.IssueResponder
	view      *views.IssueView
	logger    *slog.Logger
}

func NewRespondToIssueCommandHandler(
	responder ports.IssueResponder,
	view *views.IssueView,
	logger *slog.Logger,
) RespondToIssueCommandHandler {
	return RespondToIssueCommandHandler{
		responder: responder,
		view:      view,
		logger:    logger.With("component", "respond_to_issue"),
	}
}

func (h RespondToIssueCommandHandler) Handle(ctx context.Context, command RespondToIssueCommand) (*issue.Issue, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	draft, ok := h.view.Find(command.IssueID())
	if !ok {
		return nil, errs.NewObjectNotFoundError("issueID", command.IssueID())
	}

	if err := draft.Respond(command.Action(), command.Message(), command.At()); err != nil {
		return nil, err
	}

	err := h.responder.RespondToIssue(ctx, command.IssueID(), command.Action(), command.Message())
	if err != nil {
		return nil, fmt.Errorf("respond to issue %s: %w", command.IssueID(), err)
	}

	h.view.Replace(draft)
	h.logger.InfoContext(ctx, "Issue response sent",
		"issue_id", command.IssueID(),
		"action", command.Action(),
	)
	return draft, nil
}
