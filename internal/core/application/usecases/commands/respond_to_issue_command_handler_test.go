package commands_test

import (
	"errors"
	"testing"

	"shopdispatch/internal/core/application/usecases/commands"
	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewRespondToIssueCommand(t *testing.T) {
	tests := []struct {
		name    string
		id      kernel.ID
		action  issue.Action
		message string
		wantErr error
	}{
		{"valid", "i1", issue.ActionRedeliver, " call first ", nil},
		{"blank message", "i1", issue.ActionRedeliver, " \n\t", errs.ErrValueIsRequired},
		{"unknown action", "i1", issue.Action("refund"), "ok", errs.ErrValueIsInvalid},
		{"missing action", "i1", "", "ok", errs.ErrValueIsRequired},
		{"blank id", "", issue.ActionReturnToShop, "ok", errs.ErrValueIsRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := commands.NewRespondToIssueCommand(tt.id, tt.action, tt.message, t0)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.ErrorIs(t, cmd.Validate(), commands.ErrRespondToIssueCommandIsNotConstructed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "call first", cmd.Message())
		})
	}
}

func TestRespondToIssueCommandHandler_Handle(t *testing.T) {
	setup := func(t *testing.T, held ...*issue.Issue) (*MockIssueResponder, *views.IssueView, commands.RespondToIssueCommandHandler) {
		responder := &MockIssueResponder{}
		view := views.NewIssueView()
		view.Update(func(kernel.Snapshot[*issue.Issue]) kernel.Snapshot[*issue.Issue] {
			return kernel.NewSnapshot(held, t0)
		})
		return responder, view, commands.NewRespondToIssueCommandHandler(responder, view, discardLogger())
	}

	t.Run("should send the response and update the view", func(t *testing.T) {
		// Given
		ctx := t.Context()
		responder, view, handler := setup(t, reportedIssue(t, "i1"))
		responder.On("RespondToIssue", ctx, kernel.ID("i1"), issue.ActionReturnToShop, "bring it back").Return(nil)
		cmd, err := commands.NewRespondToIssueCommand("i1", issue.ActionReturnToShop, "bring it back", tick(1))
		require.NoError(t, err)

		// When
		updated, err := handler.Handle(ctx, cmd)

		// Then
		require.NoError(t, err)
		assert.Equal(t, issue.AdminResponded, updated.Status())
		assert.Equal(t, tick(1), *updated.AdminRespondedAt())
		assert.Equal(t, issue.Counts{WaitingForRider: 1}, view.Counts())
		responder.AssertExpectations(t)
	})

	t.Run("should not call the store for an issue already answered", func(t *testing.T) {
		ctx := t.Context()
		answered := reportedIssue(t, "i1")
		require.NoError(t, answered.Respond(issue.ActionRedeliver, "first answer", t0))
		responder, view, handler := setup(t, answered)
		cmd, _ := commands.NewRespondToIssueCommand("i1", issue.ActionReturnToShop, "second answer", tick(1))

		_, err := handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		responder.AssertNotCalled(t, "RespondToIssue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		held, _ := view.Find("i1")
		assert.Equal(t, issue.ActionRedeliver, *held.AdminResponse())
		assert.Equal(t, "first answer", *held.AdminMessage())
		assert.Equal(t, issue.AdminResponded, held.Status())
	})

	t.Run("should leave the view alone when the store rejects", func(t *testing.T) {
		ctx := t.Context()
		responder, view, handler := setup(t, reportedIssue(t, "i1"))
		responder.On("RespondToIssue", ctx, kernel.ID("i1"), issue.ActionRedeliver, "retry").
			Return(errs.NewTransientError("respond", errors.New("connection reset")))
		cmd, _ := commands.NewRespondToIssueCommand("i1", issue.ActionRedeliver, "retry", tick(1))

		_, err := handler.Handle(ctx, cmd)

		assert.True(t, errs.IsTransient(err))
		held, _ := view.Find("i1")
		assert.Equal(t, issue.Reported, held.Status())
		assert.Nil(t, held.AdminMessage())
	})

	t.Run("unknown issue is not found", func(t *testing.T) {
		responder, _, handler := setup(t)
		cmd, _ := commands.NewRespondToIssueCommand("i404", issue.ActionRedeliver, "hello", tick(1))

		_, err := handler.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		responder.AssertNotCalled(t, "RespondToIssue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
