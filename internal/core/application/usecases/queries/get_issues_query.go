package queries

import (
	"errors"
	"time"

	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/pkg/guard"
)

var ErrGetIssuesQueryIsNotConstructed = errors.New(
	"GetIssuesQuery must be created via NewGetIssuesQuery constructor",
)

// GetIssuesQuery reads the held issues narrowed by filter, with counts over the
// same selection.
type GetIssuesQuery struct {
	filter issue.Filter

	guard guard.ConstructorGuard
}

func NewGetIssuesQuery(filter issue.Filter) GetIssuesQuery {
	return GetIssuesQuery{filter: filter, guard: guard.NewConstructorGuard()}
}

func (q GetIssuesQuery) Validate() error {
	return q.guard.Validate(ErrGetIssuesQueryIsNotConstructed)
}

type GetIssuesQueryResponse struct {
	Issues    []IssueResponse `json:"issues"`
	Counts    CountsResponse  `json:"counts"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

type GetIssuesQueryHandler struct {
	view *views.IssueView
}

func NewGetIssuesQueryHandler(view *views.IssueView) GetIssuesQueryHandler {
	return GetIssuesQueryHandler{view: view}
}

func (h GetIssuesQueryHandler) Handle(query GetIssuesQuery) (GetIssuesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetIssuesQueryResponse{}, err
	}

	snap := h.view.Load()
	selected := make([]*issue.Issue, 0, snap.Len())
	for _, i := range snap.Items() {
		if query.filter.Matches(i) {
			selected = append(selected, i)
		}
	}

	out := GetIssuesQueryResponse{
		Issues:    make([]IssueResponse, 0, len(selected)),
		Counts:    countsResponse(issue.Tally(selected)),
		FetchedAt: snap.FetchedAt(),
	}
	for _, i := range selected {
		out.Issues = append(out.Issues, IssueResponseFrom(i))
	}
	return out, nil
}
