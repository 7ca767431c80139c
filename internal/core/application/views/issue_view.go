package views

import (
	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
)

// IssueView is the reconciled list of issues in the dashboard's query window.
type IssueView struct {
	Held[*issue.Issue]
}

func NewIssueView() *IssueView {
	return &IssueView{}
}

// Find returns a copy of the held issue with id, safe to mutate.
func (v *IssueView) Find(id kernel.ID) (*issue.Issue, bool) {
	snap := v.Load()
	for i := range snap.Len() {
		if it := snap.At(i); it.ID() == id {
			return it.Clone(), true
		}
	}
	return nil, false
}

// Replace swaps in a newer version of an issue already held. It reports false
// when the issue is no longer held.
func (v *IssueView) Replace(updated *issue.Issue) bool {
	replaced := false
	v.Update(func(prev kernel.Snapshot[*issue.Issue]) kernel.Snapshot[*issue.Issue] {
		items := prev.Items()
		for i, it := range items {
			if it.ID() == updated.ID() {
				items[i] = updated
				replaced = true
				break
			}
		}
		if !replaced {
			return prev
		}
		return kernel.NewSnapshot(items, prev.FetchedAt())
	})
	return replaced
}

// Counts tallies the held issues.
func (v *IssueView) Counts() issue.Counts {
	return issue.Tally(v.Load().Items())
}
