package services

import (
	"fmt"
	"time"

	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/notification"
	"shopdispatch/internal/pkg/errs"
)

// IssueReconciliation is the outcome of folding one fetched issue listing into
// the held one.
type IssueReconciliation struct {
	Held          kernel.Snapshot[*issue.Issue]
	Notifications []*notification.Notification
	Anomalies     []error
	Baseline      bool
}

// Counts tallies the held issues.
func (r IssueReconciliation) Counts() issue.Counts {
	return issue.Tally(r.Held.Items())
}

// IssueReconciler follows issues through reported -> admin_responded -> resolved.
type IssueReconciler struct{}

func NewIssueReconciler() IssueReconciler {
	return IssueReconciler{}
}

// Reconcile folds fetched into prev. A newly listed reported issue is announced
// as needing attention and an observed resolution is announced with the rider's
// outcome. A status that goes backwards is an anomaly and the held issue is kept;
// a skipped step is accepted and flagged.
func (IssueReconciler) Reconcile(
	prev kernel.Snapshot[*issue.Issue],
	fetched kernel.Snapshot[*issue.Issue],
) IssueReconciliation {
	items, anomalies := dedupe(fetched.Items(), (*issue.Issue).ID, "issue listing")
	res := IssueReconciliation{Baseline: prev.IsZero()}
	at := fetched.FetchedAt()

	previous := indexByID(prev.Items(), (*issue.Issue).ID)
	for i, cur := range items {
		old, existed := previous[cur.ID()]

		switch {
		case !existed:
			if !res.Baseline && cur.Status() == issue.Reported {
				res.Notifications = append(res.Notifications, notification.New(
					notification.IssueReported, cur.ShipmentID(),
					fmt.Sprintf("Rider reported %s on shipment %s", issueTypeOrDefault(cur), cur.ShipmentID()),
					at, notification.WithIssue(cur.ID()),
				))
			}

		case cur.Status() < old.Status():
			anomalies = append(anomalies, errs.NewDataIntegrityError(
				"issue "+cur.ID().String(),
				fmt.Sprintf("status went back from %s to %s, keeping %s", old.Status(), cur.Status(), old.Status()),
			))
			items[i] = old

		case cur.Status() > old.Status():
			if err := old.Status().ValidateTransition(cur.Status()); err != nil {
				anomalies = append(anomalies, errs.NewDataIntegrityError(
					"issue "+cur.ID().String(),
					fmt.Sprintf("status skipped from %s to %s", old.Status(), cur.Status()),
				))
			}
			if cur.Status() == issue.Resolved {
				res.Notifications = append(res.Notifications, resolvedNotification(cur, at))
			}
		}
	}

	res.Held = kernel.NewSnapshot(items, fetched.FetchedAt())
	res.Anomalies = anomalies
	return res
}

func resolvedNotification(i *issue.Issue, at time.Time) *notification.Notification {
	outcome := "unknown"
	if o := i.ReattemptStatus(); o != nil {
		outcome = string(*o)
	}

	return notification.New(
		notification.IssueResolved, i.ShipmentID(),
		fmt.Sprintf("Issue on shipment %s resolved, reattempt %s", i.ShipmentID(), outcome),
		at, notification.WithIssue(i.ID()),
	)
}

func issueTypeOrDefault(i *issue.Issue) string {
	if i.IssueType() == "" {
		return "an issue"
	}
	return i.IssueType()
}
