package services

import (
	"fmt"
	"strings"
	"time"

	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/domain/model/notification"
	"shopdispatch/internal/core/domain/model/rider"
	"shopdispatch/internal/pkg/errs"
)

// Banner is the admin's summary of a job offer.
type Banner string

const (
	// BannerAwaiting means no rider accepted or declined yet.
	BannerAwaiting Banner = "awaiting"
	// BannerDeclined means at least one rider declined and nobody accepted.
	BannerDeclined Banner = "declined"
	// BannerAccepted means a rider won the job.
	BannerAccepted Banner = "accepted"
)

// Resolution is the tracker's reading of one shipment's responses.
type Resolution struct {
	ShipmentID kernel.ID
	// Winner is the authoritative accepted response, or nil.
	Winner *rider.Response
	// Responses is the listing the resolution was made from, one per rider.
	Responses []*rider.Response
	Banner    Banner
	// Anomaly is set when the store returned more than one accepted response.
	Anomaly error
}

// StopPolling reports whether the shipment needs no further response polls.
func (r Resolution) StopPolling() bool {
	return r.Winner != nil
}

// Declined returns the responses that declined, in list order.
func (r Resolution) Declined() []*rider.Response {
	var out []*rider.Response
	for _, resp := range r.Responses {
		if resp.IsDeclined() {
			out = append(out, resp)
		}
	}
	return out
}

// ResponseTracker resolves rider responses for a shipment.
type ResponseTracker struct{}

func NewResponseTracker() ResponseTracker {
	return ResponseTracker{}
}

// Resolve picks the winner. The first accepted response in list order is
// authoritative; any further accepted response is reported as an anomaly and
// ignored. Responses for other shipments and repeated riders are dropped.
func (ResponseTracker) Resolve(shipmentID kernel.ID, responses []*rider.Response) Resolution {
	res := Resolution{ShipmentID: shipmentID, Banner: BannerAwaiting}

	seen := make(map[kernel.ID]struct{}, len(responses))
	var extra []string

	for _, r := range responses {
		if r == nil || r.ShipmentID() != shipmentID {
			continue
		}
		if _, dup := seen[r.RiderID()]; dup {
			continue
		}
		seen[r.RiderID()] = struct{}{}
		res.Responses = append(res.Responses, r)

		switch {
		case r.IsAccepted() && res.Winner == nil:
			res.Winner = r
			res.Banner = BannerAccepted
		case r.IsAccepted():
			extra = append(extra, r.RiderID().String())
		case r.IsDeclined() && res.Winner == nil:
			res.Banner = BannerDeclined
		}
	}

	if len(extra) > 0 {
		res.Anomaly = errs.NewDataIntegrityError(
			"responses for shipment "+shipmentID.String(),
			fmt.Sprintf("riders %s also accepted, %s wins as first in list",
				strings.Join(extra, ", "), res.Winner.RiderID()),
		)
	}

	return res
}

// Changes announces what next adds over prev: every rider that newly declined,
// then the winner if there is a new one. prev is the zero Resolution on the
// first observation.
func (ResponseTracker) Changes(prev, next Resolution, at time.Time) []*notification.Notification {
	if prev.Winner != nil {
		return nil
	}

	declined := make(map[kernel.ID]struct{})
	for _, r := range prev.Declined() {
		declined[r.RiderID()] = struct{}{}
	}

	var out []*notification.Notification
	for _, r := range next.Declined() {
		if _, known := declined[r.RiderID()]; known {
			continue
		}
		out = append(out, notification.New(
			notification.RiderDeclined, next.ShipmentID,
			fmt.Sprintf("%s declined shipment %s", riderLabel(r), next.ShipmentID),
			at, notification.WithRider(r.RiderID()),
		))
	}

	if w := next.Winner; w != nil {
		out = append(out, notification.New(
			notification.RiderAccepted, next.ShipmentID,
			fmt.Sprintf("%s accepted shipment %s", riderLabel(w), next.ShipmentID),
			at, notification.WithRider(w.RiderID()),
		))
	}

	return out
}

func riderLabel(r *rider.Response) string {
	if r.RiderName() != "" {
		return r.RiderName()
	}
	return "Rider " + r.RiderID().String()
}
