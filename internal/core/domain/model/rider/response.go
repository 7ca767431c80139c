package rider

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shopdispatch/internal/core/domain/model/kernel"
)

// ResponseStatus is a rider's answer to a job offer.
type ResponseStatus int

const (
	ResponseUnknown ResponseStatus = iota
	ResponsePending
	ResponseDeclined
	ResponseAccepted
)

func getResponseStatusStrings() map[ResponseStatus]string {
	return map[ResponseStatus]string{
		ResponseUnknown:  "unknown",
		ResponsePending:  "pending",
		ResponseDeclined: "declined",
		ResponseAccepted: "accepted",
	}
}

// ParseResponseStatus maps a wire value; anything unrecognised is ResponseUnknown.
func ParseResponseStatus(raw string) ResponseStatus {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for status, str := range getResponseStatusStrings() {
		if status != ResponseUnknown && str == normalized {
			return status
		}
	}
	return ResponseUnknown
}

func (s ResponseStatus) String() string {
	if str, ok := getResponseStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// ResponseKey identifies a response.
type ResponseKey struct {
	ShipmentID kernel.ID
	RiderID    kernel.ID
}

func (k ResponseKey) String() string {
	return fmt.Sprintf("%s/%s", k.ShipmentID, k.RiderID)
}

// Response is one rider's answer to one job offer.
type Response struct {
	key         ResponseKey
	riderName   string
	riderMobile string
	status      ResponseStatus
	respondedAt time.Time
}

// RestoreResponse rebuilds a response from store data. An unrecognised status is
// kept as ResponseUnknown and treated like pending by the tracker.
func RestoreResponse(
	shipmentID, riderID kernel.ID,
	riderName, riderMobile string,
	status ResponseStatus,
	respondedAt time.Time,
) (*Response, error) {
	if err := errors.Join(shipmentID.Validate(), riderID.Validate()); err != nil {
		return nil, err
	}

	if _, ok := getResponseStatusStrings()[status]; !ok {
		status = ResponseUnknown
	}

	return &Response{
		key:         ResponseKey{ShipmentID: shipmentID, RiderID: riderID},
		riderName:   riderName,
		riderMobile: riderMobile,
		status:      status,
		respondedAt: respondedAt,
	}, nil
}

func (r *Response) Key() ResponseKey {
	return r.key
}

func (r *Response) ShipmentID() kernel.ID {
	return r.key.ShipmentID
}

func (r *Response) RiderID() kernel.ID {
	return r.key.RiderID
}

func (r *Response) RiderName() string {
	return r.riderName
}

func (r *Response) RiderMobile() string {
	return r.riderMobile
}

func (r *Response) Status() ResponseStatus {
	return r.status
}

func (r *Response) RespondedAt() time.Time {
	return r.respondedAt
}

func (r *Response) IsAccepted() bool {
	return r.status == ResponseAccepted
}

func (r *Response) IsDeclined() bool {
	return r.status == ResponseDeclined
}
