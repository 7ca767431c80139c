package issue

import (
	"fmt"
	"strings"

	"shopdispatch/internal/pkg/errs"
)

// Status is the resolution state of an issue.
type Status int

const (
	Unknown Status = iota
	Reported
	AdminResponded
	Resolved
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Reported:       "reported",
		AdminResponded: "admin_responded",
		Resolved:       "resolved",
	}
}

// ParseStatus maps a wire value; anything unrecognised is Unknown.
func ParseStatus(raw string) Status {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == normalized {
			return status
		}
	}
	return Unknown
}

func (s Status) Validate() error {
	if s <= Unknown || s > Resolved {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s Status) IsTerminal() bool {
	return s == Resolved
}

// ValidateTransition allows exactly one step forward.
func (s Status) ValidateTransition(next Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}

	if next != s+1 {
		return errs.NewValueIsInvalidErrorWithCause(
			"transition is invalid",
			fmt.Errorf("%s to %s is not allowed", s, next),
		)
	}
	return nil
}
