package issue

import (
	"fmt"
	"strings"

	"shopdispatch/internal/pkg/errs"
)

// Action is the admin's decision on an issue.
type Action string

const (
	ActionRedeliver    Action = "redeliver"
	ActionReturnToShop Action = "return_to_shop"
)

// ParseAction maps a wire value. Unrecognised values are returned as-is and fail Validate.
func ParseAction(raw string) Action {
	return Action(strings.ToLower(strings.TrimSpace(raw)))
}

func (a Action) Validate() error {
	switch a {
	case ActionRedeliver, ActionReturnToShop:
		return nil
	case "":
		return errs.NewValueIsRequiredError("action")
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"action is invalid",
			fmt.Errorf("%q is not one of %s, %s", string(a), ActionRedeliver, ActionReturnToShop),
		)
	}
}

func (a Action) String() string {
	return string(a)
}

// ReattemptOutcome is what happened when the rider acted on the admin's decision.
type ReattemptOutcome string

const (
	ReattemptCompleted ReattemptOutcome = "completed"
	ReattemptFailed    ReattemptOutcome = "failed"
)

func ParseReattemptOutcome(raw string) ReattemptOutcome {
	return ReattemptOutcome(strings.ToLower(strings.TrimSpace(raw)))
}

func (o ReattemptOutcome) Validate() error {
	switch o {
	case ReattemptCompleted, ReattemptFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"reattempt outcome is invalid",
			fmt.Errorf("%q is not one of %s, %s", string(o), ReattemptCompleted, ReattemptFailed),
		)
	}
}
