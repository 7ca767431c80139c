package http

import (
	"strconv"
	"time"

	"shopdispatch/internal/core/domain/model/issue"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

func invalidParam(name string, cause error) error {
	return errs.NewValueIsInvalidErrorWithCause(name, cause)
}

// intParam reads an optional integer query parameter; absent means zero.
func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(name, err)
	}
	return v, nil
}

func issueFilter(c echo.Context) (issue.Filter, error) {
	var filter issue.Filter

	if raw := c.QueryParam("status"); raw != "" {
		status := issue.ParseStatus(raw)
		if err := status.Validate(); err != nil {
			return issue.Filter{}, invalidParam("status", err)
		}
		filter.Status = &status
	}

	if raw := c.QueryParam("shipmentId"); raw != "" {
		id, err := kernel.NewID(raw)
		if err != nil {
			return issue.Filter{}, err
		}
		filter.ShipmentID = &id
	}

	if raw := c.QueryParam("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return issue.Filter{}, invalidParam("since", err)
		}
		filter.Since = since
	}

	return filter, nil
}
