package http

import (
	"errors"
	"net/http"

	"shopdispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the JSON shape of every error answer.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatusFor maps the errs taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errs.IsUnauthorized(err):
		return http.StatusUnauthorized
	case errs.IsTransient(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrDataIntegrity):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler answers with an ErrorBody. Server errors are logged and their
// details kept out of the answer.
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := StatusFor(err)
		msg := err.Error()

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		}
		if code == http.StatusInternalServerError {
			e.Logger.Error(err)
			msg = http.StatusText(code)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, ErrorBody{Code: code, Message: msg})
		}
		if writeErr != nil {
			e.Logger.Error(writeErr)
		}
	}
}
