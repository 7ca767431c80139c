package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")

	// ErrTransient marks network and timeout failures that are retried on the next poll tick.
	ErrTransient = errors.New("transient failure")
	// ErrUnauthorized marks authorization failures. Callers must re-authenticate;
	// these are never retried automatically.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDataIntegrity marks anomalies in data returned by the external store.
	ErrDataIntegrity = errors.New("data integrity violation")
)

// sanitize keeps error messages on a single line.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %s)", msg, sanitize(cause))
}

// ObjectNotFoundError reports a lookup by id that found nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return withCause(
			fmt.Sprintf("%s: param is: %s, ID is: %s", ErrObjectNotFound, e.ParamName, e.ID),
			e.Cause,
		)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a value that failed a domain rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, sanitize(e.ParamName)), e.Cause)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	return withCause(
		fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
			ErrValueIsInvalid, sanitize(e.Value), sanitize(e.ParamName), sanitize(e.Min), sanitize(e.Max)),
		e.Cause,
	)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, sanitize(e.ParamName)), e.Cause)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// TransientError wraps a failed call to the external store that is worth retrying later.
type TransientError struct {
	Op    string
	Cause error
}

func NewTransientError(op string, cause error) *TransientError {
	return &TransientError{Op: op, Cause: cause}
}

func (e *TransientError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrTransient, e.Op), e.Cause)
}

func (e *TransientError) Unwrap() error {
	return ErrTransient
}

// UnauthorizedError wraps a call rejected by the external store's authorization.
type UnauthorizedError struct {
	Op    string
	Cause error
}

func NewUnauthorizedError(op string, cause error) *UnauthorizedError {
	return &UnauthorizedError{Op: op, Cause: cause}
}

func (e *UnauthorizedError) Error() string {
	return withCause(fmt.Sprintf("%s: %s, re-authentication required", ErrUnauthorized, e.Op), e.Cause)
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// DataIntegrityError describes store data that breaks an invariant the store itself
// is expected to hold, e.g. two accepted responses for one shipment.
type DataIntegrityError struct {
	Subject string
	Detail  string
}

func NewDataIntegrityError(subject, detail string) *DataIntegrityError {
	return &DataIntegrityError{Subject: subject, Detail: detail}
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrDataIntegrity, sanitize(e.Subject), sanitize(e.Detail))
}

func (e *DataIntegrityError) Unwrap() error {
	return ErrDataIntegrity
}

// IsTransient reports whether err should be retried on the next scheduled tick.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsUnauthorized reports whether err requires the caller to re-authenticate.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidation reports whether err was produced by input validation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValueIsInvalid) ||
		errors.Is(err, ErrValueIsRequired) ||
		errors.Is(err, ErrValueIsOutOfRange)
}
