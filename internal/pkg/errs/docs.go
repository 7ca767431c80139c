// Package errs provides standardized error types for the dispatch application.
//
// Validation failures:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value breaks a domain rule
//   - ValueIsOutOfRangeError: a value lies outside its allowed range
//   - ObjectNotFoundError: a lookup by id found nothing
//
// Failures talking to the external store:
//   - TransientError: network or timeout failure, retried on the next poll tick
//   - UnauthorizedError: caller must re-authenticate, never retried automatically
//   - DataIntegrityError: the store returned data that breaks its own invariants
//
// Each type carries a sentinel (ErrValueIsRequired, ErrTransient, ...) returned from
// Unwrap so callers classify with errors.Is or the IsTransient/IsUnauthorized/IsValidation
// helpers.
package errs
