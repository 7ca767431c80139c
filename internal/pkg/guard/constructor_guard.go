// Package guard detects domain values that were created as zero values instead of
// through their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in value objects and commands. Only NewConstructorGuard
// produces a guard that validates, so a zero-value struct is always rejected.
//
// Example:
//
//	type RespondToIssueCommand struct {
//	    issueID string
//	    guard   guard.ConstructorGuard
//	}
//
//	func (c RespondToIssueCommand) Validate() error {
//	    return c.guard.Validate(ErrRespondToIssueCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks the enclosing value as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
