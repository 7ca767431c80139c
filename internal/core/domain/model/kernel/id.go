package kernel

import (
	"strings"

	"shopdispatch/internal/pkg/errs"
)

// ID is an opaque identifier issued by the external store. The core never
// generates IDs for shipments, issues or riders; it only compares them.
type ID string

// NewID trims raw and rejects blank identifiers.
func NewID(raw string) (ID, error) {
	id := ID(strings.TrimSpace(raw))
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// MustID is NewID for literals in tests and fixtures. It panics on a blank id.
func MustID(raw string) ID {
	id, err := NewID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// Validate reports whether the id is non-blank.
func (id ID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return errs.NewValueIsRequiredError("id")
	}
	return nil
}

func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the id was never set.
func (id ID) IsZero() bool {
	return id == ""
}
