package query

import (
	"errors"
	"fmt"

	"github.com/jacentio/lattice/catalog"
)

var (
	// ErrUnknownFilterAttribute is returned when a predicate names an attribute
	// the entity's catalog does not declare. No store call is made.
	ErrUnknownFilterAttribute = errors.New("lattice: unknown filter attribute")

	// ErrInvalidPredicate is returned when a constraint is malformed or its
	// value does not match the attribute kind.
	ErrInvalidPredicate = errors.New("lattice: invalid predicate")

	// ErrInvalidContinuationToken is returned when a token cannot be decoded
	// or does not belong to the request it was passed with.
	ErrInvalidContinuationToken = errors.New("lattice: invalid continuation token")

	// ErrInvalidLimit is returned for a negative page size.
	ErrInvalidLimit = errors.New("lattice: invalid limit")
)

// Error describes a failed query operation.
type Error struct {
	Op     string // "plan", "page"
	Entity string
	Err    error
}

func (e *Error) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("lattice: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("lattice: %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err was caused by the caller's request.
// Validation errors are never retried.
func IsValidation(err error) bool {
	return errors.Is(err, ErrUnknownFilterAttribute) ||
		errors.Is(err, ErrInvalidPredicate) ||
		errors.Is(err, ErrInvalidContinuationToken) ||
		errors.Is(err, ErrInvalidLimit) ||
		errors.Is(err, catalog.ErrUnknownEntityType)
}
