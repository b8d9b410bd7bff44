package apperr

import "fmt"

// ValidationError reports malformed caller input (e.g. a non-positive
// requested quantity or a duplicate product in one requirement).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an absent requirement, assignment, or party.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NotFound builds a NotFoundError for the given resource and id.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// InvalidStateError reports an operation that is illegal in the entity's
// current lifecycle state (approving a non-pending requirement, cancelling
// a received assignment, assigning against a closed requirement).
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

// InvalidState builds an InvalidStateError from a format string.
func InvalidState(format string, args ...interface{}) error {
	return &InvalidStateError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientQuantityError reports an allocation request that exceeds the
// line's pending quantity.
type InsufficientQuantityError struct {
	ProductID string
	Requested int
	Pending   int
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient pending quantity for product %s (requested: %d, pending: %d)",
		e.ProductID, e.Requested, e.Pending)
}

// ConflictError reports a stale-version write rejected by the optimistic
// concurrency check. Callers may re-fetch the aggregate and retry.
type ConflictError struct {
	Resource string
	ID       string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s was modified concurrently: %s", e.Resource, e.ID)
}

// Conflict builds a ConflictError for the given resource and id.
func Conflict(resource, id string) error {
	return &ConflictError{Resource: resource, ID: id}
}
