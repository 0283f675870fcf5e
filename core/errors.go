package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is a sentinel error for "not found" cases.
// Cleanup paths treat it as ignorable: the thing they wanted gone is already gone.
var ErrNotFound = errors.New("not found")

// ErrRegistryUnavailable is returned when the trigger registry cannot be queried
var ErrRegistryUnavailable = errors.New("trigger registry unavailable")

// ErrStoreUnavailable is returned when the survey thread store cannot be queried
var ErrStoreUnavailable = errors.New("survey store unavailable")

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound)
}

// ReconcileHalf names one of the two reaction triggers kept in sync by the reconciler
type ReconcileHalf string

const (
	ReconcileHalfAdded   ReconcileHalf = "added"
	ReconcileHalfRemoved ReconcileHalf = "removed"
)

// ReconcileError reports which reaction trigger failed to be created or updated
type ReconcileError struct {
	Half  ReconcileHalf
	Cause error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("failed to reconcile reaction_%s trigger: %v", e.Half, e.Cause)
}

func (e *ReconcileError) Unwrap() error {
	return e.Cause
}

// ExternalCallFailed wraps a failed call to Slack, the registry or the store with the operation name
type ExternalCallFailed struct {
	Operation string
	Cause     error
}

func (e *ExternalCallFailed) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Cause)
}

func (e *ExternalCallFailed) Unwrap() error {
	return e.Cause
}

// NewExternalCallFailed is a shorthand for building an ExternalCallFailed error
func NewExternalCallFailed(operation string, cause error) error {
	return &ExternalCallFailed{Operation: operation, Cause: cause}
}
