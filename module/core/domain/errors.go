package domain

import "fmt"

// ValidationError marks malformed caller input: non-finite coordinates,
// negative speed, empty point lists. Caller-recoverable, never coerced.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// SequenceError marks out-of-order timestamps within one vehicle's stream.
// The input is rejected rather than repaired.
type SequenceError struct {
	VehicleID string
	Index     int
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("vehicle %s: point %d is older than its predecessor", e.VehicleID, e.Index)
}

// StorageError wraps a collaborator failure during replay or ingest.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
