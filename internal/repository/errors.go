package repository

import "errors"

var (
	// ErrCapacityExceeded is returned when the authoritative in-transaction
	// availability check fails: the room has no free unit for a requested
	// night, the day is closed or blocked, or the departure lacks seats.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrDuplicateReference is returned when a booking insert collides on
	// the reference unique index. Callers regenerate and retry.
	ErrDuplicateReference = errors.New("duplicate booking reference")

	// ErrInvalidTransition is returned for a status change outside the
	// transition table, including no-op transitions.
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrNotFound = errors.New("record not found")
)
