package ledger

import "errors"

var (
	// ErrNotFound indicates no value exists for the given key.
	ErrNotFound = errors.New("ledger: value not found")

	// ErrEmptyKey indicates an empty key or bucket name.
	ErrEmptyKey = errors.New("ledger: key must not be empty")

	// ErrStoreClosed indicates the store has already been closed.
	ErrStoreClosed = errors.New("ledger: store is closed")

	// ErrReadOnly indicates a write was attempted inside View.
	ErrReadOnly = errors.New("ledger: transaction is read-only")
)
