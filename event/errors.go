package event

import "errors"

var (
	// ErrInvalidID indicates an empty or oversized event id.
	ErrInvalidID = errors.New("event: invalid id")

	// ErrInvalidName indicates an oversized event name.
	ErrInvalidName = errors.New("event: invalid name")

	// ErrInvalidDescription indicates an oversized event description.
	ErrInvalidDescription = errors.New("event: invalid description")

	// ErrInvalidPrice indicates a zero ticket or token price.
	ErrInvalidPrice = errors.New("event: price must be positive")

	// ErrInactive indicates the event no longer accepts sponsorships or ticket sales.
	ErrInactive = errors.New("event: event is not active")

	// ErrCounterOverflow indicates a lifetime counter would overflow.
	ErrCounterOverflow = errors.New("event: counter overflow")

	// ErrNotFound indicates no event record exists at the address.
	ErrNotFound = errors.New("event: event not found")

	// ErrExists indicates an event record already exists at the derived address.
	ErrExists = errors.New("event: event already exists")

	// ErrAddressMismatch indicates a stored sub-account does not match its derivation.
	ErrAddressMismatch = errors.New("event: sub-account does not match derivation")
)
