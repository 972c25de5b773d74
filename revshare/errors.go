package revshare

import "errors"

var (
	// ErrOverflow indicates a checked multiplication or addition overflowed.
	ErrOverflow = errors.New("revshare: arithmetic overflow")

	// ErrZeroTotalShares indicates the claim denominator is zero.
	ErrZeroTotalShares = errors.New("revshare: zero total shares")

	// ErrShareExceedsTotal indicates a holder claims more than the total supply.
	ErrShareExceedsTotal = errors.New("revshare: claims exceed total shares")

	// ErrPayoutMismatch indicates a payout does not match the distribution formula.
	ErrPayoutMismatch = errors.New("revshare: payout does not match entitlement")

	// ErrPayoutExceedsPool indicates a payout larger than the pool it is drawn from.
	ErrPayoutExceedsPool = errors.New("revshare: payout exceeds pool")
)
