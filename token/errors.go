package token

import "errors"

var (
	// ErrMintNotFound indicates no mint exists at the address.
	ErrMintNotFound = errors.New("token: mint not found")

	// ErrHoldingNotFound indicates no holding exists at the address.
	ErrHoldingNotFound = errors.New("token: holding not found")

	// ErrAccountExists indicates an account is already initialized at the address.
	ErrAccountExists = errors.New("token: account already exists")

	// ErrMintMismatch indicates a holding belongs to a different mint.
	ErrMintMismatch = errors.New("token: mint mismatch")

	// ErrOwnerMismatch indicates the authority is not the holding's owner.
	ErrOwnerMismatch = errors.New("token: authority does not own holding")

	// ErrMintAuthority indicates the authority may not mint new supply.
	ErrMintAuthority = errors.New("token: authority may not mint")

	// ErrInsufficientFunds indicates a balance lower than the requested amount.
	ErrInsufficientFunds = errors.New("token: insufficient funds")

	// ErrOverflow indicates a balance or supply would overflow.
	ErrOverflow = errors.New("token: balance overflow")
)
