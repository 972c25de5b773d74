package address

import "errors"

var (
	// ErrInvalidAddress indicates the input is not a 32-byte address.
	ErrInvalidAddress = errors.New("address: invalid address")

	// ErrNilPublicKey indicates a nil public key was supplied.
	ErrNilPublicKey = errors.New("address: public key is nil")

	// ErrInvalidSeeds indicates too many seeds or an oversized seed.
	ErrInvalidSeeds = errors.New("address: invalid derivation seeds")

	// ErrOnCurve indicates a derived address lies on the secp256k1 curve.
	ErrOnCurve = errors.New("address: derived address is on curve")

	// ErrNoViableBump indicates no bump produced an off-curve address.
	ErrNoViableBump = errors.New("address: no viable bump found")

	// ErrDerivationMismatch indicates an address does not match its seeds.
	ErrDerivationMismatch = errors.New("address: derivation mismatch")
)
