// Package address defines the 32-byte account identities used by the escrow
// ledger and the deterministic derivation of program-owned sub-accounts.
//
// Key-owned accounts are addressed by the x-coordinate of their compressed
// secp256k1 public key. Program-owned accounts are derived from a seed tuple and
// are forced off the curve, so no private key can ever sign for them.
package address

import (
	"bytes"
	"encoding/hex"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

const (
	// Size is the length of an address in bytes.
	Size = 32

	// MaxSeeds is the maximum number of seeds accepted by a derivation.
	MaxSeeds = 16

	// MaxSeedLen is the maximum length of a single seed in bytes.
	MaxSeedLen = 32

	// derivationMarker is appended to every derivation preimage.
	derivationMarker = "ProgramDerivedAddress"
)

// Address identifies an account on the ledger.
type Address [Size]byte

// Zero is the empty address.
var Zero Address

// String returns the lowercase hex encoding of the address.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, a[:])
	return b
}

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool {
	return a == Zero
}

// Less orders addresses bytewise.
func (a Address) Less(other Address) bool {
	return bytes.Compare(a[:], other[:]) < 0
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseHex decodes a 64-character hex string into an Address.
func ParseHex(s string) (Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return FromBytes(b)
}

// FromBytes converts a 32-byte slice into an Address.
func FromBytes(b []byte) (Address, error) {
	if len(b) != Size {
		return Zero, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, Size, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// FromPubKey returns the address of a key-owned account: the x-coordinate of
// the compressed public key.
func FromPubKey(pub *ec.PublicKey) (Address, error) {
	if pub == nil {
		return Zero, ErrNilPublicKey
	}
	compressed := pub.Compressed()
	return FromBytes(compressed[1:])
}

// IsOnCurve reports whether the address is a valid secp256k1 x-coordinate,
// i.e. whether some private key could control it.
func IsOnCurve(a Address) bool {
	candidate := make([]byte, 0, Size+1)
	candidate = append(candidate, 0x02)
	candidate = append(candidate, a[:]...)
	_, err := ec.PublicKeyFromBytes(candidate)
	return err == nil
}

// CreateProgramAddress derives the address for the given seeds and bump.
// It fails with ErrOnCurve when the result could be controlled by a key.
func CreateProgramAddress(programID Address, bump uint8, seeds ...[]byte) (Address, error) {
	if err := checkSeeds(seeds); err != nil {
		return Zero, err
	}

	preimage := make([]byte, 0, 128)
	for _, s := range seeds {
		preimage = append(preimage, s...)
	}
	preimage = append(preimage, bump)
	preimage = append(preimage, programID[:]...)
	preimage = append(preimage, derivationMarker...)

	var a Address
	copy(a[:], bsvhash.Sha256(preimage))
	if IsOnCurve(a) {
		return Zero, ErrOnCurve
	}
	return a, nil
}

// FindProgramAddress searches bumps from 255 downward and returns the first
// off-curve address together with the bump that produced it.
func FindProgramAddress(programID Address, seeds ...[]byte) (Address, uint8, error) {
	if err := checkSeeds(seeds); err != nil {
		return Zero, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		a, err := CreateProgramAddress(programID, uint8(bump), seeds...)
		if err == nil {
			return a, uint8(bump), nil
		}
	}
	return Zero, 0, ErrNoViableBump
}

// VerifyProgramAddress checks that addr is the derivation of seeds with bump.
func VerifyProgramAddress(addr, programID Address, bump uint8, seeds ...[]byte) error {
	derived, err := CreateProgramAddress(programID, bump, seeds...)
	if err != nil {
		return err
	}
	if derived != addr {
		return fmt.Errorf("%w: expected %s, got %s", ErrDerivationMismatch, derived, addr)
	}
	return nil
}

func checkSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return fmt.Errorf("%w: %d seeds (max %d)", ErrInvalidSeeds, len(seeds), MaxSeeds)
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLen {
			return fmt.Errorf("%w: seed %d is %d bytes (max %d)", ErrInvalidSeeds, i, len(s), MaxSeedLen)
		}
	}
	return nil
}
