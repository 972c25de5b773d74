// Package token implements the fungible-token primitives of the host ledger:
// mints, holdings, and the Transfer, MintTo and Burn operations, plus the
// native deposit balances used for record reserves.
//
// The primitives compare authorities by address only. Proving that the caller
// controls an authority is the job of the program invoking them.
package token

import (
	"errors"
	"fmt"

	"github.com/bitfsorg/libescrow-go/address"
	"github.com/bitfsorg/libescrow-go/ledger"
)

const (
	bucketMints    = "mints"
	bucketHoldings = "holdings"
	bucketNative   = "native"

	// SeedHolding prefixes associated holding derivations.
	SeedHolding = "holding"
)

// Mint describes a fungible token.
type Mint struct {
	Address   address.Address
	Decimals  uint8
	Authority address.Address // only this address may mint
	Supply    uint64
}

// Holding is a balance of one mint owned by one account.
type Holding struct {
	Address address.Address
	Mint    address.Address
	Owner   address.Address
	Amount  uint64
}

// CreateMint initializes a mint at addr.
func CreateMint(tx ledger.Tx, addr address.Address, decimals uint8, authority address.Address) (*Mint, error) {
	exists, err := ledger.Exists(tx, bucketMints, addr[:])
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: mint %s", ErrAccountExists, addr)
	}
	m := &Mint{Address: addr, Decimals: decimals, Authority: authority}
	if err := putMint(tx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMint loads the mint at addr.
func GetMint(tx ledger.Tx, addr address.Address) (*Mint, error) {
	var m Mint
	if err := ledger.GetGob(tx, bucketMints, addr[:], &m); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMintNotFound, addr)
		}
		return nil, err
	}
	return &m, nil
}

// CreateHolding initializes an empty holding of mint owned by owner at addr.
func CreateHolding(tx ledger.Tx, addr, mint, owner address.Address) (*Holding, error) {
	if _, err := GetMint(tx, mint); err != nil {
		return nil, err
	}
	exists, err := ledger.Exists(tx, bucketHoldings, addr[:])
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: holding %s", ErrAccountExists, addr)
	}
	h := &Holding{Address: addr, Mint: mint, Owner: owner}
	if err := putHolding(tx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// GetHolding loads the holding at addr.
func GetHolding(tx ledger.Tx, addr address.Address) (*Holding, error) {
	var h Holding
	if err := ledger.GetGob(tx, bucketHoldings, addr[:], &h); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrHoldingNotFound, addr)
		}
		return nil, err
	}
	return &h, nil
}

// HoldingAddress derives the associated holding of owner for mint.
func HoldingAddress(programID, mint, owner address.Address) (address.Address, error) {
	addr, _, err := address.FindProgramAddress(programID, []byte(SeedHolding), owner[:], mint[:])
	return addr, err
}

// EnsureHolding returns the associated holding of owner for mint, creating it
// when it does not exist yet.
func EnsureHolding(tx ledger.Tx, programID, mint, owner address.Address) (*Holding, error) {
	addr, err := HoldingAddress(programID, mint, owner)
	if err != nil {
		return nil, err
	}
	h, err := GetHolding(tx, addr)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, ErrHoldingNotFound) {
		return nil, err
	}
	return CreateHolding(tx, addr, mint, owner)
}

// BalanceOf returns the amount held at addr.
func BalanceOf(tx ledger.Tx, addr address.Address) (uint64, error) {
	h, err := GetHolding(tx, addr)
	if err != nil {
		return 0, err
	}
	return h.Amount, nil
}

// Transfer moves amount between two holdings of the same mint. authority must
// own the source holding.
func Transfer(tx ledger.Tx, from, to, authority address.Address, amount uint64) error {
	src, err := GetHolding(tx, from)
	if err != nil {
		return fmt.Errorf("transfer source: %w", err)
	}
	dst, err := GetHolding(tx, to)
	if err != nil {
		return fmt.Errorf("transfer destination: %w", err)
	}
	if src.Mint != dst.Mint {
		return fmt.Errorf("%w: %s -> %s", ErrMintMismatch, src.Mint, dst.Mint)
	}
	if src.Owner != authority {
		return fmt.Errorf("%w: %s", ErrOwnerMismatch, from)
	}
	if src.Amount < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, src.Amount, amount)
	}
	if from == to {
		return nil
	}
	if dst.Amount > ^uint64(0)-amount {
		return fmt.Errorf("%w: destination %s", ErrOverflow, to)
	}

	src.Amount -= amount
	dst.Amount += amount
	if err := putHolding(tx, src); err != nil {
		return err
	}
	return putHolding(tx, dst)
}

// MintTo creates amount new tokens in dest. authority must be the mint's
// minting authority.
func MintTo(tx ledger.Tx, mint, dest, authority address.Address, amount uint64) error {
	m, err := GetMint(tx, mint)
	if err != nil {
		return err
	}
	if m.Authority != authority {
		return fmt.Errorf("%w: %s", ErrMintAuthority, authority)
	}
	h, err := GetHolding(tx, dest)
	if err != nil {
		return fmt.Errorf("mint destination: %w", err)
	}
	if h.Mint != mint {
		return fmt.Errorf("%w: holding %s is for %s", ErrMintMismatch, dest, h.Mint)
	}
	if m.Supply > ^uint64(0)-amount || h.Amount > ^uint64(0)-amount {
		return fmt.Errorf("%w: mint %s", ErrOverflow, mint)
	}

	m.Supply += amount
	h.Amount += amount
	if err := putMint(tx, m); err != nil {
		return err
	}
	return putHolding(tx, h)
}

// Burn destroys amount tokens from source. authority must own the source.
func Burn(tx ledger.Tx, mint, source, authority address.Address, amount uint64) error {
	m, err := GetMint(tx, mint)
	if err != nil {
		return err
	}
	h, err := GetHolding(tx, source)
	if err != nil {
		return fmt.Errorf("burn source: %w", err)
	}
	if h.Mint != mint {
		return fmt.Errorf("%w: holding %s is for %s", ErrMintMismatch, source, h.Mint)
	}
	if h.Owner != authority {
		return fmt.Errorf("%w: %s", ErrOwnerMismatch, source)
	}
	if h.Amount < amount {
		return fmt.Errorf("%w: have %d, burn %d", ErrInsufficientFunds, h.Amount, amount)
	}

	h.Amount -= amount
	m.Supply -= amount
	if err := putMint(tx, m); err != nil {
		return err
	}
	return putHolding(tx, h)
}

func putMint(tx ledger.Tx, m *Mint) error {
	return ledger.PutGob(tx, bucketMints, m.Address[:], m)
}

func putHolding(tx ledger.Tx, h *Holding) error {
	return ledger.PutGob(tx, bucketHoldings, h.Address[:], h)
}
