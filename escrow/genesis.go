package escrow

import (
	"context"

	"github.com/bitfsorg/libescrow-go/address"
	"github.com/bitfsorg/libescrow-go/ledger"
	"github.com/bitfsorg/libescrow-go/token"
)

// The host ledger normally provides currencies and native balances. These
// helpers seed them for local nodes and tests.

// IssueCurrency registers a currency mint controlled by issuer.
func (e *Escrow) IssueCurrency(ctx context.Context, mint address.Address, decimals uint8, issuer address.Address) error {
	return e.store.Update(ctx, func(tx ledger.Tx) error {
		_, err := token.CreateMint(tx, mint, decimals, issuer)
		return err
	})
}

// MintCurrency credits amount of mint to owner's associated holding,
// creating it if needed, and returns the holding address.
func (e *Escrow) MintCurrency(ctx context.Context, mint, issuer, owner address.Address, amount uint64) (address.Address, error) {
	var holding address.Address
	err := e.store.Update(ctx, func(tx ledger.Tx) error {
		h, err := token.EnsureHolding(tx, e.ProgramID(), mint, owner)
		if err != nil {
			return err
		}
		holding = h.Address
		return token.MintTo(tx, mint, h.Address, issuer, amount)
	})
	return holding, err
}

// CreditNative adds native deposit balance to addr.
func (e *Escrow) CreditNative(ctx context.Context, addr address.Address, amount uint64) error {
	return e.store.Update(ctx, func(tx ledger.Tx) error {
		return token.CreditNative(tx, addr, amount)
	})
}
