package engine

import (
	"errors"
	"fmt"

	"github.com/bitfsorg/libescrow-go/address"
	"github.com/bitfsorg/libescrow-go/event"
	"github.com/bitfsorg/libescrow-go/ledger"
	"github.com/bitfsorg/libescrow-go/revshare"
	"github.com/bitfsorg/libescrow-go/token"
)

func (e *Engine) createEvent(tx ledger.Tx, signer address.Address, ix CreateEvent) (*Receipt, error) {
	if err := ix.Params.Validate(); err != nil {
		return nil, err
	}
	mint, err := token.GetMint(tx, ix.AcceptedMint)
	if err != nil {
		return nil, fmt.Errorf("accepted mint: %w", err)
	}
	if _, err := revshare.DecimalsFactor(mint.Decimals); err != nil {
		return nil, fmt.Errorf("accepted mint decimals %d: %w", mint.Decimals, err)
	}

	addrs, err := event.DeriveAddresses(e.programID, ix.Params.ID, signer)
	if err != nil {
		return nil, err
	}
	exists, err := event.Exists(tx, addrs.Event)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %q by %s", event.ErrExists, ix.Params.ID, signer)
	}

	if _, err := token.CreateMint(tx, addrs.ClaimMint, 0, addrs.Event); err != nil {
		return nil, err
	}
	if _, err := token.CreateHolding(tx, addrs.CapitalVault, ix.AcceptedMint, addrs.Event); err != nil {
		return nil, err
	}
	if _, err := token.CreateHolding(tx, addrs.RevenueVault, ix.AcceptedMint, addrs.Event); err != nil {
		return nil, err
	}
	if err := token.MoveNative(tx, signer, addrs.Event, e.recordDeposit); err != nil {
		return nil, fmt.Errorf("record deposit: %w", err)
	}

	ev := event.New(ix.Params, addrs, signer, ix.AcceptedMint, e.recordDeposit, e.now())
	if err := event.Save(tx, ev); err != nil {
		return nil, err
	}
	return &Receipt{Event: ev.Address, Amount: ev.Deposit}, nil
}

func (e *Engine) deleteEvent(tx ledger.Tx, signer address.Address, ix DeleteEvent) (*Receipt, error) {
	ev, err := e.authorizedEvent(tx, signer, ix.Event)
	if err != nil {
		return nil, err
	}
	capital, err := token.BalanceOf(tx, ev.CapitalVault)
	if err != nil {
		return nil, err
	}
	revenue, err := token.BalanceOf(tx, ev.RevenueVault)
	if err != nil {
		return nil, err
	}
	stranded, err := revshare.AddChecked(capital, revenue)
	if err != nil {
		return nil, err
	}

	if err := event.Remove(tx, ev.Address); err != nil {
		return nil, err
	}
	if err := token.MoveNative(tx, ev.Address, ev.Authority, ev.Deposit); err != nil {
		return nil, fmt.Errorf("refund deposit: %w", err)
	}
	return &Receipt{Event: ev.Address, Amount: ev.Deposit, Stranded: stranded}, nil
}

func (e *Engine) sponsorEvent(tx ledger.Tx, signer address.Address, ix SponsorEvent) (*Receipt, error) {
	if ix.Quantity == 0 {
		return nil, ErrInvalidQuantity
	}
	ev, err := e.activeEvent(tx, ix.Event)
	if err != nil {
		return nil, err
	}
	auth, err := e.authorityFor(tx, ev)
	if err != nil {
		return nil, err
	}
	if err := ev.AddSponsorship(ix.Quantity); err != nil {
		return nil, err
	}
	amount, err := e.price(tx, ev, ix.Quantity, ev.TokenPrice)
	if err != nil {
		return nil, err
	}
	if err := e.payIn(tx, ev, signer, ix.Source, ev.CapitalVault, amount); err != nil {
		return nil, err
	}

	claims, err := token.EnsureHolding(tx, e.programID, ev.ClaimMint, signer)
	if err != nil {
		return nil, err
	}
	if err := auth.mintClaims(claims.Address, ix.Quantity); err != nil {
		return nil, err
	}
	if err := event.Save(tx, ev); err != nil {
		return nil, err
	}
	return &Receipt{Event: ev.Address, Quantity: ix.Quantity, Amount: amount, Claims: ix.Quantity}, nil
}

func (e *Engine) buyTickets(tx ledger.Tx, signer address.Address, ix BuyTickets) (*Receipt, error) {
	if ix.Quantity == 0 {
		return nil, ErrInvalidQuantity
	}
	ev, err := e.activeEvent(tx, ix.Event)
	if err != nil {
		return nil, err
	}
	if err := ev.AddTickets(ix.Quantity); err != nil {
		return nil, err
	}
	amount, err := e.price(tx, ev, ix.Quantity, ev.TicketPrice)
	if err != nil {
		return nil, err
	}
	if err := e.payIn(tx, ev, signer, ix.Source, ev.RevenueVault, amount); err != nil {
		return nil, err
	}
	if err := event.Save(tx, ev); err != nil {
		return nil, err
	}
	return &Receipt{Event: ev.Address, Quantity: ix.Quantity, Amount: amount}, nil
}

func (e *Engine) withdrawFunds(tx ledger.Tx, signer address.Address, ix WithdrawFunds) (*Receipt, error) {
	if ix.Amount == 0 {
		return nil, fmt.Errorf("%w: withdraw amount", ErrInvalidQuantity)
	}
	ev, err := e.authorizedEvent(tx, signer, ix.Event)
	if err != nil {
		return nil, err
	}
	auth, err := e.authorityFor(tx, ev)
	if err != nil {
		return nil, err
	}
	capital, err := token.BalanceOf(tx, ev.CapitalVault)
	if err != nil {
		return nil, err
	}
	if capital < ix.Amount {
		return nil, fmt.Errorf("%w: capital %d, requested %d", ErrVaultUnderfunded, capital, ix.Amount)
	}
	dest, err := e.destination(tx, ev, signer, ix.Destination)
	if err != nil {
		return nil, err
	}
	if err := auth.withdrawCapital(dest, ix.Amount); err != nil {
		return nil, err
	}
	return &Receipt{Event: ev.Address, Amount: ix.Amount}, nil
}

func (e *Engine) closeEvent(tx ledger.Tx, signer address.Address, addr address.Address) (*Receipt, error) {
	ev, err := e.authorizedEvent(tx, signer, addr)
	if err != nil {
		return nil, err
	}
	ev.Close(e.now())
	if err := event.Save(tx, ev); err != nil {
		return nil, err
	}
	return &Receipt{Event: ev.Address}, nil
}

// withdrawEarnings pays floor(pool * claims / tokensSold) where pool is the
// revenue vault's current balance and tokensSold the lifetime claim count.
// Redeeming with no claims left succeeds and pays nothing.
func (e *Engine) withdrawEarnings(tx ledger.Tx, signer address.Address, ix WithdrawEarnings) (*Receipt, error) {
	ev, err := event.Load(tx, ix.Event)
	if err != nil {
		return nil, err
	}
	if ev.TokensSold == 0 {
		return nil, fmt.Errorf("%w: event %s", ErrNoClaimsIssued, ev.Address)
	}
	auth, err := e.authorityFor(tx, ev)
	if err != nil {
		return nil, err
	}

	claimHolding, claims, err := e.claimsOf(tx, ev, signer)
	if err != nil {
		return nil, err
	}
	share, err := revshare.ComputeShare(ev.TokensSold, claims)
	if err != nil {
		return nil, err
	}
	pool, err := token.BalanceOf(tx, ev.RevenueVault)
	if err != nil {
		return nil, err
	}
	entitlement, err := revshare.ComputeEntitlement(pool, share)
	if err != nil {
		return nil, err
	}
	if entitlement > pool {
		return nil, fmt.Errorf("%w: revenue %d, entitlement %d", ErrVaultUnderfunded, pool, entitlement)
	}

	if claims > 0 {
		if err := token.Burn(tx, ev.ClaimMint, claimHolding, signer, claims); err != nil {
			return nil, err
		}
	}
	if entitlement > 0 {
		dest, err := e.destination(tx, ev, signer, ix.Destination)
		if err != nil {
			return nil, err
		}
		if err := auth.payRevenue(dest, entitlement); err != nil {
			return nil, err
		}
	}
	return &Receipt{Event: ev.Address, Amount: entitlement, Claims: claims, Share: share}, nil
}

func (e *Engine) activeEvent(tx ledger.Tx, addr address.Address) (*event.Event, error) {
	ev, err := event.Load(tx, addr)
	if err != nil {
		return nil, err
	}
	if err := ev.RequireActive(); err != nil {
		return nil, err
	}
	return ev, nil
}

func (e *Engine) authorizedEvent(tx ledger.Tx, signer, addr address.Address) (*event.Event, error) {
	ev, err := event.Load(tx, addr)
	if err != nil {
		return nil, err
	}
	if ev.Authority != signer {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, signer)
	}
	return ev, nil
}

// price returns quantity * unitPrice scaled by the accepted mint's decimals.
func (e *Engine) price(tx ledger.Tx, ev *event.Event, quantity, unitPrice uint64) (uint64, error) {
	mint, err := token.GetMint(tx, ev.AcceptedMint)
	if err != nil {
		return 0, err
	}
	return revshare.ScaleAmount(quantity, unitPrice, mint.Decimals)
}

// payIn moves amount of the accepted currency from the signer's holding into vault.
func (e *Engine) payIn(tx ledger.Tx, ev *event.Event, signer, source, vault address.Address, amount uint64) error {
	if source.IsZero() {
		var err error
		if source, err = token.HoldingAddress(e.programID, ev.AcceptedMint, signer); err != nil {
			return err
		}
	}
	h, err := token.GetHolding(tx, source)
	if err != nil {
		return fmt.Errorf("payment source: %w", err)
	}
	if h.Mint != ev.AcceptedMint {
		return fmt.Errorf("%w: source holds %s, event accepts %s", token.ErrMintMismatch, h.Mint, ev.AcceptedMint)
	}
	return token.Transfer(tx, source, vault, signer, amount)
}

// destination resolves where accepted-currency outflows to signer land.
func (e *Engine) destination(tx ledger.Tx, ev *event.Event, signer, dest address.Address) (address.Address, error) {
	if !dest.IsZero() {
		return dest, nil
	}
	h, err := token.EnsureHolding(tx, e.programID, ev.AcceptedMint, signer)
	if err != nil {
		return address.Zero, err
	}
	return h.Address, nil
}

// claimsOf returns holder's claim holding address and balance. A holder that
// never sponsored has zero claims.
func (e *Engine) claimsOf(tx ledger.Tx, ev *event.Event, holder address.Address) (address.Address, uint64, error) {
	addr, err := token.HoldingAddress(e.programID, ev.ClaimMint, holder)
	if err != nil {
		return address.Zero, 0, err
	}
	h, err := token.GetHolding(tx, addr)
	if errors.Is(err, token.ErrHoldingNotFound) {
		return addr, 0, nil
	}
	if err != nil {
		return address.Zero, 0, err
	}
	return addr, h.Amount, nil
}
