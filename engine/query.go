package engine

import (
	"context"
	"errors"

	"github.com/bitfsorg/libescrow-go/address"
	"github.com/bitfsorg/libescrow-go/event"
	"github.com/bitfsorg/libescrow-go/ledger"
	"github.com/bitfsorg/libescrow-go/revshare"
	"github.com/bitfsorg/libescrow-go/token"
)

// Balances is a snapshot of an event's vaults and claim supply.
type Balances struct {
	Capital     uint64
	Revenue     uint64
	ClaimSupply uint64 // outstanding claim-tokens
	TokensSold  uint64 // lifetime claim-tokens, the redemption denominator
}

// Earnings previews what a holder would receive by redeeming now.
type Earnings struct {
	Claims      uint64
	Share       revshare.Share
	Pool        uint64
	Entitlement uint64
}

// EventAddress derives the record address of id created by authority.
func (e *Engine) EventAddress(id string, authority address.Address) (address.Address, error) {
	addrs, err := event.DeriveAddresses(e.programID, id, authority)
	if err != nil {
		return address.Zero, err
	}
	return addrs.Event, nil
}

// HoldingAddress returns owner's associated holding for mint.
func (e *Engine) HoldingAddress(mint, owner address.Address) (address.Address, error) {
	return token.HoldingAddress(e.programID, mint, owner)
}

// GetEvent loads an event record.
func (e *Engine) GetEvent(ctx context.Context, addr address.Address) (*event.Event, error) {
	var ev *event.Event
	err := e.store.View(ctx, func(tx ledger.Tx) error {
		var err error
		ev, err = event.Load(tx, addr)
		return err
	})
	return ev, err
}

// ListEvents returns the events created by authority, or every event when
// authority is zero.
func (e *Engine) ListEvents(ctx context.Context, authority address.Address) ([]*event.Event, error) {
	var events []*event.Event
	err := e.store.View(ctx, func(tx ledger.Tx) error {
		var err error
		events, err = event.List(tx, func(ev *event.Event) bool {
			return authority.IsZero() || ev.Authority == authority
		})
		return err
	})
	return events, err
}

// Balances reports the vault balances of an event.
func (e *Engine) Balances(ctx context.Context, addr address.Address) (*Balances, error) {
	var b Balances
	err := e.store.View(ctx, func(tx ledger.Tx) error {
		ev, err := event.Load(tx, addr)
		if err != nil {
			return err
		}
		if b.Capital, err = token.BalanceOf(tx, ev.CapitalVault); err != nil {
			return err
		}
		if b.Revenue, err = token.BalanceOf(tx, ev.RevenueVault); err != nil {
			return err
		}
		mint, err := token.GetMint(tx, ev.ClaimMint)
		if err != nil {
			return err
		}
		b.ClaimSupply = mint.Supply
		b.TokensSold = ev.TokensSold
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// PreviewEarnings computes holder's entitlement without changing state.
func (e *Engine) PreviewEarnings(ctx context.Context, addr, holder address.Address) (*Earnings, error) {
	var out Earnings
	err := e.store.View(ctx, func(tx ledger.Tx) error {
		ev, err := event.Load(tx, addr)
		if err != nil {
			return err
		}
		if ev.TokensSold == 0 {
			return ErrNoClaimsIssued
		}
		_, claims, err := e.claimsOf(tx, ev, holder)
		if err != nil {
			return err
		}
		if out.Pool, err = token.BalanceOf(tx, ev.RevenueVault); err != nil {
			return err
		}
		out.Claims = claims
		if out.Share, err = revshare.ComputeShare(ev.TokensSold, claims); err != nil {
			return err
		}
		out.Entitlement, err = revshare.ComputeEntitlement(out.Pool, out.Share)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PreviewDistribution simulates holders redeeming in the given order and
// returns each payout plus the dust left in the revenue vault.
func (e *Engine) PreviewDistribution(ctx context.Context, addr address.Address, holders []address.Address) ([]revshare.Distribution, uint64, error) {
	var (
		dists []revshare.Distribution
		dust  uint64
	)
	err := e.store.View(ctx, func(tx ledger.Tx) error {
		ev, err := event.Load(tx, addr)
		if err != nil {
			return err
		}
		if ev.TokensSold == 0 {
			return ErrNoClaimsIssued
		}
		pool, err := token.BalanceOf(tx, ev.RevenueVault)
		if err != nil {
			return err
		}
		holdings := make([]revshare.Holding, 0, len(holders))
		for _, h := range holders {
			_, claims, err := e.claimsOf(tx, ev, h)
			if err != nil {
				return err
			}
			holdings = append(holdings, revshare.Holding{Holder: h, Claims: claims})
		}
		dists, dust, err = revshare.PreviewRedemptions(pool, ev.TokensSold, holdings)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return dists, dust, nil
}

// Balance returns the amount held at a holding address. A missing holding
// holds zero.
func (e *Engine) Balance(ctx context.Context, holding address.Address) (uint64, error) {
	var amount uint64
	err := e.store.View(ctx, func(tx ledger.Tx) error {
		var err error
		amount, err = token.BalanceOf(tx, holding)
		if errors.Is(err, token.ErrHoldingNotFound) {
			return nil
		}
		return err
	})
	return amount, err
}

// NativeBalance returns the native deposit balance of addr.
func (e *Engine) NativeBalance(ctx context.Context, addr address.Address) (uint64, error) {
	var amount uint64
	err := e.store.View(ctx, func(tx ledger.Tx) error {
		var err error
		amount, err = token.NativeBalance(tx, addr)
		return err
	})
	return amount, err
}

// ListReceipts returns receipts in execution order, filtered to one event
// unless addr is zero.
func (e *Engine) ListReceipts(ctx context.Context, addr address.Address) ([]*Receipt, error) {
	var out []*Receipt
	err := e.store.View(ctx, func(tx ledger.Tx) error {
		return tx.ForEach(bucketReceipts, func(_, value []byte) error {
			var r Receipt
			if err := ledger.DecodeGob(value, &r); err != nil {
				return err
			}
			if addr.IsZero() || r.Event == addr {
				out = append(out, &r)
			}
			return nil
		})
	})
	return out, err
}
